package utils

import (
	"strings"
)

// NormalizeName returns the canonical key of an ingredient name: lower-cased,
// whitespace collapsed, with the last word folded from plural to singular.
// Folding rules, first match wins: "ies" -> "y", "oes" -> "o", "es" -> "",
// "s" -> "". NormalizeName is idempotent.
func NormalizeName(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	if len(words) == 0 {
		return ""
	}
	last := len(words) - 1
	words[last] = singular(words[last])
	return strings.Join(words, " ")
}

// singular applies one fold, and only if the folded word is a fixed point.
// Keeping the input otherwise is what makes NormalizeName idempotent.
func singular(word string) string {
	folded, ok := fold(word)
	if !ok || folded == "" {
		return word
	}
	if _, changed := fold(folded); changed {
		return word
	}
	return folded
}

func fold(word string) (string, bool) {
	switch {
	case strings.HasSuffix(word, "ies"):
		return strings.TrimSuffix(word, "ies") + "y", true
	case strings.HasSuffix(word, "oes"):
		return strings.TrimSuffix(word, "oes") + "o", true
	case strings.HasSuffix(word, "es"):
		return strings.TrimSuffix(word, "es"), true
	case strings.HasSuffix(word, "s"):
		return strings.TrimSuffix(word, "s"), true
	default:
		return word, false
	}
}
