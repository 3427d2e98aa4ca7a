package shopping

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/internal/utils"
	"strings"
	"time"
)

type BuildOptions struct {
	// SkipPastDays drops days whose date is strictly before Today.
	SkipPastDays bool
	Today        time.Time
}

type bucketKey struct {
	key  string
	unit string
}

// Build aggregates the ingredients the plan needs per (canonical key, unit)
// bucket, subtracts matching pantry stock and returns the buckets that are
// still short. Slots naming an unknown recipe contribute nothing. Rows are
// grouped by canonical key in first-seen order, then by unit in first-seen
// order. Build does not modify its inputs.
func Build(plan domain.WeekPlan, recipes domain.RecipeCatalog, pantry []domain.IngredientRecord, opts BuildOptions) []domain.ShoppingListItem {
	var (
		keys     []string
		units    = make(map[string][]string)
		required = make(map[bucketKey]float64)
	)

	today := civilDate(opts.Today)
	datesKnown := plan.Year > 0 && plan.Week > 0

	for _, day := range domain.Days {
		slots, ok := plan.Days[day]
		if !ok {
			continue
		}
		if opts.SkipPastDays && datesKnown && domain.PlanDate(plan.Year, plan.Week, day).Before(today) {
			continue
		}
		for _, slot := range domain.Slots {
			name := strings.TrimSpace(slots[slot])
			if name == "" {
				continue
			}
			recipe, ok := recipes.Lookup(name)
			if !ok {
				continue
			}
			for _, line := range recipe.Ingredients {
				key := utils.NormalizeName(line.Name)
				if key == "" {
					continue
				}
				bk := bucketKey{key: key, unit: line.Unit}
				if _, seen := required[bk]; !seen {
					if _, keySeen := units[key]; !keySeen {
						keys = append(keys, key)
					}
					units[key] = append(units[key], line.Unit)
				}
				required[bk] += line.Quantity
			}
		}
	}

	stock := make(map[bucketKey]float64, len(pantry))
	for _, rec := range pantry {
		stock[bucketKey{key: utils.NormalizeName(rec.Name), unit: rec.Unit}] += rec.Quantity
	}

	items := []domain.ShoppingListItem{}
	for _, key := range keys {
		for _, unit := range units[key] {
			bk := bucketKey{key: key, unit: unit}
			need := required[bk]
			have := stock[bk]
			missing := need - have
			if missing <= 0 {
				continue
			}
			items = append(items, domain.ShoppingListItem{
				Name:     key,
				Unit:     unit,
				Required: need,
				Have:     have,
				Missing:  missing,
			})
		}
	}
	return items
}

// civilDate truncates t to midnight UTC of its own calendar day, the same
// frame domain.PlanDate uses.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
