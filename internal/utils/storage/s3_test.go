package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicLinkRoundTrip(t *testing.T) {
	s3 := NewAwsS3WithClient(nil, "pantry-bucket", "eu-west-1")

	link := s3.GetPublicLinkKey("shopping-lists/2026-W11.txt")
	assert.Equal(t, "https://pantry-bucket.s3.eu-west-1.amazonaws.com/shopping-lists/2026-W11.txt", link)
	assert.Equal(t, "shopping-lists/2026-W11.txt", s3.GetObjectKeyFromLink(link))
	assert.Empty(t, s3.GetObjectKeyFromLink("https://elsewhere.example.com/x"))
}

func TestNewAwsS3RequiresBucket(t *testing.T) {
	_, err := NewAwsS3(context.Background())
	assert.ErrorIs(t, err, ErrBucketNotConfigured)
}
