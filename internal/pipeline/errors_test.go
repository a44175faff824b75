package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuckets_SetSemantics(t *testing.T) {
	b := NewBuckets()
	b.Add(BucketGeneNotFound, "ENSG1")
	b.Add(BucketGeneNotFound, "ENSG1")
	b.Merge([]BucketEntry{
		{BucketGeneNotFound, "ENSG1"},
		{BucketGeneNotFound, "ENSG2"},
		{BucketOmaURLNotFound, "ENSG1"},
	})

	assert.Equal(t, 2, b.Count(BucketGeneNotFound), "same key counted once per bucket")
	assert.Equal(t, 1, b.Count(BucketOmaURLNotFound), "same key in another bucket is independent")
	assert.Zero(t, b.Count(BucketMissingEncodes))
}

func TestBuckets_Names(t *testing.T) {
	b := NewBuckets()
	b.Add(BucketOmaURLNotFound, "u")
	b.Add(BucketGeneNotFound, "g")

	assert.Equal(t, []string{BucketGeneNotFound, BucketOmaURLNotFound}, b.Names())
}
