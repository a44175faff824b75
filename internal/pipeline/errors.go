// Package pipeline implements the reconciliation and validation pipeline:
// map flat-file gene identifiers to Wikidata items, resolve each gene to its
// encoded protein and UniProt accession, confirm the derived OMA browser URL
// is live, and aggregate everything into validated pairs plus typed error
// buckets.
package pipeline

import "sort"

// Bucket names for recoverable per-file and per-row failures. The keys in a
// bucket are a set: the same failing identifier encountered across multiple
// rows or files is counted once.
const (
	BucketErrorLoadingFiles = "error_loading_files"
	BucketTaxonNotFound     = "taxon_not_found"
	BucketGeneNotFound      = "gene_not_found"
	BucketMissingEncodes    = "missing_encodes_infos"
	BucketMoreThanOne       = "more_than_1_encodes"
	BucketPairsLost         = "pairs_lost_due_to_missing_prot_info"
	BucketOmaURLNotFound    = "oma_url_not_found"
)

// BucketEntry tags one failing key with the bucket it belongs to. Row
// processing emits entries; the aggregation step merges them.
type BucketEntry struct {
	Bucket string
	Key    string
}

// Buckets accumulates bucket entries with set semantics. It is owned by the
// aggregation step and must not be mutated concurrently; parallel workers
// return their entries and the reduce step merges them here.
type Buckets map[string]map[string]struct{}

// NewBuckets returns an empty accumulator.
func NewBuckets() Buckets {
	return make(Buckets)
}

// Add records one key in one bucket.
func (b Buckets) Add(bucket, key string) {
	set, ok := b[bucket]
	if !ok {
		set = make(map[string]struct{})
		b[bucket] = set
	}
	set[key] = struct{}{}
}

// Merge folds a batch of entries into the accumulator.
func (b Buckets) Merge(entries []BucketEntry) {
	for _, e := range entries {
		b.Add(e.Bucket, e.Key)
	}
}

// Count returns the number of distinct keys in a bucket.
func (b Buckets) Count(bucket string) int {
	return len(b[bucket])
}

// Names returns the non-empty bucket names in sorted order for reporting.
func (b Buckets) Names() []string {
	names := make([]string, 0, len(b))
	for name, set := range b {
		if len(set) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
