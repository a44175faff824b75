package pipeline

import (
	"context"
	"fmt"
	"sync"

	"omabot/internal/wikidata"
)

// ProteinInfo is the encoded-protein record extracted from a gene's encodes
// claim: the protein item and its UniProt accession.
type ProteinInfo struct {
	ProteinID string
	UniProt   string
}

// errMissingEncodes covers every way the encodes extraction can fail: the
// entity fetch itself, an absent encodes claim, or missing nesting at any
// extraction step. The contract deliberately does not distinguish "claim
// missing" from "claim malformed".
var errMissingEncodes = fmt.Errorf("missing or malformed encodes claim")

// resolution is one memoized resolver outcome, failure included, so a gene
// that appears across many files costs one knowledge-base fetch per run.
type resolution struct {
	info     ProteinInfo
	multiple bool
	failed   bool
}

// Resolver resolves a mapped gene to its encoded protein, memoizing per gene
// for the lifetime of a run. Safe for concurrent use: the cache is
// mutex-guarded and never exposes a partially written entry. Concurrent
// first-access races may duplicate an upstream fetch, which is acceptable.
type Resolver struct {
	kb wikidata.Reader

	mu    sync.Mutex
	cache map[string]resolution
}

// NewResolver creates a resolver with an empty per-run cache.
func NewResolver(kb wikidata.Reader) *Resolver {
	return &Resolver{kb: kb, cache: make(map[string]resolution)}
}

// Resolve returns the gene's protein info, whether the gene carries more than
// one encodes claim (first claim taken, warning for the caller to record),
// and an error when extraction failed at any level.
func (r *Resolver) Resolve(ctx context.Context, gene, entityID string) (ProteinInfo, bool, error) {
	r.mu.Lock()
	res, ok := r.cache[gene]
	r.mu.Unlock()
	if !ok {
		res = r.extract(ctx, entityID)
		r.mu.Lock()
		r.cache[gene] = res
		r.mu.Unlock()
	}
	if res.failed {
		return ProteinInfo{}, false, errMissingEncodes
	}
	return res.info, res.multiple, nil
}

// extract collapses the deeply nested claim/reference/snak access into one
// well-defined outcome. Policy: when a gene encodes more than one protein,
// the first claim is taken deterministically and the caller is warned. This
// is a known simplification carried over from the bot's original behavior,
// not silently correct biology.
func (r *Resolver) extract(ctx context.Context, entityID string) resolution {
	claims, err := r.kb.EntityClaims(ctx, entityID)
	if err != nil {
		return resolution{failed: true}
	}
	encodes := claims[wikidata.PropEncodes]
	if len(encodes) == 0 {
		return resolution{failed: true}
	}

	first := encodes[0]
	proteinID, err := first.MainSnak.EntityID()
	if err != nil {
		return resolution{failed: true}
	}
	if len(first.References) == 0 {
		return resolution{failed: true}
	}
	uniprotSnaks := first.References[0].Snaks[wikidata.PropUniProtID]
	if len(uniprotSnaks) == 0 {
		return resolution{failed: true}
	}
	accession, err := uniprotSnaks[0].StringValue()
	if err != nil {
		return resolution{failed: true}
	}

	return resolution{
		info:     ProteinInfo{ProteinID: proteinID, UniProt: accession},
		multiple: len(encodes) > 1,
	}
}
