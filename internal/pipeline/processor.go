package pipeline

import (
	"context"

	"omabot/internal/oma"
)

// ValidatedPair is the fully accepted record for one ortholog row: both genes
// resolved to proteins and both derived OMA URLs confirmed live. Taxon items
// are filled only in write mode.
type ValidatedPair struct {
	Gene1        string
	Gene2        string
	Gene1WDID    string
	Gene2WDID    string
	Prot1WDID    string
	Prot2WDID    string
	Prot1UniProt string
	Prot2UniProt string
	Taxon1WDID   string
	Taxon2WDID   string
	OmaURL1      string
	OmaURL2      string
}

// ProteinResolver resolves a mapped gene to its encoded protein.
type ProteinResolver interface {
	Resolve(ctx context.Context, gene, entityID string) (ProteinInfo, bool, error)
}

// LivenessChecker reports whether a derived OMA URL responds.
type LivenessChecker interface {
	IsLive(ctx context.Context, url string) bool
}

// Result is the outcome of processing one row: a validated pair or the
// bucket entries explaining why it was dropped. Warning entries (more than
// one encodes) can accompany a successful pair.
type Result struct {
	Pair    *ValidatedPair
	Entries []BucketEntry
}

// FilterRows drops rows whose genes have no knowledge-base mapping, before
// any per-row lookup is attempted. Unmapped identifiers from both columns go
// into the gene_not_found bucket undistinguished.
func FilterRows(rows []oma.Row, genes map[string]string) (kept []oma.Row, entries []BucketEntry) {
	for _, row := range rows {
		_, ok1 := genes[row.Gene1]
		_, ok2 := genes[row.Gene2]
		if !ok1 {
			entries = append(entries, BucketEntry{BucketGeneNotFound, row.Gene1})
		}
		if !ok2 {
			entries = append(entries, BucketEntry{BucketGeneNotFound, row.Gene2})
		}
		if ok1 && ok2 {
			kept = append(kept, row)
		}
	}
	return kept, entries
}

// Processor turns one filtered ortholog row into a Result. It is the unit of
// parallel work: the identifier map is read-only and the resolver and
// validator carry their own synchronized caches, so Process is safe to call
// from concurrent workers.
type Processor struct {
	genes    map[string]string
	resolver ProteinResolver
	urls     LivenessChecker
}

// NewProcessor wires the processor to its read-only map and collaborators.
func NewProcessor(genes map[string]string, resolver ProteinResolver, urls LivenessChecker) *Processor {
	return &Processor{genes: genes, resolver: resolver, urls: urls}
}

// Process resolves both genes, derives both OMA URLs and probes them in
// order. URL1 is probed first and a dead URL1 rejects the row immediately,
// without probing URL2. The taxon arguments may be empty outside write mode.
func (p *Processor) Process(ctx context.Context, row oma.Row, taxon1WDID, taxon2WDID string) Result {
	var res Result

	info1, multiple1, err := p.resolver.Resolve(ctx, row.Gene1, p.genes[row.Gene1])
	if err != nil {
		res.Entries = append(res.Entries,
			BucketEntry{BucketMissingEncodes, row.Gene1},
			BucketEntry{BucketPairsLost, row.Gene1 + row.Gene2})
		return res
	}
	info2, multiple2, err := p.resolver.Resolve(ctx, row.Gene2, p.genes[row.Gene2])
	if err != nil {
		res.Entries = append(res.Entries,
			BucketEntry{BucketMissingEncodes, row.Gene2},
			BucketEntry{BucketPairsLost, row.Gene1 + row.Gene2})
		return res
	}

	// Non-fatal: first encoded protein taken, gene flagged.
	if multiple1 {
		res.Entries = append(res.Entries, BucketEntry{BucketMoreThanOne, row.Gene1})
	}
	if multiple2 {
		res.Entries = append(res.Entries, BucketEntry{BucketMoreThanOne, row.Gene2})
	}

	url1 := OMAURL(info1.UniProt)
	url2 := OMAURL(info2.UniProt)

	if !p.urls.IsLive(ctx, url1) {
		res.Entries = append(res.Entries, BucketEntry{BucketOmaURLNotFound, url1})
		return res
	}
	if !p.urls.IsLive(ctx, url2) {
		res.Entries = append(res.Entries, BucketEntry{BucketOmaURLNotFound, url2})
		return res
	}

	res.Pair = &ValidatedPair{
		Gene1:        row.Gene1,
		Gene2:        row.Gene2,
		Gene1WDID:    p.genes[row.Gene1],
		Gene2WDID:    p.genes[row.Gene2],
		Prot1WDID:    info1.ProteinID,
		Prot2WDID:    info2.ProteinID,
		Prot1UniProt: info1.UniProt,
		Prot2UniProt: info2.UniProt,
		Taxon1WDID:   taxon1WDID,
		Taxon2WDID:   taxon2WDID,
		OmaURL1:      url1,
		OmaURL2:      url2,
	}
	return res
}
