package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"omabot/internal/oma"
	"omabot/internal/wikidata"
)

// StatementSubmitter is the write surface of the knowledge base: append one
// directional ortholog statement.
type StatementSubmitter interface {
	Submit(ctx context.Context, st wikidata.OrthologStatement) error
}

// Runner drives one batch run over a directory of ortholog files:
// load, filter, resolve and validate each row (sequentially or on a bounded
// worker pool), aggregate pairs and error buckets, and in write mode submit
// the reciprocal ortholog statements for every validated pair.
type Runner struct {
	log       zerolog.Logger
	genes     map[string]string
	taxa      map[string]string // nil outside write mode
	processor *Processor
	writer    StatementSubmitter // nil outside write mode
	workers   int                // <=1 means sequential
}

// NewRunner wires a runner. taxa and writer are nil outside write mode;
// workers <= 1 selects the sequential scheduling model.
func NewRunner(log zerolog.Logger, genes, taxa map[string]string, processor *Processor, writer StatementSubmitter, workers int) *Runner {
	return &Runner{
		log:       log,
		genes:     genes,
		taxa:      taxa,
		processor: processor,
		writer:    writer,
		workers:   workers,
	}
}

// Report is the outcome of a run: validated pairs in discovery order and the
// merged error buckets.
type Report struct {
	Pairs   []ValidatedPair
	Buckets Buckets
}

// Run processes every ortholog CSV under dir in a fixed, deterministic order.
// Per-file and per-row failures are recovered into buckets and never abort
// the batch.
func (r *Runner) Run(ctx context.Context, dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	report := &Report{Buckets: NewBuckets()}
	for _, name := range names {
		r.processFile(ctx, dir, name, report)
	}
	return report, nil
}

func (r *Runner) processFile(ctx context.Context, dir, name string, report *Report) {
	log := r.log.With().Str("file", name).Logger()

	var taxon1WDID, taxon2WDID string
	if r.taxa != nil {
		taxon1, taxon2, ok := oma.TaxaFromFilename(name)
		if !ok {
			log.Warn().Msg("taxon tokens not found in filename, skipping file")
			return
		}
		if taxon1WDID, ok = r.taxa[taxon1]; !ok {
			report.Buckets.Add(BucketTaxonNotFound, taxon1)
			return
		}
		if taxon2WDID, ok = r.taxa[taxon2]; !ok {
			report.Buckets.Add(BucketTaxonNotFound, taxon2)
			return
		}
	}

	rows, err := oma.LoadFile(filepath.Join(dir, name))
	if err != nil {
		log.Warn().Err(err).Msg("could not load ortholog file")
		report.Buckets.Add(BucketErrorLoadingFiles, name)
		return
	}

	kept, entries := FilterRows(rows, r.genes)
	report.Buckets.Merge(entries)
	if len(kept) == 0 {
		return
	}
	log.Info().Int("rows", len(rows)).Int("kept", len(kept)).Msg("processing ortholog file")

	results := r.processRows(ctx, kept, taxon1WDID, taxon2WDID)

	// Single accumulation point: workers return results, the merge happens
	// here in row order so the audit output is reproducible.
	for _, res := range results {
		report.Buckets.Merge(res.Entries)
		if res.Pair == nil {
			continue
		}
		report.Pairs = append(report.Pairs, *res.Pair)
		if r.writer != nil {
			r.submitPair(ctx, *res.Pair)
		}
	}
}

// processRows runs the pair processor over the kept rows, sequentially or on
// a bounded worker pool. Results land in a slice indexed by row so the
// discovery order is preserved under either scheduling model.
func (r *Runner) processRows(ctx context.Context, rows []oma.Row, taxon1WDID, taxon2WDID string) []Result {
	results := make([]Result, len(rows))
	if r.workers <= 1 {
		for i, row := range rows {
			results[i] = r.processor.Process(ctx, row, taxon1WDID, taxon2WDID)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			results[i] = r.processor.Process(gctx, row, taxon1WDID, taxon2WDID)
			return nil
		})
	}
	_ = g.Wait() // workers recover per-row failures into bucket entries
	return results
}

// submitPair issues the two reciprocal append statements for one validated
// pair. Each direction is best-effort: a failure on the first must not block
// the second, and no failure aborts the run.
func (r *Runner) submitPair(ctx context.Context, pair ValidatedPair) {
	statements := []wikidata.OrthologStatement{
		{
			Subject:      pair.Gene1WDID,
			Object:       pair.Gene2WDID,
			TaxonID:      pair.Taxon2WDID,
			ReferenceURL: pair.OmaURL1,
		},
		{
			Subject:      pair.Gene2WDID,
			Object:       pair.Gene1WDID,
			TaxonID:      pair.Taxon1WDID,
			ReferenceURL: pair.OmaURL2,
		},
	}
	for _, st := range statements {
		if err := r.writer.Submit(ctx, st); err != nil {
			r.log.Error().Err(err).
				Str("subject", st.Subject).
				Str("object", st.Object).
				Msg("ortholog statement submission failed")
		}
	}
}
