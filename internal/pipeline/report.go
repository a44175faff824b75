package pipeline

import (
	"encoding/csv"
	"os"
)

// WriteAuditCSV writes one row per validated pair. The taxon columns are
// included only in write mode, where the taxon map was built. The file is
// written even when no pair validated, so an empty run still leaves a
// (header-only) audit trail.
func WriteAuditCSV(path string, pairs []ValidatedPair, writeMode bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"gene1", "gene2",
		"gene1_wdid", "gene2_wdid",
		"prot1_wdid", "prot2_wdid",
		"prot1_uniprot", "prot2_uniprot",
	}
	if writeMode {
		header = append(header, "taxon1_wdid", "taxon2_wdid")
	}
	header = append(header, "oma_url1", "oma_url2")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, p := range pairs {
		rec := []string{
			p.Gene1, p.Gene2,
			p.Gene1WDID, p.Gene2WDID,
			p.Prot1WDID, p.Prot2WDID,
			p.Prot1UniProt, p.Prot2UniProt,
		}
		if writeMode {
			rec = append(rec, p.Taxon1WDID, p.Taxon2WDID)
		}
		rec = append(rec, p.OmaURL1, p.OmaURL2)
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
