package oma

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
)

// Row is one ortholog pair as read from a flat file. Identifiers are opaque
// strings: Ensembl-style or numeric NCBI-style, compared by exact equality.
type Row struct {
	Gene1 string
	Gene2 string
}

// filenamePattern extracts the two NCBI taxon ids from an ortholog filename,
// e.g. orthologs_9606-10090.csv.
var filenamePattern = regexp.MustCompile(`orthologs_(\d+)-(\d+)\.csv`)

// TaxaFromFilename returns the two taxon tokens encoded in an ortholog
// filename, or ok=false when the name does not match the fixed pattern.
func TaxaFromFilename(name string) (taxon1, taxon2 string, ok bool) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// LoadFile parses one ortholog CSV into rows. The file must carry at least
// gene1 and gene2 columns; extra columns are ignored. Any parse failure
// (unreadable file, missing header, ragged records) is returned as an error
// so the caller can record the file and move on.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := records[0]
	gene1Col, gene2Col := -1, -1
	for i, name := range header {
		switch name {
		case "gene1":
			gene1Col = i
		case "gene2":
			gene2Col = i
		}
	}
	if gene1Col < 0 || gene2Col < 0 {
		return nil, fmt.Errorf("%s: missing gene1/gene2 columns", path)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row{Gene1: rec[gene1Col], Gene2: rec[gene2Col]})
	}
	return rows, nil
}
