package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePair() ValidatedPair {
	return ValidatedPair{
		Gene1:        "ENSG00000141510",
		Gene2:        "ENSMUSG00000059552",
		Gene1WDID:    "Q14818098",
		Gene2WDID:    "Q14904521",
		Prot1WDID:    "Q283350",
		Prot2WDID:    "Q14905308",
		Prot1UniProt: "P04637",
		Prot2UniProt: "P02340",
		Taxon1WDID:   "Q15978631",
		Taxon2WDID:   "Q83310",
		OmaURL1:      "https://omabrowser.org/oma/vps/P04637/",
		OmaURL2:      "https://omabrowser.org/oma/vps/P02340/",
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteAuditCSV(t *testing.T) {
	t.Run("write mode includes taxon columns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, WriteAuditCSV(path, []ValidatedPair{samplePair()}, true))

		records := readCSV(t, path)
		require.Len(t, records, 2)
		assert.Equal(t, []string{
			"gene1", "gene2", "gene1_wdid", "gene2_wdid",
			"prot1_wdid", "prot2_wdid", "prot1_uniprot", "prot2_uniprot",
			"taxon1_wdid", "taxon2_wdid", "oma_url1", "oma_url2",
		}, records[0])
		assert.Equal(t, "Q15978631", records[1][8])
		assert.Equal(t, "https://omabrowser.org/oma/vps/P02340/", records[1][11])
	})

	t.Run("read-only mode omits taxon columns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, WriteAuditCSV(path, []ValidatedPair{samplePair()}, false))

		records := readCSV(t, path)
		require.Len(t, records, 2)
		assert.Len(t, records[0], 10)
		assert.NotContains(t, records[0], "taxon1_wdid")
	})

	t.Run("empty run still writes the header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, WriteAuditCSV(path, nil, false))

		records := readCSV(t, path)
		require.Len(t, records, 1)
	})
}
