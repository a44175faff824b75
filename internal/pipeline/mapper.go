package pipeline

import (
	"context"
	"fmt"

	"omabot/internal/wikidata"
)

// BuildIdentifierMap queries the knowledge base once per identifier scheme
// and merges the scheme-local maps left to right, so a later scheme wins when
// the same identifier value appears under more than one property. NCBI gene
// ids and Ensembl ids are disjoint in practice, but the tie-break is fixed by
// the order of schemes. A query failure is fatal: no partial map is usable.
func BuildIdentifierMap(ctx context.Context, kb wikidata.Reader, schemes []string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, scheme := range schemes {
		m, err := kb.PropertyValueMap(ctx, scheme)
		if err != nil {
			return nil, fmt.Errorf("building identifier map for %s: %w", scheme, err)
		}
		for id, entity := range m {
			merged[id] = entity
		}
	}
	return merged, nil
}

// BuildTaxonMap maps NCBI taxonomy ids to their Wikidata items. Only the
// write-mode run needs it, for the found-in-taxon qualifier.
func BuildTaxonMap(ctx context.Context, kb wikidata.Reader) (map[string]string, error) {
	m, err := kb.PropertyValueMap(ctx, wikidata.PropNCBITaxonomyID)
	if err != nil {
		return nil, fmt.Errorf("building taxon map: %w", err)
	}
	return m, nil
}
