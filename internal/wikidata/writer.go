package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// EditSummary is the fixed summary attached to every ortholog edit.
const EditSummary = "Add orthologs from OMA (Orthologous MAtrix) database"

// OrthologStatement describes one directional ortholog claim: subject gene
// entity "ortholog" object gene entity, qualified with the taxon the object
// gene is found in, referenced by the OMA item and the subject's OMA URL.
type OrthologStatement struct {
	Subject      string // gene entity the claim is added to
	Object       string // ortholog gene entity
	TaxonID      string // found-in-taxon qualifier; empty to omit
	ReferenceURL string // OMA browser URL of the subject's protein
}

// Claim renders the statement as a wikibase claim ready for wbeditentity.
func (st OrthologStatement) Claim() Claim {
	c := Claim{
		MainSnak: NewItemSnak(PropOrtholog, st.Object),
		Type:     "statement",
		Rank:     "normal",
		References: []Reference{{
			Snaks: map[string][]Snak{
				PropStatedIn:     {NewItemSnak(PropStatedIn, OMAItemID)},
				PropReferenceURL: {NewURLSnak(PropReferenceURL, st.ReferenceURL)},
			},
			SnaksOrder: []string{PropStatedIn, PropReferenceURL},
		}},
	}
	if st.TaxonID != "" {
		c.Qualifiers = map[string][]Snak{
			PropFoundInTaxon: {NewItemSnak(PropFoundInTaxon, st.TaxonID)},
		}
	}
	return c
}

// Writer submits ortholog statements through an authenticated session.
//
// Submissions are append-only (wbeditentity without clear), with the simple
// keep-append reference mode. No check is made for an existing identical
// claim, so re-running the bot over the same input can create duplicate
// ortholog claims on the same item. A custom reference handler that merges
// only the OMA reference into existing claims is a known improvement that is
// not implemented here.
type Writer struct {
	session *Session
	// MaxLag asks the API to defer the edit when replication lag is high.
	MaxLag int
}

// NewWriter wraps an authenticated session for statement submission.
func NewWriter(s *Session) *Writer {
	return &Writer{session: s, MaxLag: 5}
}

// Submit appends one ortholog statement to its subject entity.
func (w *Writer) Submit(ctx context.Context, st OrthologStatement) error {
	payload := struct {
		Claims []Claim `json:"claims"`
	}{Claims: []Claim{st.Claim()}}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("action", "wbeditentity")
	form.Set("id", st.Subject)
	form.Set("data", string(data))
	form.Set("summary", EditSummary)
	form.Set("token", w.session.csrfToken)
	form.Set("format", "json")
	form.Set("maxlag", fmt.Sprint(w.MaxLag))

	var out struct {
		Success int       `json:"success"`
		Error   *apiError `json:"error,omitempty"`
	}
	if err := w.session.post(ctx, form, &out); err != nil {
		return fmt.Errorf("submitting ortholog claim on %s: %w", st.Subject, err)
	}
	if out.Error != nil {
		return fmt.Errorf("submitting ortholog claim on %s: %w", st.Subject, out.Error)
	}
	if out.Success != 1 {
		return fmt.Errorf("submitting ortholog claim on %s: api reported failure", st.Subject)
	}
	return nil
}
