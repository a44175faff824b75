package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWikibase serves the login handshake and records wbeditentity posts.
type fakeWikibase struct {
	t      *testing.T
	edits  []editCapture
	reject bool
}

type editCapture struct {
	ID      string
	Summary string
	Token   string
	Claims  []Claim
}

func (f *fakeWikibase) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(f.t, r.ParseForm())
		switch {
		case r.Form.Get("action") == "query":
			kind := r.Form.Get("type")
			fmt.Fprintf(w, `{"query": {"tokens": {"%stoken": "%s-token+\\"}}}`, kind, kind)
		case r.Form.Get("action") == "login":
			if r.Form.Get("lgpassword") == "wrong" {
				fmt.Fprint(w, `{"login": {"result": "Failed", "reason": "bad pass"}}`)
				return
			}
			assert.Equal(f.t, "login-token+\\", r.Form.Get("lgtoken"))
			fmt.Fprint(w, `{"login": {"result": "Success"}}`)
		case r.Form.Get("action") == "wbeditentity":
			if f.reject {
				fmt.Fprint(w, `{"error": {"code": "failed-save", "info": "edit conflict"}}`)
				return
			}
			var payload struct {
				Claims []Claim `json:"claims"`
			}
			require.NoError(f.t, json.Unmarshal([]byte(r.Form.Get("data")), &payload))
			f.edits = append(f.edits, editCapture{
				ID:      r.Form.Get("id"),
				Summary: r.Form.Get("summary"),
				Token:   r.Form.Get("token"),
				Claims:  payload.Claims,
			})
			fmt.Fprint(w, `{"success": 1}`)
		default:
			f.t.Fatalf("unexpected action: %s", r.Form.Get("action"))
		}
	}
}

func TestLogin(t *testing.T) {
	fake := &fakeWikibase{t: t}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	t.Run("successful handshake yields a csrf token", func(t *testing.T) {
		s, err := Login(context.Background(), srv.URL, "bot", "pw", srv.Client())
		require.NoError(t, err)
		assert.Equal(t, "csrf-token+\\", s.csrfToken)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		_, err := Login(context.Background(), srv.URL, "bot", "wrong", srv.Client())
		assert.ErrorContains(t, err, "login failed")
	})
}

func TestWriter_Submit(t *testing.T) {
	fake := &fakeWikibase{t: t}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	session, err := Login(context.Background(), srv.URL, "bot", "pw", srv.Client())
	require.NoError(t, err)
	w := NewWriter(session)

	st := OrthologStatement{
		Subject:      "Q14818098",
		Object:       "Q14904521",
		TaxonID:      "Q83310",
		ReferenceURL: "https://omabrowser.org/oma/vps/P04637/",
	}
	require.NoError(t, w.Submit(context.Background(), st))

	require.Len(t, fake.edits, 1)
	edit := fake.edits[0]
	assert.Equal(t, "Q14818098", edit.ID)
	assert.Equal(t, EditSummary, edit.Summary)
	assert.Equal(t, "csrf-token+\\", edit.Token)

	require.Len(t, edit.Claims, 1)
	claim := edit.Claims[0]

	object, err := claim.MainSnak.EntityID()
	require.NoError(t, err)
	assert.Equal(t, PropOrtholog, claim.MainSnak.Property)
	assert.Equal(t, "Q14904521", object)

	taxonSnaks := claim.Qualifiers[PropFoundInTaxon]
	require.Len(t, taxonSnaks, 1)
	taxon, err := taxonSnaks[0].EntityID()
	require.NoError(t, err)
	assert.Equal(t, "Q83310", taxon)

	require.Len(t, claim.References, 1)
	statedIn, err := claim.References[0].Snaks[PropStatedIn][0].EntityID()
	require.NoError(t, err)
	assert.Equal(t, OMAItemID, statedIn)
	refURL, err := claim.References[0].Snaks[PropReferenceURL][0].StringValue()
	require.NoError(t, err)
	assert.Equal(t, st.ReferenceURL, refURL)
}

func TestWriter_SubmitAPIError(t *testing.T) {
	fake := &fakeWikibase{t: t, reject: true}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	session, err := Login(context.Background(), srv.URL, "bot", "pw", srv.Client())
	require.NoError(t, err)

	err = NewWriter(session).Submit(context.Background(), OrthologStatement{Subject: "Q1", Object: "Q2"})
	assert.ErrorContains(t, err, "failed-save")
}

func TestOrthologStatement_ClaimOmitsEmptyTaxon(t *testing.T) {
	c := OrthologStatement{Subject: "Q1", Object: "Q2", ReferenceURL: "https://omabrowser.org/oma/vps/X/"}.Claim()
	assert.Nil(t, c.Qualifiers)
	assert.Len(t, c.References, 1)
}
