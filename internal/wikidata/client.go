// Package wikidata talks to the Wikidata read and write APIs: the SPARQL query
// service for bulk property-value maps, wbgetentities for claim sets, and
// wbeditentity (plus the login handshake) for appending ortholog statements.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultAPIURL is the MediaWiki action API endpoint.
	DefaultAPIURL = "https://www.wikidata.org/w/api.php"
	// DefaultSPARQLURL is the Wikidata query service endpoint.
	DefaultSPARQLURL = "https://query.wikidata.org/sparql"

	userAgent    = "OmaOrthologBot/1.0 (adds orthologs from the OMA database)"
	entityPrefix = "http://www.wikidata.org/entity/"
)

// Reader is the read surface of the knowledge base the pipeline needs:
// a bulk value-to-entity map per identifying property, and the full claim
// set of a single entity.
type Reader interface {
	// PropertyValueMap returns, for every entity carrying the given property,
	// a map from the property's value to the entity id.
	PropertyValueMap(ctx context.Context, property string) (map[string]string, error)

	// EntityClaims returns the full claim set of the entity.
	EntityClaims(ctx context.Context, entityID string) (Claims, error)
}

// Client implements Reader against the live Wikidata endpoints.
type Client struct {
	apiURL    string
	sparqlURL string
	http      *http.Client
}

// NewClient creates a read client. Empty URLs select the public Wikidata
// endpoints; a nil http.Client selects http.DefaultClient.
func NewClient(apiURL, sparqlURL string, hc *http.Client) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if sparqlURL == "" {
		sparqlURL = DefaultSPARQLURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{apiURL: apiURL, sparqlURL: sparqlURL, http: hc}
}

// sparqlResponse mirrors the SPARQL JSON results format, limited to the two
// bindings the property-value query selects.
type sparqlResponse struct {
	Results struct {
		Bindings []struct {
			Item  struct{ Value string } `json:"item"`
			Value struct{ Value string } `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// PropertyValueMap queries the SPARQL endpoint for every (entity, value) pair
// of the given property. Duplicate values keep the last binding seen, matching
// the last-wins merge order used when maps for several schemes are combined.
func (c *Client) PropertyValueMap(ctx context.Context, property string) (map[string]string, error) {
	query := fmt.Sprintf("SELECT ?item ?value WHERE { ?item wdt:%s ?value }", property)

	form := url.Values{}
	form.Set("query", query)
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sparqlURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql query for %s failed: %w", property, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sparql query for %s failed: status %d", property, resp.StatusCode)
	}

	var out sparqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding sparql results for %s: %w", property, err)
	}

	m := make(map[string]string, len(out.Results.Bindings))
	for _, b := range out.Results.Bindings {
		m[b.Value.Value] = strings.TrimPrefix(b.Item.Value, entityPrefix)
	}
	return m, nil
}

// entitiesResponse mirrors the wbgetentities JSON envelope, limited to claims.
type entitiesResponse struct {
	Entities map[string]struct {
		ID     string `json:"id"`
		Claims Claims `json:"claims"`
		// The API signals a missing entity with a "missing" member whose
		// type differs across format versions; only presence matters.
		Missing json.RawMessage `json:"missing,omitempty"`
	} `json:"entities"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("wikidata api error %s: %s", e.Code, e.Info)
}

// EntityClaims fetches the claim set of one entity via wbgetentities.
func (c *Client) EntityClaims(ctx context.Context, entityID string) (Claims, error) {
	q := url.Values{}
	q.Set("action", "wbgetentities")
	q.Set("ids", entityID)
	q.Set("props", "claims")
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching entity %s: %w", entityID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching entity %s: status %d", entityID, resp.StatusCode)
	}

	var out entitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding entity %s: %w", entityID, err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	ent, ok := out.Entities[entityID]
	if !ok || len(ent.Missing) > 0 {
		return nil, fmt.Errorf("entity %s not found", entityID)
	}
	return ent.Claims, nil
}
