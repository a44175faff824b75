package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// probeTimeout bounds each liveness probe; a file may hold thousands of rows
// each needing up to two probes.
const probeTimeout = 5 * time.Second

// OMAURL derives the canonical OMA browser URL for a protein accession.
func OMAURL(accession string) string {
	return fmt.Sprintf("https://omabrowser.org/oma/vps/%s/", accession)
}

// URLValidator confirms liveness of OMA browser URLs with a HEAD probe,
// memoizing per URL for the run so the same protein is never re-probed.
// Absence of liveness is data, not failure: network errors, timeouts and
// non-200 statuses all report not-live. Safe for concurrent use.
type URLValidator struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]bool
}

// NewURLValidator creates a validator. A nil client selects a default one
// with the fixed probe timeout.
func NewURLValidator(client *http.Client) *URLValidator {
	if client == nil {
		client = &http.Client{Timeout: probeTimeout}
	}
	return &URLValidator{client: client, cache: make(map[string]bool)}
}

// IsLive reports whether the URL responds with 200 to a HEAD request.
func (v *URLValidator) IsLive(ctx context.Context, url string) bool {
	v.mu.Lock()
	live, ok := v.cache[url]
	v.mu.Unlock()
	if ok {
		return live
	}

	live = v.probe(ctx, url)
	v.mu.Lock()
	v.cache[url] = live
	v.mu.Unlock()
	return live
}

func (v *URLValidator) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
