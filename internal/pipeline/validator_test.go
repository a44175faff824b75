package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOMAURL(t *testing.T) {
	assert.Equal(t, "https://omabrowser.org/oma/vps/P04637/", OMAURL("P04637"))
}

func TestURLValidator_IsLive(t *testing.T) {
	ctx := context.Background()

	var probes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/dead/" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	v := NewURLValidator(srv.Client())

	t.Run("200 is live", func(t *testing.T) {
		assert.True(t, v.IsLive(ctx, srv.URL+"/live/"))
	})

	t.Run("non-200 is not live", func(t *testing.T) {
		assert.False(t, v.IsLive(ctx, srv.URL+"/dead/"))
	})

	t.Run("unreachable host is not live", func(t *testing.T) {
		assert.False(t, v.IsLive(ctx, "http://127.0.0.1:1/nothing/"))
	})

	t.Run("results are cached per URL", func(t *testing.T) {
		before := probes.Load()
		for i := 0; i < 5; i++ {
			assert.True(t, v.IsLive(ctx, srv.URL+"/live/"))
			assert.False(t, v.IsLive(ctx, srv.URL+"/dead/"))
		}
		assert.Equal(t, before, probes.Load(), "repeat probes must hit the cache")
	})
}
