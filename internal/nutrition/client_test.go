package nutrition

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/catalog"
	"github.com/wichananm65/smoothie-order-form/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	transport := &http.Transport{}
	t.Cleanup(func() {
		transport.CloseIdleConnections()
		srv.Close()
	})
	c := NewClient(&http.Client{Transport: transport}, config.Nutrition{
		BaseURL:     srv.URL + "/api/fruit/",
		Timeout:     2 * time.Second,
		Concurrency: 3,
	}, zap.NewNop())
	return c, srv
}

func TestFetch_Available(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Apple","nutrition":{"sugar":10.3}}`))
	})

	res, err := c.Fetch(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, "/api/fruit/apple", gotPath)
	assert.True(t, res.Available)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"name":"Apple","nutrition":{"sugar":10.3}}`, string(res.Record))
}

func TestFetch_NotFoundIsUnavailable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Not found"}`, http.StatusNotFound)
	})

	res, err := c.Fetch(context.Background(), "dragonfruit")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Not Found", res.Reason)
	assert.Nil(t, res.Record)
}

func TestFetch_ServerErrorIsUnavailable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	res, err := c.Fetch(context.Background(), "kiwi")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestFetch_InvalidBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	res, err := c.Fetch(context.Background(), "apple")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "invalid body", res.Reason)
}

func TestFetch_BodyTooLarge(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"` + strings.Repeat("a", maxBodyBytes) + `"`))
	})

	res, err := c.Fetch(context.Background(), "apple")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "body too large", res.Reason)
}

func TestFetch_EscapesLookupKey(t *testing.T) {
	var raw string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Fetch(context.Background(), "passion fruit/x")
	require.NoError(t, err)
	assert.Equal(t, "/api/fruit/passion%20fruit%2Fx", raw)

	raw = ""
	for _, key := range []string{".", "..", " .. "} {
		res, err := c.Fetch(context.Background(), key)
		require.NoError(t, err)
		assert.False(t, res.Available, key)
		assert.Equal(t, "invalid lookup key", res.Reason, key)
		assert.Zero(t, res.StatusCode, key)
	}
	assert.Empty(t, raw, "dot segments must not reach the upstream host")
}

func TestFetch_NonOKSuccessIsUnavailable(t *testing.T) {
	for _, code := range []int{http.StatusCreated, http.StatusNoContent} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				if code != http.StatusNoContent {
					_, _ = w.Write([]byte(`{"name":"Apple"}`))
				}
			})

			res, err := c.Fetch(context.Background(), "apple")
			require.NoError(t, err)
			assert.False(t, res.Available)
			assert.Equal(t, code, res.StatusCode)
			assert.Equal(t, http.StatusText(code), res.Reason)
			assert.Nil(t, res.Record)
		})
	}
}

func TestFetch_EmptyKeyMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	res, err := c.Fetch(context.Background(), "  ")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "missing lookup key", res.Reason)
	assert.Zero(t, calls.Load())
}

func TestFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(&http.Client{}, config.Nutrition{BaseURL: base, Timeout: time.Second}, zap.NewNop())
	_, err := c.Fetch(context.Background(), "apple")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "apple", netErr.LookupKey)
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(&http.Client{}, config.Nutrition{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())
	_, err := c.Fetch(context.Background(), "apple")
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchAll_KeepsOrderAndIsolatesFailures(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/fruit/apple":
			_, _ = w.Write([]byte(`{"name":"Apple"}`))
		case "/api/fruit/mango":
			time.Sleep(20 * time.Millisecond)
			_, _ = w.Write([]byte(`{"name":"Mango"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	transport := &http.Transport{}
	defer transport.CloseIdleConnections()

	c := NewClient(&http.Client{Transport: transport}, config.Nutrition{
		BaseURL:     srv.URL + "/api/fruit",
		Timeout:     2 * time.Second,
		Concurrency: 2,
	}, zap.NewNop())

	items := []catalog.Ingredient{
		{Name: "Mango", LookupKey: "mango"},
		{Name: "Dragon Fruit", LookupKey: "dragonfruit"},
		{Name: "Apple", LookupKey: "apple"},
	}
	panels := c.FetchAll(context.Background(), items)
	require.Len(t, panels, 3)

	for i, p := range panels {
		assert.Equal(t, items[i], p.Ingredient)
		assert.NoError(t, p.Err)
	}
	assert.True(t, panels[0].Result.Available)
	assert.False(t, panels[1].Result.Available)
	assert.Equal(t, http.StatusNotFound, panels[1].Result.StatusCode)
	assert.True(t, panels[2].Result.Available)
}

func TestFetchAll_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		_, _ = w.Write([]byte(`{}`))
	})

	items := make([]catalog.Ingredient, 8)
	for i := range items {
		items[i] = catalog.Ingredient{Name: string(rune('A' + i)), LookupKey: string(rune('a' + i))}
	}
	panels := c.FetchAll(context.Background(), items)
	require.Len(t, panels, 8)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestFetchAll_Empty(t *testing.T) {
	c := NewClient(nil, config.Nutrition{BaseURL: "http://unused.invalid"}, zap.NewNop())
	assert.Empty(t, c.FetchAll(context.Background(), nil))
}
