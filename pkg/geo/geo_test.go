package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func TestClientSendsKeyAndCachesResponses(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "secret", r.Header.Get("X-CSCAPI-KEY"))
		assert.Equal(t, "/countries/IN/states", r.URL.Path)
		_, _ = w.Write([]byte(`[{"name":"Kerala","iso2":"KL"}]`))
	}))
	defer srv.Close()

	cache := &memoryCache{data: map[string][]byte{}}
	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret", CacheTTL: time.Hour}, cache, zap.NewNop())

	first := client.States(context.Background(), "IN")
	second := client.States(context.Background(), "IN")

	require.Len(t, first, 1)
	assert.Equal(t, "Kerala", first[0]["name"])
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	_, cached := cache.Get(context.Background(), "geo:/countries/IN/states")
	assert.True(t, cached)
}

func TestClientReturnsEmptyListOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, nil, zap.NewNop())
	got := client.Countries(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClientReturnsEmptyListOnBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, nil, zap.NewNop())
	assert.Empty(t, client.Cities(context.Background(), "IN", "KL"))
}
