package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogUpstream(calls *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/courses":
			w.Write([]byte(`[{"id":1,"name":"BS Information Technology"},{"id":2,"name":"BS Computer Science"}]`))
		case "/technical-skills":
			w.Write([]byte(`[{"id":3,"name":"Go"}]`))
		case "/soft-skills":
			w.Write([]byte(`[{"id":4,"name":"Communication"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCatalogFetchAndCache(t *testing.T) {
	var calls atomic.Int32
	server := newCatalogUpstream(&calls)
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	service := NewService(client, time.Hour, zap.NewNop())

	ctx := context.Background()
	courses := service.Courses(ctx)
	require.Len(t, courses, 2)
	assert.Equal(t, int64(1), courses[0].ID)
	assert.Equal(t, "BS Information Technology", courses[0].Name)

	// second read is served from cache
	service.Courses(ctx)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCatalogServesCachedWhenUpstreamDown(t *testing.T) {
	var calls atomic.Int32
	server := newCatalogUpstream(&calls)

	client := NewClient(server.URL, time.Second)
	service := NewService(client, time.Hour, zap.NewNop())

	ctx := context.Background()
	require.Len(t, service.TechnicalSkills(ctx), 1)

	server.Close()
	assert.Len(t, service.TechnicalSkills(ctx), 1)
}

func TestCatalogDegradesToEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second)
	service := NewService(client, time.Hour, zap.NewNop())

	items := service.SoftSkills(context.Background())
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCatalogUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Courses(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestCatalogRefreshScheduling(t *testing.T) {
	var calls atomic.Int32
	server := newCatalogUpstream(&calls)
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	service := NewService(client, time.Hour, zap.NewNop())

	require.NoError(t, service.Start("@every 1h"))
	defer service.Stop()

	// Start warms all three catalogs up front
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, service.Courses(context.Background()), 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCatalogRefreshRejectsBadSpec(t *testing.T) {
	client := NewClient("http://localhost:0", time.Second)
	service := NewService(client, time.Hour, zap.NewNop())
	assert.Error(t, service.Start("not a cron spec"))
}
