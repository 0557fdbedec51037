package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quadpde/quadpde/internal/registry"
	"github.com/quadpde/quadpde/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	err error
}

func (s stubCatalog) List() ([]*registry.Example, error) { return nil, s.err }

func (s stubCatalog) Get(string) (*registry.Example, bool, error) { return nil, false, s.err }

func newTestServer(t *testing.T, catalog Catalog) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(Config{Catalog: catalog, Logger: testutil.NewTestLogger(t)}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func catalogRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := testutil.ExamplesDir(t, map[string]string{
		"riccati.star":   testutil.Logistic,
		"no_marker.star": "x = 1\n",
	})
	return registry.New(registry.Config{ExamplesDir: dir, Logger: testutil.NewTestLogger(t)})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, stubCatalog{})

	var body map[string]string
	status := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]string{"status": "healthy"}, body)
}

func TestListExamples(t *testing.T) {
	srv := newTestServer(t, catalogRegistry(t))

	var body []map[string]any
	status := getJSON(t, srv.URL+"/api/examples", &body)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body, 1)

	summary := body[0]
	assert.Equal(t, "riccati", summary["id"])
	assert.Equal(t, "Riccati", summary["name"])
	assert.Equal(t, "Riccati-type scalar ODE.", summary["description"])
	assert.EqualValues(t, 3, summary["diff_ord"])
	assert.Equal(t, "t", summary["first_indep"])
	assert.Len(t, summary["equations_latex"], 1)
	assert.NotContains(t, summary, "equations")
	assert.NotContains(t, summary, "vars")
}

func TestGetExample(t *testing.T) {
	srv := newTestServer(t, catalogRegistry(t))

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{name: "exact", id: "riccati", wantStatus: http.StatusOK},
		{name: "case-insensitive", id: "RicCati", wantStatus: http.StatusOK},
		{name: "skipped file", id: "no_marker", wantStatus: http.StatusNotFound},
		{name: "unknown", id: "lorenz", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			status := getJSON(t, srv.URL+"/api/examples/"+tt.id, &body)
			require.Equal(t, tt.wantStatus, status)

			if tt.wantStatus == http.StatusNotFound {
				assert.Equal(t, map[string]any{"detail": DetailNotFound}, body)
				return
			}
			assert.Equal(t, "riccati", body["id"])
			assert.Equal(t, []any{"Derivative(x(t), t) = x(t)**2 + 1"}, body["equations"])
			assert.Equal(t, "t", body["vars"])
			assert.Equal(t, "x", body["funcs"])
		})
	}
}

func TestRegistryErrors(t *testing.T) {
	missing := registry.New(registry.Config{
		PackageDir: t.TempDir(),
		Executable: func() (string, error) { return "/nonexistent/quadpde", nil },
	})

	tests := []struct {
		name       string
		catalog    Catalog
		wantStatus int
		wantDetail string
	}{
		{
			name:       "missing directory",
			catalog:    missing,
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: DetailUnavailable,
		},
		{
			name:       "wrapped missing directory",
			catalog:    stubCatalog{err: fmt.Errorf("load: %w", registry.ErrDirectoryNotFound)},
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: DetailUnavailable,
		},
		{
			name:       "other failure",
			catalog:    stubCatalog{err: errors.New("disk on fire")},
			wantStatus: http.StatusInternalServerError,
			wantDetail: DetailInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.catalog)
			for _, path := range []string{"/api/examples", "/api/examples/riccati"} {
				var body map[string]string
				status := getJSON(t, srv.URL+path, &body)
				assert.Equal(t, tt.wantStatus, status, path)
				assert.Equal(t, tt.wantDetail, body["detail"], path)
			}
		})
	}
}

func TestServeListener_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(Config{Catalog: stubCatalog{}, Logger: testutil.NewTestLogger(t), ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	var body map[string]string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return json.NewDecoder(resp.Body).Decode(&body) == nil
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "healthy", body["status"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_ListenError(t *testing.T) {
	s := NewServer(Config{Addr: "256.0.0.1:bad", Catalog: stubCatalog{}})
	err := s.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}
