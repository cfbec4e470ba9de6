package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlab/gdp-ingest/internal/aoml"
	"github.com/driftlab/gdp-ingest/internal/catalog"
	"github.com/driftlab/gdp-ingest/internal/directory"
	"github.com/driftlab/gdp-ingest/internal/domain"
	"github.com/driftlab/gdp-ingest/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testIndex builds an index where drifter 2 deployed before drifter 1,
// and drifter 3 before both, so canonical order is 3, 2, 1.
func testIndex() *directory.Index {
	deploy := func(year int) domain.Position {
		return domain.Position{Time: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)}
	}
	return directory.New([]domain.DirectoryRecord{
		{ID: 1, Deploy: deploy(2010)},
		{ID: 2, Deploy: deploy(2005)},
		{ID: 3, Deploy: deploy(2001)},
	})
}

func newTestManager(t *testing.T, handler http.Handler, subdirs map[int64]string, workers int) (*Manager, string, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cacheDir := t.TempDir()
	client := aoml.NewClient(srv.URL, srv.URL, 5*time.Second, testLogger())
	m := NewManager(client, catalog.New(subdirs), testIndex(), cacheDir, workers, testLogger(), observability.NewMetricsForTesting())
	return m, cacheDir, srv
}

func TestFetchOne_Idempotent(t *testing.T) {
	var requests atomic.Int64
	m, cacheDir, srv := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		io.WriteString(w, "netcdf bytes")
	}), map[int64]string{1: "buoydata_1_5000"}, 1)

	local := filepath.Join(cacheDir, "buoydata_1_5000", "drifter_1.nc")
	url := srv.URL + "/buoydata_1_5000/drifter_1.nc"

	require.NoError(t, m.FetchOne(context.Background(), url, local))
	require.NoError(t, m.FetchOne(context.Background(), url, local))

	assert.Equal(t, int64(1), requests.Load())

	content, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "netcdf bytes", string(content))
}

func TestFetchOne_FailureLeavesNoPartialFile(t *testing.T) {
	m, cacheDir, srv := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}), map[int64]string{1: "buoydata_1_5000"}, 1)

	local := filepath.Join(cacheDir, "buoydata_1_5000", "drifter_1.nc")
	err := m.FetchOne(context.Background(), srv.URL+"/buoydata_1_5000/drifter_1.nc", local)
	require.Error(t, err)

	_, statErr := os.Stat(local)
	assert.True(t, os.IsNotExist(statErr))

	// The temp file must be cleaned up too.
	entries, err := os.ReadDir(filepath.Dir(local))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownload_AllKnownDrifters(t *testing.T) {
	subdirs := map[int64]string{
		1: "buoydata_1_5000",
		2: "buoydata_1_5000",
		3: "buoydata_5001_10000",
	}
	m, _, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "data")
	}), subdirs, 2)

	ids, err := m.Download(context.Background(), nil, 0)
	require.NoError(t, err)

	// Reordered by deployment date, not by identifier or completion order.
	assert.Equal(t, []int64{3, 2, 1}, ids)

	for id, subdir := range subdirs {
		_, err := os.Stat(m.LocalPath(subdir, id))
		assert.NoError(t, err, "drifter %d not cached", id)
	}
}

func TestDownload_IsolatesPerDrifterFailures(t *testing.T) {
	m, _, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/buoydata_1_5000/drifter_2.nc" {
			http.Error(w, "gone", http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "data")
	}), map[int64]string{1: "buoydata_1_5000", 2: "buoydata_1_5000", 3: "buoydata_1_5000"}, 2)

	ids, err := m.Download(context.Background(), nil, 0)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Failed, 1)

	var transportErr *domain.TransportError
	require.ErrorAs(t, batchErr.Failed[2], &transportErr)
	assert.Equal(t, int64(2), transportErr.ID)

	// The survivors still come back in canonical order.
	assert.Equal(t, []int64{3, 1}, ids)
}

func TestDownload_UnknownIDFails(t *testing.T) {
	m, _, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "data")
	}), map[int64]string{1: "buoydata_1_5000"}, 1)

	_, err := m.Download(context.Background(), []int64{1, 99}, 0)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.ErrorIs(t, batchErr.Failed[99], domain.ErrUnknownID)
}

func TestDownload_OversizedSampleFetchesAll(t *testing.T) {
	m, _, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "data")
	}), map[int64]string{1: "buoydata_1_5000", 2: "buoydata_1_5000"}, 2)

	ids, err := m.Download(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestSample_DeterministicAndSorted(t *testing.T) {
	m, _, _ := newTestManager(t, http.NotFoundHandler(), map[int64]string{}, 1)

	candidates := []int64{11, 7, 23, 5, 17}
	first := m.sample(candidates, 3)
	second := m.sample(candidates, 3)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.IsIncreasing(t, first)
	for _, id := range first {
		assert.Contains(t, candidates, id)
	}
}
