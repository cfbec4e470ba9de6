// Package fetch populates the local drifter cache with bounded-concurrency,
// idempotent downloads from the AOML archive.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/driftlab/gdp-ingest/internal/aoml"
	"github.com/driftlab/gdp-ingest/internal/catalog"
	"github.com/driftlab/gdp-ingest/internal/directory"
	"github.com/driftlab/gdp-ingest/internal/domain"
	"github.com/driftlab/gdp-ingest/internal/observability"
)

// sampleSeed is the fixed RNG seed for random sampling, so a sampled batch
// is reproducible across runs and machines.
const sampleSeed = 42

// Manager downloads drifter files into the local cache. The cache mirrors
// the archive layout: <cacheDir>/<subdir>/drifter_<id>.nc. The cache is
// append-only; files are never overwritten once present.
type Manager struct {
	client   *aoml.Client
	catalog  *catalog.Catalog
	index    *directory.Index
	cacheDir string
	workers  int
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewManager creates a fetch manager. workers <= 0 selects the runtime's
// available parallelism.
func NewManager(client *aoml.Client, cat *catalog.Catalog, ix *directory.Index, cacheDir string, workers int, logger *slog.Logger, metrics *observability.Metrics) *Manager {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Manager{
		client:   client,
		catalog:  cat,
		index:    ix,
		cacheDir: cacheDir,
		workers:  workers,
		logger:   logger,
		metrics:  metrics,
	}
}

// LocalPath returns a drifter's deterministic cache location.
func (m *Manager) LocalPath(subdir string, id int64) string {
	return filepath.Join(m.cacheDir, subdir, fmt.Sprintf("drifter_%d.nc", id))
}

// FetchOne downloads url into localPath unless the file already exists.
// An existing file is treated as valid regardless of completeness: the
// existence check is the documented caching policy, not an integrity check.
// Downloads write to a temp file and rename, so a concurrent run racing the
// existence check at worst duplicates work and never publishes a partial file.
func (m *Manager) FetchOne(ctx context.Context, url, localPath string) error {
	if _, err := os.Stat(localPath); err == nil {
		m.metrics.Downloads.WithLabelValues("cached").Inc()
		return nil
	}

	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(localPath)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	start := time.Now()
	if err := m.client.Download(ctx, url, tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		m.metrics.Downloads.WithLabelValues("error").Inc()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish %s: %w", localPath, err)
	}

	m.metrics.Downloads.WithLabelValues("fetched").Inc()
	m.metrics.DownloadDuration.Observe(time.Since(start).Seconds())
	return nil
}

// Download fetches the given drifters (all known drifters when ids is empty)
// across a bounded worker pool and returns the successfully fetched
// identifiers reordered via the directory index.
//
// A positive sampleSize below the candidate count draws a fixed-seed,
// without-replacement uniform sample sorted ascending by identifier; a
// sampleSize at or above the candidate count logs a warning and fetches the
// whole set.
//
// Failures are isolated per identifier: the batch always runs to completion
// and a non-nil *BatchError reports every failed identifier and its cause.
func (m *Manager) Download(ctx context.Context, ids []int64, sampleSize int) ([]int64, error) {
	if len(ids) == 0 {
		ids = m.catalog.IDs()
	}
	if sampleSize > 0 {
		ids = m.sample(ids, sampleSize)
	}

	m.logger.Info("downloading drifter files", "count", len(ids), "workers", m.workers)

	var (
		mu      sync.Mutex
		fetched = make([]int64, 0, len(ids))
		failed  = make(map[int64]error)
	)

	var g errgroup.Group
	g.SetLimit(m.workers)
	for _, id := range ids {
		g.Go(func() error {
			if err := m.fetchByID(ctx, id); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
				return nil
			}
			mu.Lock()
			fetched = append(fetched, id)
			mu.Unlock()
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers report through the failed map

	if len(failed) > 0 {
		for id, err := range failed {
			m.logger.Warn("drifter fetch failed", "id", id, "error", err)
		}
		return m.index.OrderByEndDate(fetched), &BatchError{Failed: failed}
	}
	return m.index.OrderByEndDate(fetched), nil
}

// fetchByID resolves one drifter's URL and cache path and fetches it.
func (m *Manager) fetchByID(ctx context.Context, id int64) error {
	subdir, err := m.catalog.Resolve(id)
	if err != nil {
		return err
	}

	url := m.client.DataFileURL(subdir, id)
	if err := m.FetchOne(ctx, url, m.LocalPath(subdir, id)); err != nil {
		return &domain.TransportError{ID: id, URL: url, Err: err}
	}
	return nil
}

// sample draws n identifiers without replacement using the fixed seed and
// returns them sorted ascending. When n covers the whole candidate set the
// set is returned as-is with a warning, never an error.
func (m *Manager) sample(ids []int64, n int) []int64 {
	if n >= len(ids) {
		m.logger.Warn("sample size covers all listed trajectories, fetching everything",
			"sample_size", n, "listed", len(ids))
		return ids
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	picked := make([]int64, 0, n)
	for _, i := range rng.Perm(len(ids))[:n] {
		picked = append(picked, ids[i])
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i] < picked[j] })
	return picked
}
