// Command gdpsync populates the local drifter cache from the AOML archive
// and normalizes every fetched trajectory, reporting per-drifter failures
// instead of aborting the batch. The normalized records feed an external
// ragged-array aggregator.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	httpadapter "github.com/driftlab/gdp-ingest/internal/adapter/http"
	"github.com/driftlab/gdp-ingest/internal/aoml"
	"github.com/driftlab/gdp-ingest/internal/catalog"
	"github.com/driftlab/gdp-ingest/internal/config"
	"github.com/driftlab/gdp-ingest/internal/directory"
	"github.com/driftlab/gdp-ingest/internal/fetch"
	"github.com/driftlab/gdp-ingest/internal/normalize"
	"github.com/driftlab/gdp-ingest/internal/observability"
)

// syncProgress is the run's mutable progress, read by the status server.
type syncProgress struct {
	mu       sync.Mutex
	progress httpadapter.Progress
}

func newSyncProgress() *syncProgress {
	return &syncProgress{progress: httpadapter.Progress{Phase: httpadapter.PhaseStarting}}
}

func (p *syncProgress) Progress() httpadapter.Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

func (p *syncProgress) update(fn func(*httpadapter.Progress)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.progress)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	progress := newSyncProgress()
	if cfg.MetricsAddr != "" {
		srv := httpadapter.NewServer(cfg.MetricsAddr, progress, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background()) //nolint:errcheck // best-effort drain
	}

	client := aoml.NewClient(cfg.DataBaseURL, cfg.MetadataBaseURL, cfg.FetchTimeout, logger)

	index, err := directory.Build(ctx, client, cfg.DirectoryFiles, logger)
	if err != nil {
		logger.Error("failed to build directory index", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Build(ctx, client, cfg.Subdirs, logger)
	if err != nil {
		logger.Error("failed to build remote catalog", "error", err)
		os.Exit(1)
	}
	metrics.CatalogSize.Set(float64(cat.Len()))
	progress.update(func(p *httpadapter.Progress) {
		p.Phase = httpadapter.PhaseFetching
		p.CatalogSize = cat.Len()
	})

	manager := fetch.NewManager(client, cat, index, cfg.CacheDir, cfg.FetchWorkers, logger, metrics)
	ids, err := manager.Download(ctx, nil, cfg.SampleSize)
	var batchErr *fetch.BatchError
	if err != nil && !errors.As(err, &batchErr) {
		logger.Error("download failed", "error", err)
		os.Exit(1)
	}
	fetchFailures := 0
	if batchErr != nil {
		fetchFailures = len(batchErr.Failed)
	}
	progress.update(func(p *httpadapter.Progress) {
		p.Phase = httpadapter.PhaseNormalizing
		p.Fetched = len(ids)
		p.FetchFailures = fetchFailures
	})

	normalizer := normalize.New(cat, cfg.CacheDir, cfg.DatasetVersion, logger, metrics)

	normalized, failed := 0, 0
	for _, id := range ids {
		if ctx.Err() != nil {
			logger.Info("stopping", "reason", ctx.Err())
			break
		}
		rec, err := normalizer.Normalize(id)
		if err != nil {
			logger.Warn("normalization failed", "id", id, "error", err)
			failed++
		} else {
			normalized++
			_ = rec // handed to the external aggregator
		}
		progress.update(func(p *httpadapter.Progress) {
			p.Normalized = normalized
			p.NormalizeFailures = failed
		})
	}
	progress.update(func(p *httpadapter.Progress) { p.Phase = httpadapter.PhaseDone })

	logger.Info("sync complete",
		"fetched", len(ids),
		"fetch_failures", fetchFailures,
		"normalized", normalized,
		"normalize_failures", failed,
	)
	if fetchFailures > 0 || failed > 0 {
		os.Exit(1)
	}
}
