package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults track the July 2022 dataset release. The last subdirectory and
// directory-file names change with every release, so operators override
// AOML_SUBDIRS and DIRECTORY_FILES after an archive update.
const (
	defaultDataURL  = "https://www.aoml.noaa.gov/ftp/pub/phod/lumpkin/netcdf/"
	defaultMetaURL  = "https://www.aoml.noaa.gov/ftp/pub/phod/buoydata/"
	defaultCacheDir = "data/raw/gdp-6hourly"
	defaultVersion  = "July 2022"

	defaultSubdirs        = "buoydata_1_5000,buoydata_5001_10000,buoydata_10001_15000,buoydata_15001_jul22"
	defaultDirectoryFiles = "dirfl_1_5000.dat,dirfl_5001_10000.dat,dirfl_10001_15000.dat,dirfl_15001_jul22.dat"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataBaseURL     string
	MetadataBaseURL string
	CacheDir        string
	DatasetVersion  string

	Subdirs        []string
	DirectoryFiles []string

	FetchWorkers int // 0 selects the runtime's available parallelism
	FetchTimeout time.Duration
	SampleSize   int // 0 fetches every listed drifter

	LogLevel    string
	LogFormat   string
	MetricsAddr string // empty disables the metrics/health server
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	fetchWorkers, err := parseNonNegativeInt("FETCH_WORKERS", 0)
	if err != nil {
		return nil, err
	}

	sampleSize, err := parseNonNegativeInt("SAMPLE_SIZE", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataBaseURL:     envOrDefault("AOML_DATA_URL", defaultDataURL),
		MetadataBaseURL: envOrDefault("AOML_METADATA_URL", defaultMetaURL),
		CacheDir:        envOrDefault("CACHE_DIR", defaultCacheDir),
		DatasetVersion:  envOrDefault("DATASET_VERSION", defaultVersion),
		Subdirs:         parseList(envOrDefault("AOML_SUBDIRS", defaultSubdirs)),
		DirectoryFiles:  parseList(envOrDefault("DIRECTORY_FILES", defaultDirectoryFiles)),
		FetchWorkers:    fetchWorkers,
		FetchTimeout:    fetchTimeout,
		SampleSize:      sampleSize,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
	}

	if cfg.DataBaseURL == "" {
		return nil, errors.New("AOML_DATA_URL is required")
	}
	if cfg.MetadataBaseURL == "" {
		return nil, errors.New("AOML_METADATA_URL is required")
	}
	if cfg.CacheDir == "" {
		return nil, errors.New("CACHE_DIR is required")
	}
	if len(cfg.Subdirs) == 0 {
		return nil, errors.New("AOML_SUBDIRS is required")
	}
	if len(cfg.DirectoryFiles) == 0 {
		return nil, errors.New("DIRECTORY_FILES is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseList splits a comma-separated value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
