// Package catalog maps drifter identifiers to the archive subdirectory
// holding their netCDF file, built from one listing request per subdirectory.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"

	"github.com/driftlab/gdp-ingest/internal/aoml"
	"github.com/driftlab/gdp-ingest/internal/domain"
)

// fileRe matches the fixed archive naming pattern drifter_<id>.nc.
var fileRe = regexp.MustCompile(`drifter_([0-9]+)\.nc`)

// Catalog is the immutable identifier-to-subdirectory mapping. A well-formed
// archive lists each drifter exactly once; on collision the last-listed
// subdirectory wins.
type Catalog struct {
	subdirs map[int64]string
	ids     []int64
}

// Build lists each archive subdirectory and records every drifter found.
func Build(ctx context.Context, client *aoml.Client, subdirs []string, logger *slog.Logger) (*Catalog, error) {
	byID := make(map[int64]string)
	for _, subdir := range subdirs {
		listing, err := client.ListDirectory(ctx, subdir)
		if err != nil {
			return nil, err
		}

		found := 0
		for _, match := range fileRe.FindAllStringSubmatch(listing, -1) {
			id, err := strconv.ParseInt(match[1], 10, 64)
			if err != nil {
				continue
			}
			byID[id] = subdir
			found++
		}
		logger.Debug("listed archive subdirectory", "subdir", subdir, "files", found)
	}

	cat := New(byID)
	logger.Info("remote catalog built", "subdirs", len(subdirs), "drifters", cat.Len())
	return cat, nil
}

// New builds a Catalog from an already-known identifier-to-subdirectory
// mapping, e.g. when the archive layout has been listed out of band.
func New(byID map[int64]string) *Catalog {
	subdirs := make(map[int64]string, len(byID))
	ids := make([]int64, 0, len(byID))
	for id, subdir := range byID {
		subdirs[id] = subdir
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &Catalog{subdirs: subdirs, ids: ids}
}

// Resolve returns the subdirectory holding the drifter's file.
func (c *Catalog) Resolve(id int64) (string, error) {
	subdir, ok := c.subdirs[id]
	if !ok {
		return "", fmt.Errorf("resolve drifter %d: %w", id, domain.ErrUnknownID)
	}
	return subdir, nil
}

// IDs returns every known identifier in ascending order.
func (c *Catalog) IDs() []int64 {
	ids := make([]int64, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Len returns the number of known drifters.
func (c *Catalog) Len() int { return len(c.ids) }
