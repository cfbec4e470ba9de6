// Package directory parses the AOML dirfl metadata files into the canonical
// deployment-ordered table of drifters.
package directory

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/driftlab/gdp-ingest/internal/aoml"
	"github.com/driftlab/gdp-ingest/internal/domain"
)

// dateLayout is the dirfl date+time format after the split columns are rejoined.
const dateLayout = "2006/01/02 15:04"

// rawTokens is the fixed dirfl row width: 12 logical fields, three of them
// split into date+time column pairs.
const rawTokens = 15

// Parse reads one dirfl file. Malformed dates become the zero time and
// malformed numerics take their fill value; only rows without a usable
// identifier are dropped. The returned error covers read failures only.
func Parse(r io.Reader) ([]domain.DirectoryRecord, error) {
	var records []domain.DirectoryRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) < rawTokens {
			continue
		}

		id, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			continue
		}

		records = append(records, domain.DirectoryRecord{
			ID:       id,
			WMO:      int32(intOr(tokens[1], -1)),
			Program:  int32(intOr(tokens[2], -1)),
			BuoyType: tokens[3],
			Deploy: domain.Position{
				Time: dateOr(tokens[4], tokens[5]),
				Lat:  floatOr(tokens[6]),
				Lon:  floatOr(tokens[7]),
			},
			End: domain.Position{
				Time: dateOr(tokens[8], tokens[9]),
				Lat:  floatOr(tokens[10]),
				Lon:  floatOr(tokens[11]),
			},
			DrogueOff: dateOr(tokens[12], tokens[13]),
			DeathCode: int8(intOr(tokens[14], -1)),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}
	return records, nil
}

// dateOr rejoins a split date+time column pair and parses it, mapping
// anything unparsable to the zero time rather than an error.
func dateOr(date, clock string) time.Time {
	t, err := time.Parse(dateLayout, date+" "+clock)
	if err != nil {
		return time.Time{}
	}
	return t
}

func floatOr(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func intOr(s string, def int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}

// Index is the canonical drifter table: every dirfl file concatenated and
// stable-sorted ascending by deployment time. Immutable once built.
type Index struct {
	records []domain.DirectoryRecord
	known   map[int64]struct{}
}

// New builds an Index from already-parsed records.
func New(records []domain.DirectoryRecord) *Index {
	sorted := make([]domain.DirectoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Deploy.Time.Before(sorted[j].Deploy.Time)
	})

	known := make(map[int64]struct{}, len(sorted))
	for _, rec := range sorted {
		known[rec.ID] = struct{}{}
	}
	return &Index{records: sorted, known: known}
}

// Build fetches and parses each named dirfl file from the archive and
// returns the concatenated, deployment-sorted index.
func Build(ctx context.Context, client *aoml.Client, filenames []string, logger *slog.Logger) (*Index, error) {
	var all []domain.DirectoryRecord
	for _, name := range filenames {
		body, err := client.FetchMetadata(ctx, name)
		if err != nil {
			return nil, err
		}
		records, err := Parse(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		logger.Debug("parsed directory file", "file", name, "rows", len(records))
		all = append(all, records...)
	}

	ix := New(all)
	logger.Info("directory index built", "files", len(filenames), "drifters", ix.Len())
	return ix, nil
}

// Len returns the number of drifters in the index.
func (ix *Index) Len() int { return len(ix.records) }

// Records returns the canonical deployment-ordered table.
func (ix *Index) Records() []domain.DirectoryRecord { return ix.records }

// OrderByEndDate filters the canonical table down to ids and returns the
// surviving identifiers in canonical (deployment-sorted) relative order.
// Identifiers not present in the index are silently dropped.
//
// The name follows the upstream convention; despite it, the result is NOT
// independently sorted by end date. Downstream consumers depend on the
// deployment ordering, so do not change the behavior without confirming
// with them.
func (ix *Index) OrderByEndDate(ids []int64) []int64 {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	ordered := make([]int64, 0, len(want))
	for _, rec := range ix.records {
		if _, ok := want[rec.ID]; ok {
			ordered = append(ordered, rec.ID)
			delete(want, rec.ID)
		}
	}
	return ordered
}
