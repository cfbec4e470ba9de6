package directory

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlab/gdp-ingest/internal/aoml"
)

const sampleDirfl = `
  7702986   1300510     1171  SVP      2005/09/15 12:00   -8.97    67.57   2007/02/25 18:00  -27.18    38.94   2006/03/06 06:00    3
  7702992   1300511     1171  SVP      2005/09/16 06:00   -9.11    66.41   2006/10/16 00:00  -25.80    43.32   0000/00/00 00:00    1
 34208     2100533      777  SVPB     2003/04/02 18:00   35.24  -121.91   2004/01/12 12:00   30.06  -139.55   2003/08/21 00:00    3
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleDirfl))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, int64(7702986), first.ID)
	assert.Equal(t, int32(1300510), first.WMO)
	assert.Equal(t, int32(1171), first.Program)
	assert.Equal(t, "SVP", first.BuoyType)
	assert.Equal(t, time.Date(2005, 9, 15, 12, 0, 0, 0, time.UTC), first.Deploy.Time)
	assert.Equal(t, -8.97, first.Deploy.Lat)
	assert.Equal(t, 67.57, first.Deploy.Lon)
	assert.Equal(t, time.Date(2007, 2, 25, 18, 0, 0, 0, time.UTC), first.End.Time)
	assert.Equal(t, time.Date(2006, 3, 6, 6, 0, 0, 0, time.UTC), first.DrogueOff)
	assert.Equal(t, int8(3), first.DeathCode)
}

func TestParse_MalformedDateBecomesUnknown(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleDirfl))
	require.NoError(t, err)

	// The second row carries the 0000/00/00 placeholder for drogue loss.
	assert.True(t, records[1].DrogueOff.IsZero())
	assert.False(t, records[1].Deploy.Time.IsZero())
}

func TestParse_DateRoundTrip(t *testing.T) {
	// A structurally valid date+time pair must parse back to the same
	// calendar instant it encodes.
	records, err := Parse(strings.NewReader(sampleDirfl))
	require.NoError(t, err)

	got := records[2].Deploy.Time
	assert.Equal(t, "2003/04/02 18:00", got.Format("2006/01/02 15:04"))
}

func TestParse_SkipsUnusableRows(t *testing.T) {
	input := `
7702986 1300510 1171 SVP 2005/09/15 12:00 -8.97 67.57 2007/02/25 18:00 -27.18 38.94 2006/03/06 06:00 3
too short row
notanid 1300511 1171 SVP 2005/09/16 06:00 -9.11 66.41 2006/10/16 00:00 -25.80 43.32 0000/00/00 00:00 1
`
	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7702986), records[0].ID)
}

func TestParse_MalformedNumericsDefault(t *testing.T) {
	input := `7702986 xxx yyy SVP 2005/09/15 12:00 bad 67.57 2007/02/25 18:00 -27.18 38.94 2006/03/06 06:00 zz`
	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, int32(-1), records[0].WMO)
	assert.Equal(t, int32(-1), records[0].Program)
	assert.True(t, math.IsNaN(records[0].Deploy.Lat))
	assert.Equal(t, int8(-1), records[0].DeathCode)
}

func TestNew_SortsByDeploymentTime(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleDirfl))
	require.NoError(t, err)

	ix := New(records)
	got := ix.Records()
	require.Len(t, got, 3)

	// 34208 deployed in 2003, before both 2005 deployments.
	assert.Equal(t, int64(34208), got[0].ID)
	assert.Equal(t, int64(7702986), got[1].ID)
	assert.Equal(t, int64(7702992), got[2].ID)
}

func TestOrderByEndDate(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleDirfl))
	require.NoError(t, err)
	ix := New(records)

	t.Run("full set returns canonical order", func(t *testing.T) {
		got := ix.OrderByEndDate([]int64{7702992, 7702986, 34208})
		assert.Equal(t, []int64{34208, 7702986, 7702992}, got)
	})

	t.Run("subset keeps relative order", func(t *testing.T) {
		got := ix.OrderByEndDate([]int64{7702992, 34208})
		assert.Equal(t, []int64{34208, 7702992}, got)
	})

	t.Run("unknown identifiers are dropped", func(t *testing.T) {
		got := ix.OrderByEndDate([]int64{7702986, 99999999})
		assert.Equal(t, []int64{7702986}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ix.OrderByEndDate(nil))
	})
}

func TestBuild_FetchesAndConcatenates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dirfl_1_5000.dat":
			io.WriteString(w, "34208 2100533 777 SVPB 2003/04/02 18:00 35.24 -121.91 2004/01/12 12:00 30.06 -139.55 2003/08/21 00:00 3\n")
		case "/dirfl_5001_10000.dat":
			io.WriteString(w, "7702986 1300510 1171 SVP 2005/09/15 12:00 -8.97 67.57 2007/02/25 18:00 -27.18 38.94 2006/03/06 06:00 3\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := aoml.NewClient(srv.URL, srv.URL, 5*time.Second, testLogger())
	ix, err := Build(context.Background(), client, []string{"dirfl_1_5000.dat", "dirfl_5001_10000.dat"}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []int64{34208, 7702986}, ix.OrderByEndDate([]int64{7702986, 34208}))
}

func TestBuild_PropagatesFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := aoml.NewClient(srv.URL, srv.URL, 5*time.Second, testLogger())
	_, err := Build(context.Background(), client, []string{"dirfl_missing.dat"}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dirfl_missing.dat")
}
