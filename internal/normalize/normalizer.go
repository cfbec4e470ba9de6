// Package normalize turns one cached raw drifter file into a standardized
// trajectory record: typed scalars, sentinel-decoded arrays, derived
// drogue-status and repeated-ID arrays, and the DAC metadata tables.
package normalize

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/driftlab/gdp-ingest/internal/catalog"
	"github.com/driftlab/gdp-ingest/internal/domain"
	"github.com/driftlab/gdp-ingest/internal/observability"
	"github.com/driftlab/gdp-ingest/internal/rawfile"
)

// Normalizer produces trajectory records from the local cache. Each call
// owns all of its state, so one Normalizer may be shared across goroutines
// as long as each call targets a distinct identifier.
type Normalizer struct {
	catalog  *catalog.Catalog
	cacheDir string
	version  string
	open     rawfile.OpenFunc
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Normalizer reading netCDF files from cacheDir. version names
// the dataset release recorded in the provenance metadata.
func New(cat *catalog.Catalog, cacheDir, version string, logger *slog.Logger, metrics *observability.Metrics) *Normalizer {
	return &Normalizer{
		catalog:  cat,
		cacheDir: cacheDir,
		version:  version,
		open:     rawfile.Open,
		logger:   logger,
		metrics:  metrics,
	}
}

// ObservationCount returns the drifter's observation count from the file
// header, for pre-sizing aggregate structures.
func (n *Normalizer) ObservationCount(id int64) (int, error) {
	path, err := n.path(id)
	if err != nil {
		return 0, err
	}
	ds, err := n.open(path)
	if err != nil {
		return 0, err
	}
	defer ds.Close()
	return ds.ObsCount()
}

// Normalize builds the standardized record for one drifter.
func (n *Normalizer) Normalize(id int64) (*domain.TrajectoryRecord, error) {
	start := time.Now()

	rec, err := n.normalize(id)
	if err != nil {
		n.metrics.NormalizeErrors.Inc()
		return nil, err
	}

	n.metrics.RecordsNormalized.Inc()
	n.metrics.NormalizeDuration.Observe(time.Since(start).Seconds())
	n.logger.Debug("normalized trajectory", "id", id, "obs", rec.Obs)
	return rec, nil
}

func (n *Normalizer) normalize(id int64) (*domain.TrajectoryRecord, error) {
	path, err := n.path(id)
	if err != nil {
		return nil, err
	}
	ds, err := n.open(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	rec := &domain.TrajectoryRecord{}
	if err := readObservations(ds, rec); err != nil {
		return nil, err
	}
	if err := readScalars(ds, rec); err != nil {
		return nil, err
	}
	if err := readAttributes(ds, rec); err != nil {
		return nil, err
	}

	// Derived arrays: the broadcast identifier enables ragged concatenation
	// keyed by ID, and the drogue flag follows the loss-time rule.
	rec.IDs = make([]int64, rec.Obs)
	for i := range rec.IDs {
		rec.IDs[i] = rec.ID
	}
	rec.DrogueStatus = domain.DrogueStatus(rec.DrogueLostDate, rec.Time)

	rec.VarAttrs = variableAttrs()
	rec.GlobalAttrs = globalAttrs(n.version, clock.Now())
	rec.Coords = []string{"ids", "longitude", "lon360", "latitude", "time"}
	return rec, nil
}

// path resolves the drifter's cache location, failing with ErrNotFound when
// the file has not been fetched.
func (n *Normalizer) path(id int64) (string, error) {
	subdir, err := n.catalog.Resolve(id)
	if err != nil {
		return "", err
	}
	p := filepath.Join(n.cacheDir, subdir, fmt.Sprintf("drifter_%d.nc", id))
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("drifter %d at %s: %w", id, p, domain.ErrNotFound)
	}
	return p, nil
}

// readObservations loads every per-observation array, decoding the -1e34
// sentinel and non-finite markers to NaN. Times are epoch seconds and get
// the same treatment so a sentinel never reads as a real 1970-relative date.
func readObservations(ds rawfile.Dataset, rec *domain.TrajectoryRecord) error {
	arrays := []struct {
		name string
		dst  *[]float64
	}{
		{"time", &rec.Time},
		{"latitude", &rec.Latitude},
		{"longitude", &rec.Longitude},
		{"lon360", &rec.Lon360},
		{"ve", &rec.Ve},
		{"vn", &rec.Vn},
		{"temp", &rec.Temp},
		{"err_lat", &rec.ErrLat},
		{"err_lon", &rec.ErrLon},
		{"err_temp", &rec.ErrTemp},
	}

	for _, a := range arrays {
		vs, err := ds.Floats(a.name)
		if err != nil {
			return &domain.FormatError{Name: a.name, Reason: err.Error()}
		}
		*a.dst = domain.DecodeValues(vs)
	}

	rec.Obs = len(rec.Time)
	for _, a := range arrays {
		if len(*a.dst) != rec.Obs {
			return &domain.FormatError{
				Name:   a.name,
				Reason: fmt.Sprintf("length %d, want %d observations", len(*a.dst), rec.Obs),
			}
		}
	}
	return nil
}

// readScalars loads the mandatory collection-level variables and coerces
// them to their fixed-width types.
func readScalars(ds rawfile.Dataset, rec *domain.TrajectoryRecord) error {
	idVal, err := mustFloat(ds, "ID")
	if err != nil {
		return err
	}
	rec.ID = int64(idVal)

	wmo, err := mustFloat(ds, "WMO")
	if err != nil {
		return err
	}
	rec.WMO = int32(wmo)

	expno, err := mustFloat(ds, "expno")
	if err != nil {
		return err
	}
	rec.ExpNo = int32(expno)

	death, err := mustFloat(ds, "typedeath")
	if err != nil {
		return err
	}
	rec.TypeDeath = int8(death)

	buoyType, err := ds.Text("typebuoy")
	if err != nil {
		return &domain.FormatError{Name: "typebuoy", Reason: err.Error()}
	}
	rec.BuoyType = buoyType

	dates := []struct {
		name string
		dst  *float64
	}{
		{"deploy_date", &rec.DeployDate},
		{"deploy_lat", &rec.DeployLat},
		{"deploy_lon", &rec.DeployLon},
		{"end_date", &rec.EndDate},
		{"end_lat", &rec.EndLat},
		{"end_lon", &rec.EndLon},
		{"drogue_lost_date", &rec.DrogueLostDate},
	}
	for _, d := range dates {
		v, err := mustFloat(ds, d.name)
		if err != nil {
			return err
		}
		*d.dst = domain.DecodeValue(v)
	}
	return nil
}

// readAttributes coerces the collection-level string attributes. Text
// attributes are structurally required; numeric ones default to their
// documented fill value (-1 for integers, NaN for floats) when absent or
// unparsable.
func readAttributes(ds rawfile.Dataset, rec *domain.TrajectoryRecord) error {
	texts := []struct {
		name string
		dst  *string
	}{
		{"DeployingShip", &rec.DeployingShip},
		{"DeploymentStatus", &rec.DeploymentStatus},
		{"BuoyTypeManufacturer", &rec.BuoyTypeManufacturer},
		{"BuoyTypeSensorArray", &rec.BuoyTypeSensorArray},
		{"PurchaserFunding", &rec.PurchaserFunding},
		{"SensorUpgrade", &rec.SensorUpgrade},
		{"Transmissions", &rec.Transmissions},
		{"DeployingCountry", &rec.DeployingCountry},
		{"ManufactureSensorType", &rec.ManufactureSensorType},
		{"DrogueDetectSensor", &rec.DrogueDetectSensor},
	}
	for _, t := range texts {
		s, ok := ds.Attr(t.name)
		if !ok {
			return &domain.FormatError{Name: t.name, Reason: "missing mandatory attribute"}
		}
		*t.dst = domain.CutStr(s, 20)
	}

	comments, ok := ds.Attr("DeploymentComments")
	if !ok {
		return &domain.FormatError{Name: "DeploymentComments", Reason: "missing mandatory attribute"}
	}
	rec.DeploymentComments = domain.CutStr(domain.ASCIIOnly(comments), 20)

	drogueType, ok := ds.Attr("DrogueType")
	if !ok {
		return &domain.FormatError{Name: "DrogueType", Reason: "missing mandatory attribute"}
	}
	rec.DrogueType = domain.CutStr(drogueType, 7)

	rec.CurrentProgram = int32(domain.QuantityOr(attrOr(ds, "CurrentProgram"), "", -1))
	rec.ManufactureYear = int16(domain.QuantityOr(attrOr(ds, "ManufactureYear"), "", -1))
	rec.ManufactureMonth = int16(domain.QuantityOr(attrOr(ds, "ManufactureMonth"), "", -1))
	rec.ManufactureVoltage = int16(domain.QuantityOr(attrOr(ds, "ManufactureVoltage"), domain.UnitVolts, -1))

	nan := math.NaN()
	rec.FloatDiameter = domain.QuantityOr(attrOr(ds, "FloatDiameter"), domain.UnitCentimeter, nan)
	rec.DrogueLength = domain.QuantityOr(attrOr(ds, "DrogueLength"), domain.UnitMeter, nan)
	rec.DrogueBallast = domain.QuantityOr(attrOr(ds, "DrogueBallast"), domain.UnitKilogram, nan)
	rec.DragAreaAboveDrogue = domain.QuantityOr(attrOr(ds, "DragAreaAboveDrogue"), domain.UnitSquareM, nan)
	rec.DragAreaOfDrogue = domain.QuantityOr(attrOr(ds, "DragAreaOfDrogue"), domain.UnitSquareM, nan)
	rec.DragAreaRatio = domain.QuantityOr(attrOr(ds, "DragAreaRatio"), "", nan)
	rec.DrogueCenterDepth = domain.QuantityOr(attrOr(ds, "DrogueCenterDepth"), domain.UnitMeter, nan)

	// Only an explicit zero reads as absent: an unparsable value becomes NaN,
	// and NaN != 0 coerces to true, matching the published convention.
	subsfc, _ := domain.ParseQuantity(attrOr(ds, "SubsfcFloatPresence"), "")
	rec.SubsfcFloatPresence = subsfc != 0
	return nil
}

func mustFloat(ds rawfile.Dataset, name string) (float64, error) {
	v, err := ds.Float(name)
	if err != nil {
		return 0, &domain.FormatError{Name: name, Reason: err.Error()}
	}
	return v, nil
}

func attrOr(ds rawfile.Dataset, name string) string {
	s, _ := ds.Attr(name)
	return s
}
