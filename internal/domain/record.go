package domain

import "time"

// Position is a deployment or end fix from the directory metadata.
type Position struct {
	Time time.Time // zero when the DAC could not determine it
	Lat  float64   // NaN when missing
	Lon  float64   // NaN when missing
}

// DirectoryRecord is one row of the AOML dirfl directory metadata: a single
// drifter deployment with its end-of-life and drogue-loss bookkeeping.
type DirectoryRecord struct {
	ID        int64 // unique across all concatenated directory files
	WMO       int32
	Program   int32
	BuoyType  string
	Deploy    Position
	End       Position
	DrogueOff time.Time // zero when the drogue was never lost or the date is unknown
	DeathCode int8
}

// VarAttrs is the descriptive metadata attached to one record variable.
// Units live here, never embedded in the value itself.
type VarAttrs struct {
	LongName        string
	Units           string
	FillValue       string
	Comments        string
	FlagValues      string
	FlagMeanings    string
	SampleDimension string
}

// TrajectoryRecord is one drifter's normalized trajectory: typed
// collection-level scalars, sentinel-decoded observation arrays, the two
// derived arrays that make ragged concatenation possible, and the variable
// and global metadata tables. Records are self-contained; the external
// aggregator owns concatenation and serialization.
type TrajectoryRecord struct {
	// Collection-level identifiers.
	ID             int64
	WMO            int32
	ExpNo          int32
	CurrentProgram int32 // -1 when absent or unparsable
	TypeDeath      int8
	BuoyType       string

	// Deployment metadata, epoch seconds with NaN for missing dates.
	DeployDate, DeployLat, DeployLon float64
	EndDate, EndLat, EndLon          float64
	DrogueLostDate                   float64

	// Collection-level attributes coerced from the raw string encoding.
	DeployingShip         string
	DeploymentStatus      string
	BuoyTypeManufacturer  string
	BuoyTypeSensorArray   string
	PurchaserFunding      string
	SensorUpgrade         string
	Transmissions         string
	DeployingCountry      string
	DeploymentComments    string // ASCII only, cut to 20 chars
	ManufactureYear       int16
	ManufactureMonth      int16
	ManufactureSensorType string
	ManufactureVoltage    int16   // volts
	FloatDiameter         float64 // cm
	SubsfcFloatPresence   bool
	DrogueType            string // cut to 7 chars
	DrogueLength          float64 // m
	DrogueBallast         float64 // kg
	DragAreaAboveDrogue   float64 // m^2
	DragAreaOfDrogue      float64 // m^2
	DragAreaRatio         float64
	DrogueCenterDepth     float64 // m
	DrogueDetectSensor    string

	// Per-observation arrays, all of length Obs, sentinel-decoded to NaN.
	Obs       int
	Time      []float64 // seconds since 1970-01-01
	Latitude  []float64
	Longitude []float64
	Lon360    []float64
	Ve        []float64
	Vn        []float64
	Temp      []float64
	ErrLat    []float64
	ErrLon    []float64
	ErrTemp   []float64

	// Derived arrays.
	IDs          []int64 // ID broadcast across observations
	DrogueStatus []bool  // true while the drogue is attached

	VarAttrs    map[string]VarAttrs
	GlobalAttrs map[string]string
	Coords      []string // indexing variables, e.g. ids/longitude/latitude/time
}
