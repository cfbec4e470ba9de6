// Package rawfile reads the per-drifter netCDF files as fetched from the
// archive. It exposes only what normalization needs: global string
// attributes, scalar and per-observation numeric variables, and the
// observation count. It is not a general netCDF layer.
package rawfile

// Dataset is one opened raw trajectory file. Implementations are not safe
// for concurrent use; normalization opens one dataset per call.
type Dataset interface {
	// Attr returns a global attribute as its string encoding.
	Attr(name string) (string, bool)

	// Float returns a collection-level scalar variable. Sentinel values are
	// returned raw; decoding is the caller's concern.
	Float(name string) (float64, error)

	// Floats returns a per-observation numeric variable as float64s,
	// whatever its on-disk width.
	Floats(name string) ([]float64, error)

	// Text returns a character variable as a string.
	Text(name string) (string, error)

	// ObsCount returns the observation count from the file header without
	// materializing any observation array.
	ObsCount() (int, error)

	Close() error
}

// OpenFunc opens one raw file; swapped for an in-memory double in tests.
type OpenFunc func(path string) (Dataset, error)
