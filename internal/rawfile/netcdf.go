package rawfile

import (
	"fmt"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// obsVar is the variable whose length defines the obs dimension.
const obsVar = "time"

// Open opens a netCDF trajectory file from the local cache.
func Open(path string) (Dataset, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &ncDataset{group: group}, nil
}

type ncDataset struct {
	group api.Group
}

func (d *ncDataset) Attr(name string) (string, bool) {
	val, has := d.group.Attributes().Get(name)
	if !has {
		return "", false
	}
	switch v := val.(type) {
	case string:
		return v, true
	case []string:
		return strings.Join(v, " "), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func (d *ncDataset) Float(name string) (float64, error) {
	vs, err := d.Floats(name)
	if err != nil {
		return 0, err
	}
	if len(vs) == 0 {
		return 0, fmt.Errorf("variable %q is empty", name)
	}
	return vs[0], nil
}

func (d *ncDataset) Floats(name string) ([]float64, error) {
	v, err := d.group.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	vs, err := toFloat64s(v.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	return vs, nil
}

func (d *ncDataset) Text(name string) (string, error) {
	v, err := d.group.GetVariable(name)
	if err != nil {
		return "", fmt.Errorf("variable %q: %w", name, err)
	}
	switch s := v.Values.(type) {
	case string:
		return s, nil
	case []string:
		return strings.Join(s, ""), nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("variable %q: not text (%T)", name, v.Values)
	}
}

func (d *ncDataset) ObsCount() (int, error) {
	getter, err := d.group.GetVarGetter(obsVar)
	if err != nil {
		return 0, fmt.Errorf("variable %q: %w", obsVar, err)
	}
	return int(getter.Len()), nil
}

func (d *ncDataset) Close() error {
	d.group.Close()
	return nil
}

// toFloat64s widens any netCDF numeric payload to float64. Scalars come back
// as a one-element slice, matching the single-trajectory file layout where
// collection-level variables carry one value.
func toFloat64s(values any) ([]float64, error) {
	switch vs := values.(type) {
	case []float64:
		return vs, nil
	case []float32:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []int8:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []uint8:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case float64:
		return []float64{vs}, nil
	case float32:
		return []float64{float64(vs)}, nil
	case int64:
		return []float64{float64(vs)}, nil
	case int32:
		return []float64{float64(vs)}, nil
	case int16:
		return []float64{float64(vs)}, nil
	case int8:
		return []float64{float64(vs)}, nil
	default:
		return nil, fmt.Errorf("not numeric (%T)", values)
	}
}
