package convert

import (
	"github.com/robert-malhotra/segy2netcdf/internal/fields"
	"github.com/robert-malhotra/segy2netcdf/netcdf"
)

// Source is the trace store being converted. *segy.File implements it.
type Source interface {
	SampleCount() int
	TraceCount() int
	// Traces returns every sample, trace by trace.
	Traces() ([]float32, error)
	SampleCoordinates() []float64
	TextHeader() []byte
	BinaryHeader() []byte
	ExtendedTextHeaders() [][]byte
	// HeaderValues reads field from the given traces in order; nil means
	// every trace.
	HeaderValues(field fields.Field, ordinals []int) ([]int32, error)
}

// Target is the grid store receiving the converted data.
type Target interface {
	CreateDimension(name string, length int) error
	CreateVariable(name string, t netcdf.Type, dims []string, compress bool) error
	// WriteVariable stores the whole variable: []float32, []float64 or
	// []int32 in row-major order.
	WriteVariable(name string, data any) error
	SetAttribute(name string, value any) error
}

// NetCDFTarget adapts a NetCDF-4 file being written to Target. Compressed
// variables use the given deflate level, shuffled first when Shuffle is set.
type NetCDFTarget struct {
	File    *netcdf.File
	Level   int
	Shuffle bool
}

// CreateDimension implements Target.
func (t *NetCDFTarget) CreateDimension(name string, length int) error {
	_, err := t.File.AddDimension(name, length)
	return err
}

// CreateVariable implements Target.
func (t *NetCDFTarget) CreateVariable(name string, typ netcdf.Type, dims []string, compress bool) error {
	var opts []netcdf.VariableOption
	if compress {
		opts = append(opts, netcdf.WithCompression(t.Level))
		if t.Shuffle {
			opts = append(opts, netcdf.WithShuffle())
		}
	}
	_, err := t.File.AddVariable(name, typ, dims, opts...)
	return err
}

// WriteVariable implements Target.
func (t *NetCDFTarget) WriteVariable(name string, data any) error {
	v, err := t.File.Variable(name)
	if err != nil {
		return err
	}
	return v.Write(data)
}

// SetAttribute implements Target.
func (t *NetCDFTarget) SetAttribute(name string, value any) error {
	return t.File.SetAttribute(name, value)
}
