package netcdf

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/robert-malhotra/segy2netcdf/internal/dtype"
	"github.com/robert-malhotra/segy2netcdf/internal/filter"
	"github.com/robert-malhotra/segy2netcdf/internal/layout"
	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// Variable is an n-dimensional typed array stored in the file.
type Variable struct {
	file  *File
	name  string
	typ   Type
	dims  []*Dimension
	attrs attrSet

	pipeline *filter.Pipeline
	layout   *message.Layout
	written  bool

	// reading
	datatype *message.Datatype
}

// AddVariable declares a variable over the named dimensions, slowest
// varying first. A one-dimensional variable named after its own dimension is
// that dimension's coordinate variable.
func (f *File) AddVariable(name string, t Type, dims []string, opts ...VariableOption) (*Variable, error) {
	if err := f.checkWritable(); err != nil {
		return nil, err
	}
	if err := validName(name); err != nil {
		return nil, fmt.Errorf("variable %w", err)
	}
	if t.datatype() == nil {
		return nil, fmt.Errorf("variable %q: type %s: %w", name, t, ErrType)
	}
	for _, v := range f.vars {
		if v.name == name {
			return nil, fmt.Errorf("variable %q: %w", name, ErrExists)
		}
	}

	v := &Variable{file: f, name: name, typ: t}
	for _, dn := range dims {
		d, err := f.Dimension(dn)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		v.dims = append(v.dims, d)
	}

	if d, err := f.Dimension(name); err == nil {
		if len(v.dims) != 1 || v.dims[0] != d {
			return nil, fmt.Errorf("variable %q shares a dimension name but is not its coordinate: %w", name, ErrExists)
		}
		d.coord = v
	}

	options := &variableOptions{}
	for _, opt := range opts {
		opt(options)
	}
	var filters []filter.Filter
	if options.shuffle && options.deflate > 0 {
		filters = append(filters, filter.NewShuffle(t.Size()))
	}
	if options.deflate > 0 {
		d, err := filter.NewDeflate(options.deflate)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		filters = append(filters, d)
	}
	v.pipeline = filter.NewPipeline(filters...)

	for _, a := range options.attributes {
		if err := v.SetAttribute(a.name, a.value); err != nil {
			return nil, err
		}
	}

	f.vars = append(f.vars, v)
	return v, nil
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Type returns the element type.
func (v *Variable) Type() Type { return v.typ }

// Dimensions returns the dimension names, slowest varying first.
func (v *Variable) Dimensions() []string {
	names := make([]string, len(v.dims))
	for i, d := range v.dims {
		names[i] = d.Name
	}
	return names
}

// Shape returns the dimension lengths.
func (v *Variable) Shape() []int {
	shape := make([]int, len(v.dims))
	for i, d := range v.dims {
		shape[i] = d.Len
	}
	return shape
}

// Len returns the number of elements.
func (v *Variable) Len() int {
	n := 1
	for _, d := range v.dims {
		n *= d.Len
	}
	return n
}

// Compressed reports whether the variable is stored through a deflate filter.
func (v *Variable) Compressed() bool {
	return v.layout != nil && v.layout.Filtered
}

// Shuffled reports whether the variable's bytes are shuffled before
// compression.
func (v *Variable) Shuffled() bool {
	return v.Compressed() && v.pipeline.Has(message.FilterShuffle)
}

// IsCoordinate reports whether the variable is a dimension's coordinate.
func (v *Variable) IsCoordinate() bool {
	return len(v.dims) == 1 && v.dims[0].coord == v
}

// SetAttribute sets an attribute on the variable.
func (v *Variable) SetAttribute(name string, value any) error {
	if err := v.file.checkWritable(); err != nil {
		return err
	}
	if reservedAttribute(name) {
		return fmt.Errorf("attribute %q is reserved: %w", name, ErrInvalidName)
	}
	m, err := encodeAttribute(v.file.cfg, name, value)
	if err != nil {
		return err
	}
	v.attrs.set(m)
	return nil
}

// Attribute returns the named attribute.
func (v *Variable) Attribute(name string) (Attribute, error) {
	return v.attrs.lookup(name)
}

// Attributes returns the variable's attributes.
func (v *Variable) Attributes() ([]Attribute, error) {
	return v.attrs.public()
}

func (v *Variable) checkData(data any) error {
	var n int
	switch x := data.(type) {
	case []int32:
		if v.typ != Int32 {
			return fmt.Errorf("variable %q: []int32 for %s: %w", v.name, v.typ, ErrType)
		}
		n = len(x)
	case []float32:
		if v.typ != Float32 {
			return fmt.Errorf("variable %q: []float32 for %s: %w", v.name, v.typ, ErrType)
		}
		n = len(x)
	case []float64:
		if v.typ != Float64 {
			return fmt.Errorf("variable %q: []float64 for %s: %w", v.name, v.typ, ErrType)
		}
		n = len(x)
	default:
		return fmt.Errorf("variable %q: %T: %w", v.name, data, ErrType)
	}
	if n != v.Len() {
		return fmt.Errorf("variable %q: %d elements for shape %v: %w", v.name, n, v.Shape(), ErrShape)
	}
	return nil
}

// Write stores the whole variable in row-major order. data must be a
// []int32, []float32 or []float64 matching the variable type, and a variable
// can be written only once.
func (v *Variable) Write(data any) error {
	if err := v.file.checkWritable(); err != nil {
		return err
	}
	if v.written {
		return fmt.Errorf("variable %q: %w", v.name, ErrAlreadyWritten)
	}
	if err := v.checkData(data); err != nil {
		return err
	}
	raw, dt, _, err := dtype.Encode(data)
	if err != nil {
		return fmt.Errorf("variable %q: %w", v.name, err)
	}

	dims := make([]uint64, len(v.dims))
	for i, d := range v.dims {
		dims[i] = uint64(d.Len)
	}
	f := v.file
	l, err := layout.Store(f.osFile, f.alloc, v.name, raw, dims, dt.Size, v.pipeline)
	if errors.Is(err, layout.ErrChunkTooLarge) {
		f.log.Warn("variable too large for one compressed chunk, storing uncompressed",
			zap.String("variable", v.name), zap.Int("bytes", len(raw)))
		v.pipeline = filter.NewPipeline()
		l, err = layout.Store(f.osFile, f.alloc, v.name, raw, dims, dt.Size, v.pipeline)
	}
	if err != nil {
		return fmt.Errorf("variable %q: %w", v.name, err)
	}
	if !l.Filtered {
		v.pipeline = filter.NewPipeline()
	}

	v.layout = l
	v.written = true
	f.log.Debug("variable written",
		zap.String("variable", v.name),
		zap.Int("elements", v.Len()),
		zap.Uint64("address", l.Address),
		zap.Bool("compressed", l.Filtered))
	return nil
}

func (v *Variable) raw() ([]byte, error) {
	f := v.file
	if f.closed {
		return nil, ErrClosed
	}
	if f.writable {
		return nil, ErrWriteOnly
	}
	size := uint64(v.Len()) * uint64(v.datatype.Size)
	data, err := layout.Load(f.reader, v.layout, v.pipeline, size)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", v.name, err)
	}
	return data, nil
}

// ReadFloat32 reads the whole variable converted to float32.
func (v *Variable) ReadFloat32() ([]float32, error) {
	data, err := v.raw()
	if err != nil {
		return nil, err
	}
	return dtype.Float32s(v.datatype, data, uint64(v.Len()))
}

// ReadFloat64 reads the whole variable converted to float64.
func (v *Variable) ReadFloat64() ([]float64, error) {
	data, err := v.raw()
	if err != nil {
		return nil, err
	}
	return dtype.Float64s(v.datatype, data, uint64(v.Len()))
}

// ReadInt32 reads an integer variable.
func (v *Variable) ReadInt32() ([]int32, error) {
	data, err := v.raw()
	if err != nil {
		return nil, err
	}
	return dtype.Int32s(v.datatype, data, uint64(v.Len()))
}

// StorageSize returns the number of bytes the variable occupies on disk.
func (v *Variable) StorageSize() uint64 {
	switch {
	case v.layout == nil || undefinedAddress(v.layout.Address):
		return 0
	case v.layout.Filtered:
		return v.layout.FilteredSize
	case v.layout.Class == message.LayoutContiguous:
		return v.layout.Size
	default:
		return uint64(v.Len()) * uint64(v.typ.Size())
	}
}

func undefinedAddress(addr uint64) bool {
	return addr == ^uint64(0)
}
