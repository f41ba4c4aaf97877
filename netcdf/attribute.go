package netcdf

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
	"github.com/robert-malhotra/segy2netcdf/internal/dtype"
	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// Attribute is a named value attached to a variable or to the file.
//
// Values read back from a file are int32, float32, float64 or string for
// scalar attributes and []int32, []int16, []int8, []byte, []float32,
// []float64 or []string for array attributes.
type Attribute struct {
	Name  string
	Value any
}

// Attributes used by the netCDF-4 data model; they are managed by this
// package and hidden from Attributes().
const (
	attrClass       = "CLASS"
	attrName        = "NAME"
	attrDimID       = "_Netcdf4Dimid"
	attrCoordinates = "_Netcdf4Coordinates"
	attrRefList     = "REFERENCE_LIST"
	attrDimList     = "DIMENSION_LIST"

	// AttrProperties records the library that produced the file.
	AttrProperties = "_NCProperties"

	dimensionScale = "DIMENSION_SCALE"
	dimOnlyPrefix  = "This is a netCDF dimension but not a netCDF variable."
)

func reservedAttribute(name string) bool {
	switch name {
	case attrClass, attrName, attrDimID, attrCoordinates, attrRefList, attrDimList:
		return true
	}
	return false
}

func isScalar(v any) bool {
	switch v.(type) {
	case int, int32, float32, float64, string:
		return true
	}
	return false
}

// encodeAttribute builds the attribute message for value.
func encodeAttribute(cfg binary.Config, name string, value any) (*message.Attribute, error) {
	if name == "" {
		return nil, fmt.Errorf("attribute: %w", ErrInvalidName)
	}
	data, dt, n, err := dtype.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	ds := message.NewScalarDataspace()
	if !isScalar(value) {
		ds = message.NewDataspace(n)
	}
	m := message.NewAttribute(name, dt, ds, data)
	if size := m.EncodedSize(cfg); size > math.MaxUint16 {
		return nil, fmt.Errorf("attribute %q is %d bytes: %w", name, size, ErrAttributeTooLarge)
	}
	return m, nil
}

// decodeAttribute converts an attribute message back to a Go value.
func decodeAttribute(m *message.Attribute) (Attribute, error) {
	dt, ds := m.Datatype, m.Dataspace
	n := ds.NumElements()
	scalar := ds.Space == message.SpaceScalar

	var (
		v   any
		err error
	)
	switch {
	case dt.Class == message.ClassString:
		var ss []string
		if ss, err = dtype.Strings(dt, m.Data, n); err == nil {
			v = ss
			if scalar {
				v = ss[0]
			}
		}
	case dt.Class == message.ClassFloatPoint && dt.Size == 4:
		var fs []float32
		if fs, err = dtype.Float32s(dt, m.Data, n); err == nil {
			v = fs
			if scalar {
				v = fs[0]
			}
		}
	case dt.Class == message.ClassFloatPoint:
		var fs []float64
		if fs, err = dtype.Float64s(dt, m.Data, n); err == nil {
			v = fs
			if scalar {
				v = fs[0]
			}
		}
	case dt.Class == message.ClassFixedPoint && dt.Size == 4:
		var is []int32
		if is, err = dtype.Int32s(dt, m.Data, n); err == nil {
			v = is
			if scalar {
				v = is[0]
			}
		}
	case dt.Class == message.ClassFixedPoint && dt.Size == 2:
		var is []int32
		if is, err = dtype.Int32s(dt, m.Data, n); err == nil {
			out := make([]int16, len(is))
			for i, x := range is {
				out[i] = int16(x)
			}
			v = out
		}
	case dt.Class == message.ClassFixedPoint && dt.Size == 1:
		if dt.Signed {
			out := make([]int8, n)
			for i := range out {
				out[i] = int8(m.Data[i])
			}
			v = out
		} else {
			v = append([]byte(nil), m.Data[:n]...)
		}
	default:
		err = fmt.Errorf("attribute type %s: %w", dt, message.ErrUnsupported)
	}
	if err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", m.Name, err)
	}
	return Attribute{Name: m.Name, Value: v}, nil
}

// attrSet keeps attribute messages in insertion order with unique names.
type attrSet struct {
	msgs []*message.Attribute
}

func (s *attrSet) set(m *message.Attribute) {
	for i, old := range s.msgs {
		if old.Name == m.Name {
			s.msgs[i] = m
			return
		}
	}
	s.msgs = append(s.msgs, m)
}

func (s *attrSet) get(name string) *message.Attribute {
	for _, m := range s.msgs {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// public decodes every attribute the caller may see.
func (s *attrSet) public() ([]Attribute, error) {
	var out []Attribute
	for _, m := range s.msgs {
		if reservedAttribute(m.Name) {
			continue
		}
		a, err := decodeAttribute(m)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *attrSet) lookup(name string) (Attribute, error) {
	m := s.get(name)
	if m == nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", name, ErrNotFound)
	}
	return decodeAttribute(m)
}
