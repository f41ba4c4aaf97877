package netcdf

import (
	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// Type is the element type of a variable.
type Type int

const (
	TypeUnknown Type = iota
	Int32
	Float32
	Float64
)

func (t Type) String() string {
	switch t {
	case Int32:
		return "int"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		return "unknown"
	}
}

// Size returns the element size in bytes.
func (t Type) Size() int {
	switch t {
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

func (t Type) datatype() *message.Datatype {
	switch t {
	case Int32:
		return message.Int32()
	case Float32:
		return message.Float32()
	case Float64:
		return message.Float64()
	default:
		return nil
	}
}

func typeOf(dt *message.Datatype) Type {
	switch {
	case dt.Class == message.ClassFixedPoint && dt.Size == 4 && dt.Signed:
		return Int32
	case dt.Class == message.ClassFloatPoint && dt.Size == 4:
		return Float32
	case dt.Class == message.ClassFloatPoint && dt.Size == 8:
		return Float64
	default:
		return TypeUnknown
	}
}

// Dimension is a named axis shared by variables.
type Dimension struct {
	Name string
	Len  int
	ID   int

	coord *Variable
}

// Coordinate returns the coordinate variable of the dimension, or nil.
func (d *Dimension) Coordinate() *Variable { return d.coord }
