package segy

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Format is the data sample format code of the binary header.
type Format int

// Supported sample formats.
const (
	IBMFloat32  Format = 1
	Int32       Format = 2
	Int16       Format = 3
	IEEEFloat32 Format = 5
	Int8        Format = 8
)

// Size returns the number of bytes per sample, or 0 for unsupported codes.
func (f Format) Size() int {
	switch f {
	case IBMFloat32, Int32, IEEEFloat32:
		return 4
	case Int16:
		return 2
	case Int8:
		return 1
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case IBMFloat32:
		return "ibm-float32"
	case Int32:
		return "int32"
	case Int16:
		return "int16"
	case IEEEFloat32:
		return "ieee-float32"
	case Int8:
		return "int8"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// knownFormat reports whether code is any format of SEG-Y revision 2,
// supported or not. It is used to detect the byte order of a file.
func knownFormat(code int) bool {
	switch code {
	case 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 15, 16:
		return true
	}
	return false
}

// decode converts raw samples into dst.
func (f Format) decode(dst []float32, raw []byte, order binary.ByteOrder) {
	switch f {
	case IBMFloat32:
		for i := range dst {
			dst[i] = IBMToFloat32(order.Uint32(raw[4*i:]))
		}
	case IEEEFloat32:
		for i := range dst {
			dst[i] = math.Float32frombits(order.Uint32(raw[4*i:]))
		}
	case Int32:
		for i := range dst {
			dst[i] = float32(int32(order.Uint32(raw[4*i:])))
		}
	case Int16:
		for i := range dst {
			dst[i] = float32(int16(order.Uint16(raw[2*i:])))
		}
	case Int8:
		for i := range dst {
			dst[i] = float32(int8(raw[i]))
		}
	}
}

// Encode converts samples to their on-disk form.
func (f Format) Encode(dst []byte, src []float32, order binary.ByteOrder) {
	switch f {
	case IBMFloat32:
		for i, v := range src {
			order.PutUint32(dst[4*i:], Float32ToIBM(v))
		}
	case IEEEFloat32:
		for i, v := range src {
			order.PutUint32(dst[4*i:], math.Float32bits(v))
		}
	case Int32:
		for i, v := range src {
			order.PutUint32(dst[4*i:], uint32(int32(v)))
		}
	case Int16:
		for i, v := range src {
			order.PutUint16(dst[2*i:], uint16(int16(v)))
		}
	case Int8:
		for i, v := range src {
			dst[i] = byte(int8(v))
		}
	}
}

// IBMToFloat32 converts an IBM System/360 single precision value.
func IBMToFloat32(b uint32) float32 {
	mant := b & 0x00ffffff
	if mant == 0 {
		return 0
	}
	exp := int((b>>24)&0x7f) - 64
	v := float64(mant) * math.Pow(16, float64(exp)) / (1 << 24)
	if b&0x80000000 != 0 {
		v = -v
	}
	return float32(v)
}

// Float32ToIBM converts v to IBM System/360 single precision, truncating
// the mantissa to 24 bits.
func Float32ToIBM(v float32) uint32 {
	if v == 0 || math.IsNaN(float64(v)) {
		return 0
	}
	var sign uint32
	a := float64(v)
	if a < 0 {
		sign = 0x80000000
		a = -a
	}
	exp := 64
	for a >= 1 {
		a /= 16
		exp++
	}
	for a < 1.0/16 {
		a *= 16
		exp--
	}
	if exp > 127 {
		return sign | 0x7fffffff
	}
	if exp < 0 {
		return 0
	}
	mant := uint32(a * (1 << 24))
	return sign | uint32(exp)<<24 | mant
}
