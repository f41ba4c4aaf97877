package message

import (
	"encoding/binary"
	"fmt"

	bin "github.com/robert-malhotra/segy2netcdf/internal/binary"
)

// Class is the datatype class.
type Class uint8

const (
	ClassFixedPoint Class = 0
	ClassFloatPoint Class = 1
	ClassString     Class = 3
)

// Datatype is the datatype message (0x0003). Only fixed-point, IEEE float
// and fixed-length string classes are modelled; other classes keep their raw
// properties so a file using them can still be listed.
type Datatype struct {
	Class     Class
	Size      uint32
	BigEndian bool
	Signed    bool

	// Fixed string only.
	Padding uint8 // 0 null terminated, 1 null padded, 2 space padded
	UTF8    bool

	classBits uint32
	props     []byte
}

// Int8 returns a signed 8-bit integer type.
func Int8() *Datatype { return fixed(1, true) }

// Uint8 returns an unsigned 8-bit integer type.
func Uint8() *Datatype { return fixed(1, false) }

// Int16 returns a signed 16-bit little-endian integer type.
func Int16() *Datatype { return fixed(2, true) }

// Int32 returns a signed 32-bit little-endian integer type.
func Int32() *Datatype { return fixed(4, true) }

// Float32 returns an IEEE single precision little-endian type.
func Float32() *Datatype { return &Datatype{Class: ClassFloatPoint, Size: 4} }

// Float64 returns an IEEE double precision little-endian type.
func Float64() *Datatype { return &Datatype{Class: ClassFloatPoint, Size: 8} }

// FixedString returns a null-terminated ASCII string type of n bytes.
func FixedString(n int) *Datatype {
	return &Datatype{Class: ClassString, Size: uint32(n)}
}

func fixed(size uint32, signed bool) *Datatype {
	return &Datatype{Class: ClassFixedPoint, Size: size, Signed: signed}
}

func (m *Datatype) Type() Type { return TypeDatatype }

// Equal reports whether two datatypes describe the same in-file encoding.
func (m *Datatype) Equal(o *Datatype) bool {
	return m.Class == o.Class && m.Size == o.Size && m.BigEndian == o.BigEndian &&
		m.Signed == o.Signed
}

func (m *Datatype) String() string {
	switch m.Class {
	case ClassFixedPoint:
		if m.Signed {
			return fmt.Sprintf("int%d", m.Size*8)
		}
		return fmt.Sprintf("uint%d", m.Size*8)
	case ClassFloatPoint:
		return fmt.Sprintf("float%d", m.Size*8)
	case ClassString:
		return fmt.Sprintf("string[%d]", m.Size)
	default:
		return fmt.Sprintf("class%d[%d]", m.Class, m.Size)
	}
}

// ByteOrder returns the byte order of numeric elements.
func (m *Datatype) ByteOrder() binary.ByteOrder {
	if m.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (m *Datatype) bits() uint32 {
	var b uint32
	if m.BigEndian {
		b |= 0x01
	}
	switch m.Class {
	case ClassFixedPoint:
		if m.Signed {
			b |= 0x08
		}
	case ClassFloatPoint:
		// implied msb mantissa normalization, sign bit at the top
		b |= 0x20 | (m.Size*8-1)<<8
	case ClassString:
		b = uint32(m.Padding & 0x0f)
		if m.UTF8 {
			b |= 1 << 4
		}
	default:
		b = m.classBits
	}
	return b
}

func (m *Datatype) properties() []byte {
	switch m.Class {
	case ClassFixedPoint:
		p := make([]byte, 4)
		binary.LittleEndian.PutUint16(p[2:], uint16(m.Size*8))
		return p
	case ClassFloatPoint:
		p := make([]byte, 12)
		binary.LittleEndian.PutUint16(p[2:], uint16(m.Size*8))
		if m.Size == 8 {
			p[4], p[5], p[6], p[7] = 52, 11, 0, 52
			binary.LittleEndian.PutUint32(p[8:], 1023)
		} else {
			p[4], p[5], p[6], p[7] = 23, 8, 0, 23
			binary.LittleEndian.PutUint32(p[8:], 127)
		}
		return p
	case ClassString:
		return nil
	default:
		return m.props
	}
}

// Encode writes a version 1 datatype.
func (m *Datatype) Encode(w *bin.Writer) error {
	bits := m.bits()
	hdr := []byte{uint8(m.Class) | 1<<4, uint8(bits), uint8(bits >> 8), uint8(bits >> 16)}
	if err := w.WriteBytes(hdr); err != nil {
		return err
	}
	if err := w.WriteUint32(m.Size); err != nil {
		return err
	}
	return w.WriteBytes(m.properties())
}

func (m *Datatype) EncodedSize(bin.Config) int {
	return 8 + len(m.properties())
}

func parseDatatype(data []byte) (*Datatype, error) {
	if len(data) < 8 {
		return nil, errShort("datatype")
	}
	dt := &Datatype{
		Class:     Class(data[0] & 0x0f),
		classBits: uint32(data[1]) | uint32(data[2])<<8 | uint32(data[3])<<16,
		Size:      binary.LittleEndian.Uint32(data[4:8]),
		props:     data[8:],
	}
	switch dt.Class {
	case ClassFixedPoint:
		dt.BigEndian = dt.classBits&0x01 != 0
		dt.Signed = dt.classBits&0x08 != 0
	case ClassFloatPoint:
		if dt.classBits&0x41 == 0x41 {
			return nil, fmt.Errorf("VAX float order: %w", ErrUnsupported)
		}
		dt.BigEndian = dt.classBits&0x01 != 0
	case ClassString:
		dt.Padding = uint8(dt.classBits & 0x0f)
		dt.UTF8 = (dt.classBits>>4)&0x0f == 1
	}
	return dt, nil
}
