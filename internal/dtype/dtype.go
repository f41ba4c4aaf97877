// Package dtype converts between Go slices and the raw element bytes of an
// HDF5 dataset or attribute.
package dtype

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// Encode returns the little-endian bytes of v, the datatype describing
// them and the number of elements. Supported values are numeric slices,
// numeric scalars, strings and string slices. Strings are stored as fixed
// length null-terminated elements sized to the longest one.
func Encode(v any) ([]byte, *message.Datatype, uint64, error) {
	le := binary.LittleEndian
	switch x := v.(type) {
	case []float32:
		buf := make([]byte, 4*len(x))
		for i, f := range x {
			le.PutUint32(buf[4*i:], math.Float32bits(f))
		}
		return buf, message.Float32(), uint64(len(x)), nil
	case []float64:
		buf := make([]byte, 8*len(x))
		for i, f := range x {
			le.PutUint64(buf[8*i:], math.Float64bits(f))
		}
		return buf, message.Float64(), uint64(len(x)), nil
	case []int32:
		buf := make([]byte, 4*len(x))
		for i, n := range x {
			le.PutUint32(buf[4*i:], uint32(n))
		}
		return buf, message.Int32(), uint64(len(x)), nil
	case []int16:
		buf := make([]byte, 2*len(x))
		for i, n := range x {
			le.PutUint16(buf[2*i:], uint16(n))
		}
		return buf, message.Int16(), uint64(len(x)), nil
	case []int8:
		buf := make([]byte, len(x))
		for i, n := range x {
			buf[i] = byte(n)
		}
		return buf, message.Int8(), uint64(len(x)), nil
	case []byte:
		return append([]byte(nil), x...), message.Uint8(), uint64(len(x)), nil
	case float32:
		return Encode([]float32{x})
	case float64:
		return Encode([]float64{x})
	case int32:
		return Encode([]int32{x})
	case int:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return nil, nil, 0, fmt.Errorf("int %d overflows int32", x)
		}
		return Encode([]int32{int32(x)})
	case string:
		return encodeStrings([]string{x})
	case []string:
		return encodeStrings(x)
	default:
		return nil, nil, 0, fmt.Errorf("unsupported value type %T", v)
	}
}

func encodeStrings(ss []string) ([]byte, *message.Datatype, uint64, error) {
	width := 1
	for _, s := range ss {
		if len(s)+1 > width {
			width = len(s) + 1
		}
	}
	buf := make([]byte, width*len(ss))
	for i, s := range ss {
		copy(buf[i*width:], s)
	}
	return buf, message.FixedString(width), uint64(len(ss)), nil
}

func checkLen(dt *message.Datatype, data []byte, n uint64) error {
	if uint64(len(data)) < n*uint64(dt.Size) {
		return fmt.Errorf("%d bytes cannot hold %d %s elements", len(data), n, dt)
	}
	return nil
}

// Float64s decodes n numeric elements of any supported class as float64.
func Float64s(dt *message.Datatype, data []byte, n uint64) ([]float64, error) {
	if err := checkLen(dt, data, n); err != nil {
		return nil, err
	}
	order := dt.ByteOrder()
	size := int(dt.Size)
	out := make([]float64, n)
	for i := range out {
		p := data[i*size : (i+1)*size]
		switch {
		case dt.Class == message.ClassFloatPoint && size == 4:
			out[i] = float64(math.Float32frombits(order.Uint32(p)))
		case dt.Class == message.ClassFloatPoint && size == 8:
			out[i] = math.Float64frombits(order.Uint64(p))
		case dt.Class == message.ClassFixedPoint:
			v, err := fixedValue(dt, p, order)
			if err != nil {
				return nil, err
			}
			out[i] = float64(v)
		default:
			return nil, fmt.Errorf("cannot read %s as numbers", dt)
		}
	}
	return out, nil
}

// Float32s decodes n numeric elements as float32.
func Float32s(dt *message.Datatype, data []byte, n uint64) ([]float32, error) {
	if dt.Class == message.ClassFloatPoint && dt.Size == 4 {
		if err := checkLen(dt, data, n); err != nil {
			return nil, err
		}
		order := dt.ByteOrder()
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(order.Uint32(data[4*i:]))
		}
		return out, nil
	}
	wide, err := Float64s(dt, data, n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i, v := range wide {
		out[i] = float32(v)
	}
	return out, nil
}

// Int32s decodes n integer elements of at most 32 bits.
func Int32s(dt *message.Datatype, data []byte, n uint64) ([]int32, error) {
	if dt.Class != message.ClassFixedPoint || dt.Size > 4 {
		return nil, fmt.Errorf("cannot read %s as int32", dt)
	}
	if err := checkLen(dt, data, n); err != nil {
		return nil, err
	}
	order := dt.ByteOrder()
	size := int(dt.Size)
	out := make([]int32, n)
	for i := range out {
		v, err := fixedValue(dt, data[i*size:(i+1)*size], order)
		if err != nil {
			return nil, err
		}
		if v > math.MaxInt32 {
			return nil, fmt.Errorf("value %d overflows int32", v)
		}
		out[i] = int32(v)
	}
	return out, nil
}

func fixedValue(dt *message.Datatype, p []byte, order binary.ByteOrder) (int64, error) {
	switch len(p) {
	case 1:
		if dt.Signed {
			return int64(int8(p[0])), nil
		}
		return int64(p[0]), nil
	case 2:
		if dt.Signed {
			return int64(int16(order.Uint16(p))), nil
		}
		return int64(order.Uint16(p)), nil
	case 4:
		if dt.Signed {
			return int64(int32(order.Uint32(p))), nil
		}
		return int64(order.Uint32(p)), nil
	case 8:
		return int64(order.Uint64(p)), nil
	}
	return 0, fmt.Errorf("unsupported integer width %d", len(p))
}

// Strings decodes n fixed length string elements, trimming the padding.
func Strings(dt *message.Datatype, data []byte, n uint64) ([]string, error) {
	if dt.Class != message.ClassString {
		return nil, fmt.Errorf("cannot read %s as strings", dt)
	}
	if err := checkLen(dt, data, n); err != nil {
		return nil, err
	}
	size := int(dt.Size)
	out := make([]string, n)
	for i := range out {
		p := data[i*size : (i+1)*size]
		if j := bytes.IndexByte(p, 0); j >= 0 {
			p = p[:j]
		}
		if dt.Padding == 2 {
			p = bytes.TrimRight(p, " ")
		}
		out[i] = string(p)
	}
	return out, nil
}
