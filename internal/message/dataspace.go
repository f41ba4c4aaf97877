package message

import (
	"fmt"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
)

// SpaceType is the dataspace class.
type SpaceType uint8

const (
	SpaceScalar SpaceType = 0
	SpaceSimple SpaceType = 1
	SpaceNull   SpaceType = 2
)

// Dataspace is the dataspace message (0x0001).
type Dataspace struct {
	Space   SpaceType
	Dims    []uint64
	MaxDims []uint64 // nil when equal to Dims
}

// NewDataspace returns a simple dataspace with the given extents.
func NewDataspace(dims ...uint64) *Dataspace {
	return &Dataspace{Space: SpaceSimple, Dims: dims}
}

// NewScalarDataspace returns a dataspace holding a single element.
func NewScalarDataspace() *Dataspace {
	return &Dataspace{Space: SpaceScalar}
}

func (m *Dataspace) Type() Type { return TypeDataspace }

// NumElements returns the number of elements the dataspace describes.
func (m *Dataspace) NumElements() uint64 {
	switch m.Space {
	case SpaceScalar:
		return 1
	case SpaceNull:
		return 0
	}
	n := uint64(1)
	for _, d := range m.Dims {
		n *= d
	}
	return n
}

// Encode writes a version 2 dataspace.
func (m *Dataspace) Encode(w *binary.Writer) error {
	var flags uint8
	if m.MaxDims != nil {
		flags |= 0x01
	}
	for _, b := range []uint8{2, uint8(len(m.Dims)), flags, uint8(m.Space)} {
		if err := w.WriteUint8(b); err != nil {
			return err
		}
	}
	for _, d := range m.Dims {
		if err := w.WriteLength(d); err != nil {
			return err
		}
	}
	for _, d := range m.MaxDims {
		if err := w.WriteLength(d); err != nil {
			return err
		}
	}
	return nil
}

func (m *Dataspace) EncodedSize(cfg binary.Config) int {
	n := 4 + len(m.Dims)*cfg.LengthSize
	if m.MaxDims != nil {
		n += len(m.MaxDims) * cfg.LengthSize
	}
	return n
}

func parseDataspace(data []byte, cfg binary.Config) (*Dataspace, error) {
	if len(data) < 4 {
		return nil, errShort("dataspace")
	}
	version, rank, flags := data[0], int(data[1]), data[2]

	ds := &Dataspace{}
	off := 4
	switch version {
	case 1:
		ds.Space = SpaceSimple
		if rank == 0 {
			ds.Space = SpaceScalar
		}
		off = 8
	case 2:
		ds.Space = SpaceType(data[3])
	default:
		return nil, fmt.Errorf("dataspace version %d: %w", version, ErrUnsupported)
	}

	r := binary.NewBytesReader(data, cfg).At(int64(off))
	read := func(n int) ([]uint64, error) {
		out := make([]uint64, n)
		for i := range out {
			v, err := r.ReadLength()
			if err != nil {
				return nil, errShort("dataspace")
			}
			out[i] = v
		}
		return out, nil
	}

	var err error
	if ds.Dims, err = read(rank); err != nil {
		return nil, err
	}
	if flags&0x01 != 0 {
		if ds.MaxDims, err = read(rank); err != nil {
			return nil, err
		}
	}
	return ds, nil
}
