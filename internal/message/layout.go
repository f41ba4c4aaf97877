package message

import (
	"fmt"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
)

// LayoutClass is the storage class of a dataset.
type LayoutClass uint8

const (
	LayoutCompact    LayoutClass = 0
	LayoutContiguous LayoutClass = 1
	LayoutChunked    LayoutClass = 2
)

// Chunk index types of a version 4 chunked layout.
const (
	IndexSingleChunk uint8 = 1
	IndexImplicit    uint8 = 2
	IndexFixedArray  uint8 = 3
	IndexExtensible  uint8 = 4
	IndexBTreeV2     uint8 = 5
)

// Layout is the data layout message (0x0008).
//
// Contiguous storage is written as version 3. Chunked storage is written as
// version 4 with a single chunk covering the whole dataset, which is all the
// writer produces.
type Layout struct {
	Class   LayoutClass
	Address uint64 // undefined when no storage is allocated
	Size    uint64 // contiguous only

	// Chunked only. ChunkDims excludes the trailing element size dimension.
	ChunkDims    []uint64
	ElementSize  uint32
	IndexType    uint8
	Filtered     bool
	FilteredSize uint64
	FilterMask   uint32
}

func (m *Layout) Type() Type { return TypeDataLayout }

// NewContiguousLayout describes size bytes stored at addr.
func NewContiguousLayout(addr, size uint64) *Layout {
	return &Layout{Class: LayoutContiguous, Address: addr, Size: size}
}

// NewSingleChunkLayout describes one chunk holding the whole dataset. When
// filtered is true the chunk is stored as filteredSize encoded bytes.
func NewSingleChunkLayout(dims []uint64, elemSize uint32, addr uint64, filtered bool, filteredSize uint64) *Layout {
	return &Layout{
		Class:        LayoutChunked,
		Address:      addr,
		ChunkDims:    dims,
		ElementSize:  elemSize,
		IndexType:    IndexSingleChunk,
		Filtered:     filtered,
		FilteredSize: filteredSize,
	}
}

func (m *Layout) dimWidth() int {
	max := uint64(m.ElementSize)
	for _, d := range m.ChunkDims {
		if d > max {
			max = d
		}
	}
	switch {
	case max <= 0xff:
		return 1
	case max <= 0xffff:
		return 2
	case max <= 0xffffffff:
		return 4
	default:
		return 8
	}
}

func (m *Layout) Encode(w *binary.Writer) error {
	switch m.Class {
	case LayoutContiguous:
		if err := w.WriteBytes([]byte{3, uint8(LayoutContiguous)}); err != nil {
			return err
		}
		if err := w.WriteOffset(m.Address); err != nil {
			return err
		}
		return w.WriteLength(m.Size)

	case LayoutChunked:
		if m.IndexType != IndexSingleChunk {
			return fmt.Errorf("chunk index type %d: %w", m.IndexType, ErrUnsupported)
		}
		var flags uint8
		if m.Filtered {
			flags |= 0x02
		}
		width := m.dimWidth()
		hdr := []byte{4, uint8(LayoutChunked), flags, uint8(len(m.ChunkDims) + 1), uint8(width)}
		if err := w.WriteBytes(hdr); err != nil {
			return err
		}
		for _, d := range m.ChunkDims {
			if err := w.WriteUintN(d, width); err != nil {
				return err
			}
		}
		if err := w.WriteUintN(uint64(m.ElementSize), width); err != nil {
			return err
		}
		if err := w.WriteUint8(m.IndexType); err != nil {
			return err
		}
		if m.Filtered {
			if err := w.WriteLength(m.FilteredSize); err != nil {
				return err
			}
			if err := w.WriteUint32(m.FilterMask); err != nil {
				return err
			}
		}
		return w.WriteOffset(m.Address)
	}
	return fmt.Errorf("layout class %d: %w", m.Class, ErrUnsupported)
}

func (m *Layout) EncodedSize(cfg binary.Config) int {
	if m.Class == LayoutContiguous {
		return 2 + cfg.OffsetSize + cfg.LengthSize
	}
	n := 5 + (len(m.ChunkDims)+1)*m.dimWidth() + 1 + cfg.OffsetSize
	if m.Filtered {
		n += cfg.LengthSize + 4
	}
	return n
}

func parseLayout(data []byte, cfg binary.Config) (*Layout, error) {
	if len(data) < 2 {
		return nil, errShort("layout")
	}
	version := data[0]
	if version < 3 || version > 4 {
		return nil, fmt.Errorf("layout version %d: %w", version, ErrUnsupported)
	}
	m := &Layout{Class: LayoutClass(data[1])}
	r := binary.NewBytesReader(data, cfg).At(2)

	switch m.Class {
	case LayoutContiguous:
		addr, err := r.ReadOffset()
		if err != nil {
			return nil, errShort("layout")
		}
		size, err := r.ReadLength()
		if err != nil {
			return nil, errShort("layout")
		}
		m.Address, m.Size = addr, size
		return m, nil

	case LayoutChunked:
		if version != 4 {
			return nil, fmt.Errorf("chunked layout version %d: %w", version, ErrUnsupported)
		}
		hdr, err := r.ReadBytes(3)
		if err != nil {
			return nil, errShort("layout")
		}
		flags, ndims, width := hdr[0], int(hdr[1]), int(hdr[2])
		if ndims < 1 {
			return nil, fmt.Errorf("chunked layout with no dimensions: %w", ErrUnsupported)
		}
		dims := make([]uint64, ndims)
		for i := range dims {
			if dims[i], err = r.ReadUintN(width); err != nil {
				return nil, errShort("layout")
			}
		}
		m.ChunkDims = dims[:ndims-1]
		m.ElementSize = uint32(dims[ndims-1])
		if m.IndexType, err = r.ReadUint8(); err != nil {
			return nil, errShort("layout")
		}
		if m.IndexType != IndexSingleChunk {
			return nil, fmt.Errorf("chunk index type %d: %w", m.IndexType, ErrUnsupported)
		}
		if flags&0x02 != 0 {
			m.Filtered = true
			if m.FilteredSize, err = r.ReadLength(); err != nil {
				return nil, errShort("layout")
			}
			if m.FilterMask, err = r.ReadUint32(); err != nil {
				return nil, errShort("layout")
			}
		}
		if m.Address, err = r.ReadOffset(); err != nil {
			return nil, errShort("layout")
		}
		return m, nil
	}
	return nil, fmt.Errorf("layout class %d: %w", m.Class, ErrUnsupported)
}
