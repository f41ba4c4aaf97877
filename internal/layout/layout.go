// Package layout stores and loads the raw bytes of a dataset.
//
// Two storage forms are produced: contiguous blocks for unfiltered data and
// a single filtered chunk covering the whole dataset when compression is on.
package layout

import (
	"errors"
	"fmt"
	"io"

	"github.com/robert-malhotra/segy2netcdf/internal/alloc"
	"github.com/robert-malhotra/segy2netcdf/internal/binary"
	"github.com/robert-malhotra/segy2netcdf/internal/filter"
	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// MaxChunkBytes is the largest chunk a single-chunk layout can describe.
const MaxChunkBytes = 1<<32 - 1

// ErrChunkTooLarge is returned by Store when filtered data does not fit in
// one chunk.
var ErrChunkTooLarge = errors.New("dataset too large for a single chunk")

// Store writes raw at the end of the file and returns the layout message
// that locates it. When p has filters the data is encoded and written as one
// chunk of extent dims.
func Store(dst io.WriterAt, a *alloc.Allocator, tag string, raw []byte, dims []uint64, elemSize uint32, p *filter.Pipeline) (*message.Layout, error) {
	if p == nil || p.Empty() || len(raw) == 0 {
		addr := a.AllocAligned(uint64(len(raw)), tag)
		if _, err := dst.WriteAt(raw, int64(addr)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", tag, err)
		}
		return message.NewContiguousLayout(addr, uint64(len(raw))), nil
	}

	if uint64(len(raw)) > MaxChunkBytes {
		return nil, fmt.Errorf("%s: %d bytes: %w", tag, len(raw), ErrChunkTooLarge)
	}
	enc, err := p.Encode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	addr := a.AllocAligned(uint64(len(enc)), tag)
	if _, err := dst.WriteAt(enc, int64(addr)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", tag, err)
	}
	return message.NewSingleChunkLayout(dims, elemSize, addr, true, uint64(len(enc))), nil
}

// Unallocated returns a contiguous layout with no storage, used for datasets
// that exist only to name a dimension.
func Unallocated(size uint64) *message.Layout {
	return message.NewContiguousLayout(binary.Undefined(8), size)
}

// Load reads and decodes the size bytes described by l. Storage that was
// never allocated reads as zeros.
func Load(r *binary.Reader, l *message.Layout, p *filter.Pipeline, size uint64) ([]byte, error) {
	if r.IsUndefinedOffset(l.Address) {
		return make([]byte, size), nil
	}

	switch l.Class {
	case message.LayoutContiguous:
		if l.Size < size {
			return nil, fmt.Errorf("contiguous storage holds %d bytes, need %d", l.Size, size)
		}
		return r.At(int64(l.Address)).ReadBytes(int(size))

	case message.LayoutChunked:
		stored := size
		if l.Filtered {
			stored = l.FilteredSize
		}
		raw, err := r.At(int64(l.Address)).ReadBytes(int(stored))
		if err != nil {
			return nil, fmt.Errorf("reading chunk: %w", err)
		}
		if p == nil {
			p = filter.NewPipeline()
		}
		data, err := p.Decode(raw, l.FilterMask)
		if err != nil {
			return nil, err
		}
		if uint64(len(data)) != size {
			return nil, fmt.Errorf("chunk decoded to %d bytes, need %d", len(data), size)
		}
		return data, nil
	}
	return nil, fmt.Errorf("layout class %d: %w", l.Class, message.ErrUnsupported)
}
