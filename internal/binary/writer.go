// Package binary provides the little-endian encoder and decoder used to lay
// out the HDF5 structures of a NetCDF-4 file.
package binary

import (
	"encoding/binary"
	"io"
)

// Config holds the byte order and the widths of file offsets and lengths.
// The superblock of every file records the two widths.
type Config struct {
	ByteOrder  binary.ByteOrder
	OffsetSize int // 2, 4, or 8 bytes
	LengthSize int // 2, 4, or 8 bytes
}

// DefaultConfig returns the configuration used for every file this module
// writes: little-endian with 8-byte offsets and lengths.
func DefaultConfig() Config {
	return Config{
		ByteOrder:  binary.LittleEndian,
		OffsetSize: 8,
		LengthSize: 8,
	}
}

// Writer writes fixed and variable width fields at an explicit position of an
// io.WriterAt.
type Writer struct {
	w   io.WriterAt
	cfg Config
	pos int64
}

// NewWriter creates a writer positioned at offset 0.
func NewWriter(w io.WriterAt, cfg Config) *Writer {
	return &Writer{w: w, cfg: cfg}
}

// At returns a writer sharing the destination but positioned at offset.
func (w *Writer) At(offset int64) *Writer {
	return &Writer{w: w.w, cfg: w.cfg, pos: offset}
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 {
	return w.pos
}

// Config returns the writer configuration.
func (w *Writer) Config() Config {
	return w.cfg
}

// OffsetSize returns the configured offset size in bytes.
func (w *Writer) OffsetSize() int {
	return w.cfg.OffsetSize
}

// LengthSize returns the configured length size in bytes.
func (w *Writer) LengthSize() int {
	return w.cfg.LengthSize
}

// WriteBytes writes data at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := w.w.WriteAt(data, w.pos)
	w.pos += int64(n)
	return err
}

// WriteUint8 writes an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteUint16 writes an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) error {
	return w.WriteUintN(uint64(v), 2)
}

// WriteUint32 writes an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	return w.WriteUintN(uint64(v), 4)
}

// WriteUint64 writes an unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) error {
	return w.WriteUintN(v, 8)
}

// WriteUintN writes the low n bytes of v.
func (w *Writer) WriteUintN(v uint64, n int) error {
	buf := make([]byte, n)
	PutUintN(buf, v, n, w.cfg.ByteOrder)
	return w.WriteBytes(buf)
}

// WriteOffset writes a file address using the configured offset size.
func (w *Writer) WriteOffset(v uint64) error {
	return w.WriteUintN(v, w.cfg.OffsetSize)
}

// WriteLength writes a length using the configured length size.
func (w *Writer) WriteLength(v uint64) error {
	return w.WriteUintN(v, w.cfg.LengthSize)
}

// WriteUndefinedOffset writes the all-ones "undefined address" sentinel.
func (w *Writer) WriteUndefinedOffset() error {
	return w.WriteOffset(Undefined(w.cfg.OffsetSize))
}

// WriteZeros writes n zero bytes.
func (w *Writer) WriteZeros(n int) error {
	if n <= 0 {
		return nil
	}
	return w.WriteBytes(make([]byte, n))
}

// Undefined returns the all-ones sentinel for a field of the given width.
func Undefined(size int) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(uint(size)*8) - 1
}

// PutUintN encodes v into the first n bytes of buf.
func PutUintN(buf []byte, v uint64, n int, order binary.ByteOrder) {
	switch n {
	case 1:
		buf[0] = uint8(v)
	case 2:
		order.PutUint16(buf, uint16(v))
	case 4:
		order.PutUint32(buf, uint32(v))
	case 8:
		order.PutUint64(buf, v)
	default:
		for i := 0; i < n; i++ {
			buf[i] = byte(v >> (8 * i))
		}
	}
}

// UintN decodes the first n bytes of buf.
func UintN(buf []byte, n int, order binary.ByteOrder) uint64 {
	switch n {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(order.Uint16(buf))
	case 4:
		return uint64(order.Uint32(buf))
	case 8:
		return order.Uint64(buf)
	default:
		var v uint64
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint64(buf[i])
		}
		return v
	}
}

// Buffer is a growable in-memory io.WriterAt. Object headers and the
// superblock are assembled in a Buffer so their checksum can be computed
// before they reach the file.
type Buffer struct {
	buf []byte
}

// NewBuffer returns a buffer with capacity for n bytes.
func NewBuffer(n int) *Buffer {
	return &Buffer{buf: make([]byte, 0, n)}
}

// WriteAt implements io.WriterAt, growing the buffer as required.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(b.buf) {
		if end > cap(b.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.buf)
			b.buf = grown
		} else {
			b.buf = b.buf[:end]
		}
	}
	copy(b.buf[off:], p)
	return len(p), nil
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return len(b.buf)
}
