package filter

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// DefaultLevel is the deflate level used when none is configured.
const DefaultLevel = 4

// Deflate is the zlib deflate filter.
type Deflate struct {
	level int
}

// NewDeflate returns a deflate filter compressing at level (1-9).
func NewDeflate(level int) (*Deflate, error) {
	if level < 1 || level > 9 {
		return nil, fmt.Errorf("deflate level %d outside 1-9", level)
	}
	return &Deflate{level: level}, nil
}

func newDeflateFromClientData(cd []uint32) *Deflate {
	level := DefaultLevel
	if len(cd) > 0 {
		level = int(cd[0])
	}
	return &Deflate{level: level}
}

// Level returns the compression level.
func (f *Deflate) Level() int { return f.level }

func (f *Deflate) Info() message.FilterInfo {
	return message.FilterInfo{ID: message.FilterDeflate, ClientData: []uint32{uint32(f.level)}}
}

func (f *Deflate) Encode(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, f.level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := zw.Write(input); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Deflate) Decode(input []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	return out, nil
}
