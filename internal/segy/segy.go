// Package segy reads SEG-Y files: the textual and binary file headers,
// extended textual headers, trace headers and trace samples.
package segy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/robert-malhotra/segy2netcdf/internal/fields"
)

// File layout sizes.
const (
	TextHeaderSize   = 3200
	BinaryHeaderSize = 400
	TraceHeaderSize  = fields.HeaderSize

	// Offsets inside the binary header, zero based from its start.
	binInterval    = 16
	binSamples     = 20
	binFormat      = 24
	binExtHeaders  = 304
	endTextStanza  = "((EndText))"
	dataStartNoExt = TextHeaderSize + BinaryHeaderSize
)

// Offsets inside a trace header, zero based.
const (
	trDelay    = 108
	trSamples  = 114
	trInterval = 116
)

// Errors.
var (
	ErrNotSEGY           = errors.New("segy: not a SEG-Y file")
	ErrTruncated         = errors.New("segy: file size is not a whole number of traces")
	ErrUnsupportedFormat = errors.New("segy: unsupported sample format")
	ErrOutOfRange        = errors.New("segy: trace index out of range")
)

// Endian selects how the byte order of a file is determined.
type Endian int

const (
	// EndianAuto detects the byte order from the sample format code.
	EndianAuto Endian = iota
	EndianBig
	EndianLittle
)

// ParseEndian parses "auto", "big" or "little". The empty string is auto.
func ParseEndian(s string) (Endian, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return EndianAuto, nil
	case "big", "msb":
		return EndianBig, nil
	case "little", "lsb":
		return EndianLittle, nil
	}
	return EndianAuto, fmt.Errorf("segy: unknown endianness %q", s)
}

// Option configures a File.
type Option func(*options)

type options struct {
	endian Endian
	logger *zap.Logger
}

// WithEndian forces the byte order instead of detecting it.
func WithEndian(e Endian) Option {
	return func(o *options) { o.endian = e }
}

// WithLogger sets the logger used while reading. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// File is an open SEG-Y file.
type File struct {
	r      io.ReaderAt
	closer io.Closer
	size   int64
	log    *zap.Logger

	order     binary.ByteOrder
	format    Format
	ns        int
	interval  int
	delay     int
	ntraces   int
	dataStart int64
	traceSize int64

	text []byte
	bin  []byte
	ext  [][]byte
}

// Open opens the SEG-Y file at path.
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	sf, err := NewReader(f, info.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sf.closer = f
	return sf, nil
}

// NewReader reads a SEG-Y file of the given size from r.
func NewReader(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	f := &File{r: r, size: size, log: o.logger}
	if err := f.readHeaders(o.endian); err != nil {
		return nil, err
	}
	return f, nil
}

// Close releases the underlying file, if Open created it.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

func (f *File) readHeaders(endian Endian) error {
	if f.size < dataStartNoExt {
		return fmt.Errorf("%w: %d bytes", ErrNotSEGY, f.size)
	}
	head := make([]byte, dataStartNoExt)
	if _, err := f.r.ReadAt(head, 0); err != nil {
		return fmt.Errorf("segy: reading file headers: %w", err)
	}
	f.text = head[:TextHeaderSize]
	f.bin = head[TextHeaderSize:]

	switch endian {
	case EndianBig:
		f.order = binary.BigEndian
	case EndianLittle:
		f.order = binary.LittleEndian
	default:
		f.order = detectOrder(f.bin)
	}

	f.format = Format(int16(f.order.Uint16(f.bin[binFormat:])))
	if f.format.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.format)
	}
	f.ns = int(f.order.Uint16(f.bin[binSamples:]))
	f.interval = int(f.order.Uint16(f.bin[binInterval:]))

	if err := f.readExtendedHeaders(int(int16(f.order.Uint16(f.bin[binExtHeaders:])))); err != nil {
		return err
	}

	// Fall back to the first trace header for values left blank in the
	// binary header.
	var first []byte
	if f.size >= f.dataStart+TraceHeaderSize {
		first = make([]byte, TraceHeaderSize)
		if _, err := f.r.ReadAt(first, f.dataStart); err != nil {
			return fmt.Errorf("segy: reading first trace header: %w", err)
		}
		f.delay = int(int16(f.order.Uint16(first[trDelay:])))
		if f.ns == 0 {
			f.ns = int(f.order.Uint16(first[trSamples:]))
		}
		if f.interval == 0 {
			f.interval = int(f.order.Uint16(first[trInterval:]))
		}
	}

	f.traceSize = TraceHeaderSize + int64(f.ns*f.format.Size())
	data := f.size - f.dataStart
	if data%f.traceSize != 0 {
		return fmt.Errorf("%w: %d trailing bytes after %d traces of %d bytes",
			ErrTruncated, data%f.traceSize, data/f.traceSize, f.traceSize)
	}
	f.ntraces = int(data / f.traceSize)

	f.log.Debug("opened SEG-Y file",
		zap.Stringer("format", f.format),
		zap.Stringer("byte_order", f.order),
		zap.Int("samples", f.ns),
		zap.Int("interval", f.interval),
		zap.Int("traces", f.ntraces),
		zap.Int("extended_headers", len(f.ext)))
	return nil
}

// detectOrder picks the byte order under which the format code is valid,
// preferring big-endian.
func detectOrder(bin []byte) binary.ByteOrder {
	if knownFormat(int(int16(binary.BigEndian.Uint16(bin[binFormat:])))) {
		return binary.BigEndian
	}
	if knownFormat(int(int16(binary.LittleEndian.Uint16(bin[binFormat:])))) {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// readExtendedHeaders reads n extended textual headers. A negative count
// means headers continue up to and including the one holding the
// ((EndText)) stanza.
func (f *File) readExtendedHeaders(n int) error {
	off := int64(dataStartNoExt)
	for i := 0; n < 0 || i < n; i++ {
		if off+TextHeaderSize > f.size {
			if n < 0 {
				break
			}
			return fmt.Errorf("%w: %d extended textual headers declared, file ends after %d",
				ErrNotSEGY, n, i)
		}
		buf := make([]byte, TextHeaderSize)
		if _, err := f.r.ReadAt(buf, off); err != nil {
			return fmt.Errorf("segy: reading extended textual header %d: %w", i, err)
		}
		f.ext = append(f.ext, buf)
		off += TextHeaderSize
		if n < 0 && strings.Contains(DecodeText(buf), endTextStanza) {
			break
		}
	}
	f.dataStart = off
	return nil
}

// SampleCount returns the number of samples per trace.
func (f *File) SampleCount() int { return f.ns }

// TraceCount returns the number of traces in the file.
func (f *File) TraceCount() int { return f.ntraces }

// Format returns the sample format.
func (f *File) Format() Format { return f.format }

// Interval returns the sample interval as recorded, usually microseconds.
func (f *File) Interval() int { return f.interval }

// ByteOrder returns the byte order of the file.
func (f *File) ByteOrder() binary.ByteOrder { return f.order }

// TextHeader returns the raw 3200-byte textual file header.
func (f *File) TextHeader() []byte { return f.text }

// Text returns the textual file header as a string.
func (f *File) Text() string { return DecodeText(f.text) }

// BinaryHeader returns the raw 400-byte binary file header.
func (f *File) BinaryHeader() []byte { return f.bin }

// ExtendedTextHeaders returns the raw extended textual headers.
func (f *File) ExtendedTextHeaders() [][]byte { return f.ext }

// SampleCoordinates returns the time or depth of every sample: the first
// trace's delay in milliseconds converted to the interval's unit, plus one
// interval per sample.
func (f *File) SampleCoordinates() []float64 {
	out := make([]float64, f.ns)
	start := float64(f.delay) * 1000
	for k := range out {
		out[k] = start + float64(k)*float64(f.interval)
	}
	return out
}

func (f *File) traceOffset(i int) (int64, error) {
	if i < 0 || i >= f.ntraces {
		return 0, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, f.ntraces)
	}
	return f.dataStart + int64(i)*f.traceSize, nil
}

// TraceHeader returns the raw 240-byte header of trace i.
func (f *File) TraceHeader(i int) ([]byte, error) {
	off, err := f.traceOffset(i)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, TraceHeaderSize)
	if _, err := f.r.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("segy: reading header of trace %d: %w", i, err)
	}
	return buf, nil
}

// Trace returns the samples of trace i.
func (f *File) Trace(i int) ([]float32, error) {
	off, err := f.traceOffset(i)
	if err != nil {
		return nil, err
	}
	out := make([]float32, f.ns)
	if err := f.readSamples(out, off, make([]byte, f.traceSize-TraceHeaderSize)); err != nil {
		return nil, fmt.Errorf("segy: reading trace %d: %w", i, err)
	}
	return out, nil
}

func (f *File) readSamples(dst []float32, traceOff int64, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if _, err := f.r.ReadAt(buf, traceOff+TraceHeaderSize); err != nil {
		return err
	}
	f.format.decode(dst, buf, f.order)
	return nil
}

// Traces returns the samples of every trace, trace by trace.
func (f *File) Traces() ([]float32, error) {
	out := make([]float32, f.ntraces*f.ns)
	buf := make([]byte, f.traceSize-TraceHeaderSize)
	for i := 0; i < f.ntraces; i++ {
		off := f.dataStart + int64(i)*f.traceSize
		if err := f.readSamples(out[i*f.ns:(i+1)*f.ns], off, buf); err != nil {
			return nil, fmt.Errorf("segy: reading trace %d: %w", i, err)
		}
	}
	return out, nil
}

// HeaderValues reads field from the header of each trace in ordinals, in
// order. Nil ordinals means every trace.
func (f *File) HeaderValues(field fields.Field, ordinals []int) ([]int32, error) {
	if ordinals == nil {
		ordinals = make([]int, f.ntraces)
		for i := range ordinals {
			ordinals[i] = i
		}
	}
	out := make([]int32, len(ordinals))
	header := make([]byte, TraceHeaderSize)
	buf := header[field.Offset-1 : field.Offset-1+field.Size]
	for n, i := range ordinals {
		off, err := f.traceOffset(i)
		if err != nil {
			return nil, err
		}
		if _, err := f.r.ReadAt(buf, off+int64(field.Offset-1)); err != nil {
			return nil, fmt.Errorf("segy: reading %s of trace %d: %w", field.Name, i, err)
		}
		out[n] = field.Decode(header, f.order)
	}
	return out, nil
}
