// Package segytest writes small SEG-Y files for tests.
package segytest

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/robert-malhotra/segy2netcdf/internal/fields"
	"github.com/robert-malhotra/segy2netcdf/internal/segy"
)

// Spec describes a file to write.
type Spec struct {
	Format   segy.Format      // defaults to IEEE float
	Order    binary.ByteOrder // defaults to big-endian
	Interval int              // sample interval stored in the binary header
	Samples  int              // samples per trace; written to the binary header
	Text     string           // textual header, padded to 3200 bytes
	ASCII    bool             // store Text as ASCII instead of EBCDIC
	Extended []string         // extended textual headers

	// Traces holds the samples of each trace; each must have Samples values.
	Traces [][]float32
	// Headers returns the header values of trace i by field name. May be nil.
	Headers func(i int) map[string]int32
	// Trailing bytes appended after the last trace.
	Trailing int
}

// Bytes encodes s.
func Bytes(s Spec) ([]byte, error) {
	if s.Format == 0 {
		s.Format = segy.IEEEFloat32
	}
	if s.Order == nil {
		s.Order = binary.BigEndian
	}
	reg := fields.Default()
	size := s.Format.Size()
	if size == 0 {
		return nil, fmt.Errorf("segytest: unsupported format %s", s.Format)
	}

	text := padText(s.Text, s.ASCII)
	bin := make([]byte, segy.BinaryHeaderSize)
	s.Order.PutUint16(bin[16:], uint16(s.Interval))
	s.Order.PutUint16(bin[20:], uint16(s.Samples))
	s.Order.PutUint16(bin[24:], uint16(s.Format))
	s.Order.PutUint16(bin[304:], uint16(len(s.Extended)))

	out := append([]byte{}, text...)
	out = append(out, bin...)
	for _, e := range s.Extended {
		out = append(out, padText(e, s.ASCII)...)
	}
	for i, tr := range s.Traces {
		if len(tr) != s.Samples {
			return nil, fmt.Errorf("segytest: trace %d has %d samples, want %d", i, len(tr), s.Samples)
		}
		header := make([]byte, segy.TraceHeaderSize)
		if s.Headers != nil {
			for name, v := range s.Headers(i) {
				f, ok := reg.Lookup(name)
				if !ok {
					return nil, fmt.Errorf("segytest: unknown field %q", name)
				}
				f.Encode(header, s.Order, v)
			}
		}
		data := make([]byte, size*len(tr))
		s.Format.Encode(data, tr, s.Order)
		out = append(out, header...)
		out = append(out, data...)
	}
	out = append(out, make([]byte, s.Trailing)...)
	return out, nil
}

// Write encodes s to path.
func Write(path string, s Spec) error {
	b, err := Bytes(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func padText(s string, ascii bool) []byte {
	var b []byte
	if ascii {
		b = []byte(s)
	} else {
		b = segy.EncodeEBCDIC(s)
	}
	if len(b) > segy.TextHeaderSize {
		b = b[:segy.TextHeaderSize]
	}
	pad := byte(' ')
	if !ascii {
		pad = 0x40
	}
	for len(b) < segy.TextHeaderSize {
		b = append(b, pad)
	}
	return b
}

// Shot gathers used throughout the tests: 3 shots of 10 receivers, 20
// samples each, 1234 µs apart.
const (
	FixtureShots     = 3
	FixtureReceivers = 10
	FixtureSamples   = 20
	FixtureInterval  = 1234
)

// FixtureSample returns sample k of trace i in the fixture.
func FixtureSample(i, k int) float32 {
	return float32(i*FixtureSamples+k) + 123.456
}

// Fixture returns a file of FixtureShots×FixtureReceivers traces. Shot i
// has FieldRecord 777+i, receiver j has GroupX 456789+1000·j, and every
// trace is numbered from 1 in both sequence fields.
func Fixture() Spec {
	n := FixtureShots * FixtureReceivers
	traces := make([][]float32, n)
	for i := range traces {
		traces[i] = make([]float32, FixtureSamples)
		for k := range traces[i] {
			traces[i][k] = FixtureSample(i, k)
		}
	}
	return Spec{
		Format:   segy.IEEEFloat32,
		Interval: FixtureInterval,
		Samples:  FixtureSamples,
		Text:     "C 1 CLIENT: segy2netcdf test data",
		Traces:   traces,
		Headers: func(i int) map[string]int32 {
			return map[string]int32{
				"TRACE_SEQUENCE_LINE":     int32(1 + i),
				"TRACE_SEQUENCE_FILE":     int32(1 + i),
				"FieldRecord":             int32(777 + i/FixtureReceivers),
				"TraceIdentificationCode": 1,
				"SourceGroupScalar":       -1000,
				"GroupX":                  int32(456789 + 1000*(i%FixtureReceivers)),
				"TRACE_SAMPLE_COUNT":      FixtureSamples,
				"TRACE_SAMPLE_INTERVAL":   FixtureInterval,
			}
		},
	}
}
