package segy_test

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/segy2netcdf/internal/fields"
	"github.com/robert-malhotra/segy2netcdf/internal/segy"
	"github.com/robert-malhotra/segy2netcdf/internal/segy/segytest"
)

func field(t *testing.T, name string) fields.Field {
	t.Helper()
	f, ok := fields.Default().Lookup(name)
	require.True(t, ok, name)
	return f
}

func openBytes(t *testing.T, b []byte, opts ...segy.Option) *segy.File {
	t.Helper()
	f, err := segy.NewReader(bytes.NewReader(b), int64(len(b)), opts...)
	require.NoError(t, err)
	return f
}

func fixtureBytes(t *testing.T, edit func(*segytest.Spec)) []byte {
	t.Helper()
	s := segytest.Fixture()
	if edit != nil {
		edit(&s)
	}
	b, err := segytest.Bytes(s)
	require.NoError(t, err)
	return b
}

func TestOpenFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.sgy")
	require.NoError(t, segytest.Write(path, segytest.Fixture()))

	f, err := segy.Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 20, f.SampleCount())
	assert.Equal(t, 30, f.TraceCount())
	assert.Equal(t, 1234, f.Interval())
	assert.Equal(t, segy.IEEEFloat32, f.Format())
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), f.ByteOrder())
	assert.Len(t, f.TextHeader(), segy.TextHeaderSize)
	assert.Len(t, f.BinaryHeader(), segy.BinaryHeaderSize)
	assert.Empty(t, f.ExtendedTextHeaders())
	assert.True(t, segy.IsEBCDIC(f.TextHeader()))
	assert.Contains(t, f.Text(), "C 1 CLIENT: segy2netcdf test data")

	coords := f.SampleCoordinates()
	require.Len(t, coords, 20)
	for k, c := range coords {
		assert.Equal(t, float64(k)*1234, c)
	}

	samples, err := f.Traces()
	require.NoError(t, err)
	require.Len(t, samples, 30*20)
	for i := 0; i < 30; i++ {
		for k := 0; k < 20; k++ {
			assert.Equal(t, segytest.FixtureSample(i, k), samples[i*20+k])
		}
	}

	tr, err := f.Trace(7)
	require.NoError(t, err)
	assert.Equal(t, samples[7*20:8*20], tr)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestHeaderValues(t *testing.T) {
	f := openBytes(t, fixtureBytes(t, nil))

	seq, err := f.HeaderValues(field(t, "TRACE_SEQUENCE_FILE"), nil)
	require.NoError(t, err)
	want := make([]int32, 30)
	for i := range want {
		want[i] = int32(i + 1)
	}
	if diff := cmp.Diff(want, seq); diff != "" {
		t.Errorf("TRACE_SEQUENCE_FILE mismatch (-want +got):\n%s", diff)
	}

	rec, err := f.HeaderValues(field(t, "FieldRecord"), []int{0, 10, 20})
	require.NoError(t, err)
	assert.Equal(t, []int32{777, 778, 779}, rec)

	scalar, err := f.HeaderValues(field(t, "SourceGroupScalar"), []int{29, 0})
	require.NoError(t, err)
	assert.Equal(t, []int32{-1000, -1000}, scalar)

	empty, err := f.HeaderValues(field(t, "GroupX"), []int{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.HeaderValues(field(t, "GroupX"), []int{30})
	assert.ErrorIs(t, err, segy.ErrOutOfRange)

	h, err := f.TraceHeader(3)
	require.NoError(t, err)
	assert.Equal(t, int32(459789), field(t, "GroupX").Decode(h, binary.BigEndian))

	_, err = f.TraceHeader(-1)
	assert.ErrorIs(t, err, segy.ErrOutOfRange)
}

func TestLittleEndianDetected(t *testing.T) {
	b := fixtureBytes(t, func(s *segytest.Spec) { s.Order = binary.LittleEndian })
	f := openBytes(t, b)
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), f.ByteOrder())
	assert.Equal(t, 20, f.SampleCount())

	rec, err := f.HeaderValues(field(t, "FieldRecord"), []int{0, 29})
	require.NoError(t, err)
	assert.Equal(t, []int32{777, 779}, rec)

	tr, err := f.Trace(1)
	require.NoError(t, err)
	assert.Equal(t, segytest.FixtureSample(1, 0), tr[0])
}

func TestForcedEndian(t *testing.T) {
	b := fixtureBytes(t, func(s *segytest.Spec) { s.Order = binary.LittleEndian })
	f := openBytes(t, b, segy.WithEndian(segy.EndianLittle), segy.WithLogger(nil))
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), f.ByteOrder())

	_, err := segy.NewReader(bytes.NewReader(b), int64(len(b)), segy.WithEndian(segy.EndianBig))
	assert.ErrorIs(t, err, segy.ErrUnsupportedFormat)
}

func TestSampleFormats(t *testing.T) {
	for _, format := range []segy.Format{segy.IBMFloat32, segy.Int32, segy.Int16, segy.Int8, segy.IEEEFloat32} {
		t.Run(format.String(), func(t *testing.T) {
			values := []float32{0, 1, -2, 64, -118, 100}
			b, err := segytest.Bytes(segytest.Spec{
				Format:   format,
				Samples:  len(values),
				Interval: 4000,
				Traces:   [][]float32{values, values},
			})
			require.NoError(t, err)
			f := openBytes(t, b)
			assert.Equal(t, format, f.Format())
			got, err := f.Traces()
			require.NoError(t, err)
			assert.Equal(t, append(append([]float32{}, values...), values...), got)
		})
	}
}

func TestIBMConversion(t *testing.T) {
	assert.Equal(t, uint32(0xC276A000), segy.Float32ToIBM(-118.625))
	assert.Equal(t, float32(-118.625), segy.IBMToFloat32(0xC276A000))
	assert.Equal(t, uint32(0x41100000), segy.Float32ToIBM(1))
	assert.Equal(t, uint32(0), segy.Float32ToIBM(0))
	assert.Equal(t, float32(0), segy.IBMToFloat32(0x80000000))
	for _, v := range []float32{0.5, 0.0625, 3.25, -1e-3, 123456, 1e20} {
		got := segy.IBMToFloat32(segy.Float32ToIBM(v))
		assert.InEpsilon(t, v, got, 1e-5, "value %g", v)
	}
}

func TestFallbackToTraceHeader(t *testing.T) {
	b := fixtureBytes(t, nil)
	// Clear interval and sample count in the binary header.
	copy(b[3216:3218], []byte{0, 0})
	copy(b[3220:3222], []byte{0, 0})
	f := openBytes(t, b)
	assert.Equal(t, 20, f.SampleCount())
	assert.Equal(t, 1234, f.Interval())
	assert.Equal(t, 30, f.TraceCount())
}

func TestDelayShiftsCoordinates(t *testing.T) {
	b := fixtureBytes(t, func(s *segytest.Spec) {
		base := s.Headers
		s.Headers = func(i int) map[string]int32 {
			h := base(i)
			h["DelayRecordingTime"] = 2
			return h
		}
	})
	f := openBytes(t, b)
	coords := f.SampleCoordinates()
	assert.Equal(t, 2000.0, coords[0])
	assert.Equal(t, 2000.0+1234, coords[1])
}

func TestExtendedHeaders(t *testing.T) {
	b := fixtureBytes(t, func(s *segytest.Spec) {
		s.Extended = []string{"C41 first extension", "C81 second"}
	})
	f := openBytes(t, b)
	require.Len(t, f.ExtendedTextHeaders(), 2)
	assert.Contains(t, segy.DecodeText(f.ExtendedTextHeaders()[1]), "C81 second")
	assert.Equal(t, 30, f.TraceCount())
	tr, err := f.Trace(29)
	require.NoError(t, err)
	assert.Equal(t, segytest.FixtureSample(29, 19), tr[19])
}

func TestExtendedHeadersUntilEndText(t *testing.T) {
	b := fixtureBytes(t, func(s *segytest.Spec) {
		s.Extended = []string{"one", "((EndText))"}
	})
	copy(b[3504:3506], []byte{0xff, 0xff})
	f := openBytes(t, b)
	assert.Len(t, f.ExtendedTextHeaders(), 2)
	assert.Equal(t, 30, f.TraceCount())
}

func TestTruncated(t *testing.T) {
	b := fixtureBytes(t, func(s *segytest.Spec) { s.Trailing = 7 })
	_, err := segy.NewReader(bytes.NewReader(b), int64(len(b)))
	assert.ErrorIs(t, err, segy.ErrTruncated)
}

func TestNotSEGY(t *testing.T) {
	b := []byte("short")
	_, err := segy.NewReader(bytes.NewReader(b), int64(len(b)))
	assert.ErrorIs(t, err, segy.ErrNotSEGY)

	_, err = segy.Open(filepath.Join(t.TempDir(), "missing.sgy"))
	assert.Error(t, err)
}

func TestUnsupportedFormat(t *testing.T) {
	b := fixtureBytes(t, nil)
	copy(b[3224:3226], []byte{0, 4})
	_, err := segy.NewReader(bytes.NewReader(b), int64(len(b)))
	assert.ErrorIs(t, err, segy.ErrUnsupportedFormat)
}

func TestNoTraces(t *testing.T) {
	b := fixtureBytes(t, func(s *segytest.Spec) { s.Traces = nil })
	f := openBytes(t, b)
	assert.Equal(t, 0, f.TraceCount())
	samples, err := f.Traces()
	require.NoError(t, err)
	assert.Empty(t, samples)
	vals, err := f.HeaderValues(field(t, "FieldRecord"), nil)
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestParseEndian(t *testing.T) {
	for in, want := range map[string]segy.Endian{"": segy.EndianAuto, "auto": segy.EndianAuto, "big": segy.EndianBig, "LITTLE": segy.EndianLittle} {
		got, err := segy.ParseEndian(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := segy.ParseEndian("middle")
	assert.Error(t, err)
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "HELLO WORLD", segy.DecodeText(segy.EncodeEBCDIC("HELLO WORLD")))
	assert.Equal(t, "C 1 plain", segy.DecodeText([]byte("C 1 plain\x00\x00")))
}
