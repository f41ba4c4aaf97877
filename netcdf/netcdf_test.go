package netcdf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSample(t *testing.T, path string, opts ...VariableOption) {
	t.Helper()

	f, err := Create(path)
	require.NoError(t, err)

	for _, d := range []struct {
		name string
		n    int
	}{{"FieldRecord", 3}, {"Receiver", 4}, {"Time", 5}} {
		_, err := f.AddDimension(d.name, d.n)
		require.NoError(t, err)
	}

	samples, err := f.AddVariable("Samples", Float32, []string{"FieldRecord", "Receiver", "Time"}, opts...)
	require.NoError(t, err)
	data := make([]float32, 60)
	for i := range data {
		data[i] = float32(i) + 0.5
	}
	require.NoError(t, samples.Write(data))

	tm, err := f.AddVariable("Time", Float64, []string{"Time"}, WithAttribute("units", "us"))
	require.NoError(t, err)
	require.NoError(t, tm.Write([]float64{0, 1234, 2468, 3702, 4936}))

	fr, err := f.AddVariable("FieldRecord", Int32, []string{"FieldRecord"}, opts...)
	require.NoError(t, err)
	require.NoError(t, fr.Write([]int32{777, 778, 779}))

	gx, err := f.AddVariable("GroupX", Int32, []string{"FieldRecord", "Receiver"}, opts...)
	require.NoError(t, err)
	require.NoError(t, gx.Write([]int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}))

	require.NoError(t, f.SetAttribute("text", "C 1 CLIENT"))
	require.NoError(t, f.SetAttribute("bin", []byte{0, 1, 2, 255}))
	require.NoError(t, f.SetAttribute("ext_headers", []string{"one", "two"}))
	require.NoError(t, f.Close())
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []VariableOption
	}{
		{"contiguous", nil},
		{"deflate", []VariableOption{WithCompression(4)}},
		{"shuffle", []VariableOption{WithShuffle(), WithCompression(9)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.nc")
			createSample(t, path, tc.opts...)

			f, err := Open(path)
			require.NoError(t, err)
			defer f.Close()

			var dims []string
			for _, d := range f.Dimensions() {
				dims = append(dims, d.Name)
			}
			assert.Equal(t, []string{"FieldRecord", "Receiver", "Time"}, dims)

			var vars []string
			for _, v := range f.Variables() {
				vars = append(vars, v.Name())
			}
			assert.ElementsMatch(t, []string{"Samples", "Time", "FieldRecord", "GroupX"}, vars)

			samples, err := f.Variable("Samples")
			require.NoError(t, err)
			assert.Equal(t, []int{3, 4, 5}, samples.Shape())
			assert.Equal(t, Float32, samples.Type())
			assert.Equal(t, len(tc.opts) > 0, samples.Compressed())
			assert.Equal(t, tc.name == "shuffle", samples.Shuffled())
			got, err := samples.ReadFloat32()
			require.NoError(t, err)
			require.Len(t, got, 60)
			assert.Equal(t, float32(59.5), got[59])

			fr, err := f.Variable("FieldRecord")
			require.NoError(t, err)
			assert.True(t, fr.IsCoordinate())
			ints, err := fr.ReadInt32()
			require.NoError(t, err)
			if diff := cmp.Diff([]int32{777, 778, 779}, ints); diff != "" {
				t.Errorf("FieldRecord (-want +got):\n%s", diff)
			}

			gx, err := f.Variable("GroupX")
			require.NoError(t, err)
			assert.Equal(t, []string{"FieldRecord", "Receiver"}, gx.Dimensions())
			ints, err = gx.ReadInt32()
			require.NoError(t, err)
			assert.Equal(t, int32(12), ints[11])

			tm, err := f.Variable("Time")
			require.NoError(t, err)
			times, err := tm.ReadFloat64()
			require.NoError(t, err)
			assert.Equal(t, 4936.0, times[4])
			units, err := tm.Attribute("units")
			require.NoError(t, err)
			assert.Equal(t, "us", units.Value)
		})
	}
}

func TestDimensionWithoutCoordinate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")
	createSample(t, path)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	recv, err := f.Dimension("Receiver")
	require.NoError(t, err)
	assert.Equal(t, 4, recv.Len)
	assert.Equal(t, 1, recv.ID)
	assert.Nil(t, recv.Coordinate())

	_, err = f.Variable("Receiver")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGlobalAttributes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")
	createSample(t, path)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	attrs, err := f.Attributes()
	require.NoError(t, err)
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	assert.Equal(t, []string{AttrProperties, "text", "bin", "ext_headers"}, names)

	props, err := f.Attribute(AttrProperties)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(props.Value.(string), "version=2,"))

	bin, err := f.Attribute("bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 255}, bin.Value)

	ext, err := f.Attribute("ext_headers")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, ext.Value)

	samples, err := f.Variable("Samples")
	require.NoError(t, err)
	vattrs, err := samples.Attributes()
	require.NoError(t, err)
	assert.Empty(t, vattrs, "netCDF bookkeeping attributes should be hidden")
}

func TestUnwrittenVariableReadsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")
	f, err := Create(path)
	require.NoError(t, err)
	_, err = f.AddDimension("x", 3)
	require.NoError(t, err)
	_, err = f.AddVariable("v", Int32, []string{"x"}, WithCompression(4))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	v, err := r.Variable("v")
	require.NoError(t, err)
	got, err := v.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 0}, got)
	assert.Zero(t, v.StorageSize())
}

func TestZeroLengthDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")
	f, err := Create(path)
	require.NoError(t, err)
	_, err = f.AddDimension("SampleNumber", 0)
	require.NoError(t, err)
	v, err := f.AddVariable("Samples", Float32, []string{"SampleNumber"}, WithCompression(4))
	require.NoError(t, err)
	require.NoError(t, v.Write([]float32{}))
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	s, err := r.Variable("Samples")
	require.NoError(t, err)
	got, err := s.ReadFloat32()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteErrors(t *testing.T) {
	f, err := Create(filepath.Join(t.TempDir(), "out.nc"))
	require.NoError(t, err)
	defer f.Close()

	_, err = f.AddDimension("x", 2)
	require.NoError(t, err)
	_, err = f.AddDimension("x", 3)
	assert.ErrorIs(t, err, ErrExists)
	_, err = f.AddDimension("a/b", 3)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = f.AddVariable("v", Int32, []string{"missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := f.AddVariable("v", Int32, []string{"x"})
	require.NoError(t, err)
	assert.ErrorIs(t, v.Write([]int32{1}), ErrShape)
	assert.ErrorIs(t, v.Write([]float32{1, 2}), ErrType)
	require.NoError(t, v.Write([]int32{1, 2}))
	assert.ErrorIs(t, v.Write([]int32{1, 2}), ErrAlreadyWritten)

	_, err = f.AddVariable("x", Int32, []string{"x", "x"})
	assert.ErrorIs(t, err, ErrExists)

	assert.ErrorIs(t, f.SetAttribute("huge", strings.Repeat("x", 70000)), ErrAttributeTooLarge)
	assert.ErrorIs(t, f.SetAttribute(attrDimID, 1), ErrInvalidName)

	_, err = v.ReadInt32()
	assert.ErrorIs(t, err, ErrWriteOnly)
}

func TestOpenNotNetCDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a netcdf file at all"), 0o644))
	_, err := Open(path)
	assert.ErrorIs(t, err, ErrNotNetCDF)
}

func TestSuperblockSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")
	createSample(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89HDF\r\n\x1a\n", string(data[:8]))
}

func TestShuffleWithoutCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")
	createSample(t, path, WithShuffle())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.Variable("Samples")
	require.NoError(t, err)
	assert.False(t, v.Compressed())
	assert.False(t, v.Shuffled())
}

func TestAlignment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aligned.nc")
	f, err := Create(path, WithAlignment(4096), WithLogger(nil))
	require.NoError(t, err)
	_, err = f.AddDimension("x", 3)
	require.NoError(t, err)
	v, err := f.AddVariable("v", Int32, []string{"x"})
	require.NoError(t, err)
	require.NoError(t, v.Write([]int32{7, 8, 9}))
	require.NoError(t, f.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, info.Size(), int64(4096))

	f, err = Open(path)
	require.NoError(t, err)
	defer f.Close()
	v, err = f.Variable("v")
	require.NoError(t, err)
	got, err := v.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, []int32{7, 8, 9}, got)
}
