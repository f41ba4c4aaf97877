package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
)

func TestResolve(t *testing.T) {
	names, lens := Resolve([]Axis{{"A", 3}, {"B", 10}}, "Time", 20)
	assert.Equal(t, []string{"A", "B", "Time"}, names)
	assert.Equal(t, []int{3, 10, 20}, lens)

	names, lens = Resolve(nil, "", 7)
	assert.Equal(t, []string{DefaultSampleName}, names)
	assert.Equal(t, []int{7}, lens)
}

func TestCountTraces(t *testing.T) {
	assert.Equal(t, 1, CountTraces(nil))
	assert.Equal(t, 30, CountTraces([]Axis{{"A", 3}, {"B", 10}}))
	assert.Equal(t, 0, CountTraces([]Axis{{"A", 3}, {"B", 0}}))
}

func TestValidate(t *testing.T) {
	for _, c := range [][2]int{{30, 30}, {15, 30}, {1, 30}, {0, 0}} {
		assert.NoError(t, Validate(c[0], c[1]), "%v", c)
	}
	for _, c := range [][2]int{{16, 30}, {31, 30}, {-1, 30}, {0, 30}} {
		err := Validate(c[0], c[1])
		require.Error(t, err, "%v", c)
		assert.True(t, cerrors.IsConfiguration(err), "%v", c)

		var ce *CountError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, c[0], ce.Implied)
		assert.Equal(t, c[1], ce.Actual)
	}
}

func TestFillMissing(t *testing.T) {
	tests := []struct {
		name          string
		dims, ntraces int
		names         []string
		lens          []int
		wantNames     []string
		wantLens      []int
	}{
		{"complete", 30, 30, []string{"A", "B", "T"}, []int{3, 10, 20}, []string{"A", "B", "T"}, []int{3, 10, 20}},
		{"half", 15, 30, []string{"A", "B", "T"}, []int{3, 5, 20}, []string{TracesName, "A", "B", "T"}, []int{2, 3, 5, 20}},
		{"no axes", 1, 30, []string{"T"}, []int{20}, []string{TracesName, "T"}, []int{30, 20}},
		{"empty", 0, 0, []string{"T"}, []int{0}, []string{"T"}, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inNames := append([]string(nil), tt.names...)
			names, lens := FillMissing(tt.dims, tt.ntraces, tt.names, tt.lens)
			if diff := cmp.Diff(tt.wantNames, names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantLens, lens); diff != "" {
				t.Errorf("lens mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, inNames, tt.names, "input modified")
		})
	}
}

func TestBuild(t *testing.T) {
	s, err := Build([]Axis{{"FieldRecord", 3}, {"ReceiverID", 5}}, "Time", 20, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{TracesName, "FieldRecord", "ReceiverID", "Time"}, s.Names)
	assert.Equal(t, []int{2, 3, 5, 20}, s.Lens)
	assert.Equal(t, "Time", s.SampleName())
	assert.Equal(t, 20, s.SampleCount())
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "Traces(2) x FieldRecord(3) x ReceiverID(5) x Time(20)", s.String())

	names, lens := s.TraceAxes()
	assert.Equal(t, []string{TracesName, "FieldRecord", "ReceiverID"}, names)
	assert.Equal(t, []int{2, 3, 5}, lens)

	g, err := s.Index()
	require.NoError(t, err)
	assert.Equal(t, 30, g.Size())
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		user []Axis
		ns   int
		n    int
	}{
		{"over-specified", []Axis{{"A", 31}}, 20, 30},
		{"non-divisible", []Axis{{"A", 4}}, 20, 30},
		{"negative pair", []Axis{{"A", -1}, {"B", -30}}, 20, 30},
		{"duplicate", []Axis{{"A", 3}, {"A", 10}}, 20, 30},
		{"clash with sample axis", []Axis{{"Time", 30}}, 20, 30},
		{"clash with traces axis", []Axis{{TracesName, 15}}, 20, 30},
		{"empty name", []Axis{{"", 30}}, 20, 30},
		{"no axes, no traces", nil, 20, 0},
		{"product wraps to trace count", []Axis{{"A", 1<<61 + 1}, {"B", 1<<62 + 30}}, 20, 30},
		{"product overflows", []Axis{{"A", math.MaxInt}, {"B", 2}}, 20, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.user, "Time", tt.ns, tt.n)
			require.Error(t, err)
			assert.True(t, cerrors.IsConfiguration(err), err.Error())
		})
	}
}

func TestSelect(t *testing.T) {
	g, err := NewIndexGrid([]string{"A", "B"}, []int{3, 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, g.Names())
	assert.Equal(t, []int{3, 10}, g.Shape())

	ords, shape, err := g.Select([]string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20}, ords)
	assert.Equal(t, []int{3}, shape)

	ords, shape, err = g.Select([]string{"B"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ords)
	assert.Equal(t, []int{10}, shape)

	ords, shape, err = g.Select([]string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 10}, shape)
	for i, o := range ords {
		assert.Equal(t, i, o)
	}

	ords, shape, err = g.Select([]string{"B", "A"})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 3}, shape)
	assert.Equal(t, []int{0, 10, 20, 1, 11, 21}, ords[:6])

	ords, shape, err = g.Select(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ords)
	assert.Empty(t, shape)

	_, _, err = g.Select([]string{"C"})
	assert.Error(t, err)
	_, _, err = g.Select([]string{"A", "A"})
	assert.Error(t, err)
}

func TestSelectEveryOrdinalOnce(t *testing.T) {
	g, err := NewIndexGrid([]string{TracesName, "A", "B"}, []int{2, 3, 5})
	require.NoError(t, err)
	ords, _, err := g.Select([]string{TracesName, "A", "B"})
	require.NoError(t, err)
	seen := make(map[int]bool)
	for _, o := range ords {
		assert.False(t, seen[o], "ordinal %d repeated", o)
		seen[o] = true
	}
	assert.Len(t, seen, 30)

	ords, _, err = g.Select([]string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5, 10}, ords)
}

func TestSelectEmptyGrid(t *testing.T) {
	g, err := NewIndexGrid([]string{"A", "B"}, []int{0, 5})
	require.NoError(t, err)
	assert.Equal(t, 0, g.Size())

	ords, shape, err := g.Select([]string{"A"})
	require.NoError(t, err)
	assert.Empty(t, ords)
	assert.Equal(t, []int{0}, shape)

	_, _, err = g.Select([]string{"B"})
	assert.ErrorIs(t, err, ErrNoTraces)
}

func TestNewIndexGridErrors(t *testing.T) {
	_, err := NewIndexGrid([]string{"A"}, []int{1, 2})
	assert.Error(t, err)
	_, err = NewIndexGrid([]string{"A", "A"}, []int{1, 2})
	assert.Error(t, err)
	_, err = NewIndexGrid([]string{"A"}, []int{-1})
	assert.Error(t, err)
	_, err = NewIndexGrid([]string{"A", "B"}, []int{1<<61 + 1, 1<<62 + 30})
	assert.Error(t, err)

	g, err := NewIndexGrid([]string{"A", "B", "C"}, []int{0, 1 << 62, 4})
	require.NoError(t, err)
	assert.Equal(t, 0, g.Size())
}

func TestCountTracesOverflow(t *testing.T) {
	tests := []struct {
		name string
		user []Axis
		want int
	}{
		{"near limit", []Axis{{"A", math.MaxInt / 3}, {"B", 3}}, math.MaxInt / 3 * 3},
		{"wrapping product", []Axis{{"A", 1<<61 + 1}, {"B", 1<<62 + 30}}, math.MaxInt},
		{"negative overflow", []Axis{{"A", -math.MaxInt}, {"B", 2}}, -math.MaxInt},
		{"zero after overflow", []Axis{{"A", math.MaxInt}, {"B", 2}, {"C", 0}}, 0},
		{"negative pair", []Axis{{"A", -1}, {"B", -30}}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountTraces(tt.user))
		})
	}

	err := Validate(CountTraces([]Axis{{"A", 1<<61 + 1}, {"B", 1<<62 + 30}}), 30)
	require.Error(t, err)
	var ce *CountError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, math.MaxInt, ce.Implied)
	assert.Equal(t, 30, ce.Actual)
	assert.Contains(t, err.Error(), "more than")
}
