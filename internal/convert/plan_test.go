package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
	"github.com/robert-malhotra/segy2netcdf/internal/fields"
	"github.com/robert-malhotra/segy2netcdf/internal/grid"
	"github.com/robert-malhotra/segy2netcdf/netcdf"
)

func fixtureGrid(t *testing.T) grid.Spec {
	t.Helper()
	spec, err := grid.Build([]grid.Axis{{Name: "FieldRecord", Length: 3}, {Name: "ReceiverID", Length: 10}}, "Time", 20, 30)
	require.NoError(t, err)
	return spec
}

func byName(vars []Variable) map[string]Variable {
	m := make(map[string]Variable, len(vars))
	for _, v := range vars {
		m[v.Name] = v
	}
	return m
}

func TestPlanAllFields(t *testing.T) {
	reg := fields.Default()
	vars, skipped, err := Plan(fixtureGrid(t), reg, nil)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	// Samples, Time, FieldRecord, ReceiverID, then every field except the
	// one used as an axis.
	require.Len(t, vars, 4+reg.Len()-1)
	assert.Equal(t, Variable{Name: "Samples", Kind: SampleData, Type: netcdf.Float32, Dims: []string{"FieldRecord", "ReceiverID", "Time"}}, vars[0])
	assert.Equal(t, Variable{Name: "Time", Kind: SampleCoordinate, Type: netcdf.Float64, Dims: []string{"Time"}}, vars[1])

	fr := vars[2]
	assert.Equal(t, "FieldRecord", fr.Name)
	assert.Equal(t, DimensionHeader, fr.Kind)
	assert.Equal(t, 9, fr.Field.Offset)
	assert.Equal(t, []string{"FieldRecord"}, fr.Dims)

	assert.Equal(t, Variable{Name: "ReceiverID", Kind: PositionalCoordinate, Type: netcdf.Int32, Dims: []string{"ReceiverID"}}, vars[3])

	m := byName(vars)
	gx := m["GroupX"]
	assert.Equal(t, TraceHeader, gx.Kind)
	assert.Equal(t, netcdf.Int32, gx.Type)
	assert.Equal(t, []string{"FieldRecord", "ReceiverID"}, gx.Dims)
	assert.Equal(t, 81, gx.Field.Offset)
	assert.Contains(t, m, "TRACE_SEQUENCE_FILE")
	assert.Contains(t, m, "SourceGroupScalar")
}

func TestPlanCandidates(t *testing.T) {
	vars, skipped, err := Plan(fixtureGrid(t), fields.Default(),
		[]string{"GroupX", "NotAField", "FieldRecord", "GroupX", "Time", "Bogus"})
	require.NoError(t, err)
	assert.Equal(t, []string{"NotAField", "Bogus"}, skipped)

	var names []string
	for _, v := range vars {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"Samples", "Time", "FieldRecord", "ReceiverID", "GroupX"}, names)
}

func TestPlanTracesAxis(t *testing.T) {
	spec, err := grid.Build(nil, "", 20, 30)
	require.NoError(t, err)
	vars, _, err := Plan(spec, fields.Default(), []string{"CDP"})
	require.NoError(t, err)
	m := byName(vars)
	assert.Equal(t, PositionalCoordinate, m[grid.TracesName].Kind)
	assert.Equal(t, []string{grid.TracesName, grid.DefaultSampleName}, m[SamplesName].Dims)
	assert.Equal(t, []string{grid.TracesName}, m["CDP"].Dims)
	assert.Equal(t, SampleCoordinate, m[grid.DefaultSampleName].Kind)
}

func TestPlanReservedName(t *testing.T) {
	spec, err := grid.Build([]grid.Axis{{Name: SamplesName, Length: 30}}, "Time", 20, 30)
	require.NoError(t, err)
	_, _, err = Plan(spec, fields.Default(), nil)
	assert.True(t, cerrors.IsConfiguration(err))

	_, _, err = Plan(grid.Spec{}, fields.Default(), nil)
	assert.True(t, cerrors.IsConfiguration(err))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "sample_data", SampleData.String())
	assert.Equal(t, "positional_coordinate", PositionalCoordinate.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.Equal(t, "int GroupX[A B] (trace_header)", Variable{Name: "GroupX", Kind: TraceHeader, Type: netcdf.Int32, Dims: []string{"A", "B"}}.String())
}
