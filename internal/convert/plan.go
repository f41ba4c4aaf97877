package convert

import (
	"fmt"

	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
	"github.com/robert-malhotra/segy2netcdf/internal/fields"
	"github.com/robert-malhotra/segy2netcdf/internal/grid"
	"github.com/robert-malhotra/segy2netcdf/netcdf"
)

// SamplesName is the variable holding the trace samples.
const SamplesName = "Samples"

// Kind is the role of an output variable.
type Kind int

const (
	// SampleData is the samples of every trace over all axes.
	SampleData Kind = iota
	// SampleCoordinate is the time or depth of each sample.
	SampleCoordinate
	// DimensionHeader is the coordinate of an axis named after a header
	// field, read from the first trace along that axis.
	DimensionHeader
	// TraceHeader is a header field of every trace over the trace axes.
	TraceHeader
	// PositionalCoordinate numbers an axis that is not a header field
	// from 0.
	PositionalCoordinate
)

func (k Kind) String() string {
	switch k {
	case SampleData:
		return "sample_data"
	case SampleCoordinate:
		return "sample_coordinate"
	case DimensionHeader:
		return "dimension_header"
	case TraceHeader:
		return "trace_header"
	case PositionalCoordinate:
		return "positional_coordinate"
	default:
		return "unknown"
	}
}

// Variable is an output variable to create and fill.
type Variable struct {
	Name  string
	Kind  Kind
	Type  netcdf.Type
	Dims  []string
	Field fields.Field // for DimensionHeader and TraceHeader
}

func (v Variable) String() string {
	return fmt.Sprintf("%s %s%v (%s)", v.Type, v.Name, v.Dims, v.Kind)
}

// Plan lists the variables for spec: the samples, the sample coordinate, a
// coordinate per trace axis and one variable per candidate header field.
// An empty candidate list means every field in reg. Candidates that name
// an axis are covered by its coordinate; unknown names are returned in
// skipped, in order.
func Plan(spec grid.Spec, reg *fields.Registry, candidates []string) (vars []Variable, skipped []string, err error) {
	if spec.Len() == 0 {
		return nil, nil, cerrors.New(cerrors.KindConfiguration, "plan", "grid has no sample axis")
	}
	axisNames, _ := spec.TraceAxes()
	sample := spec.SampleName()
	for _, n := range spec.Names {
		if n == SamplesName {
			return nil, nil, cerrors.New(cerrors.KindConfiguration, "plan",
				"dimension name %q is reserved for the sample data", n)
		}
	}

	vars = append(vars,
		Variable{Name: SamplesName, Kind: SampleData, Type: netcdf.Float32, Dims: append([]string(nil), spec.Names...)},
		Variable{Name: sample, Kind: SampleCoordinate, Type: netcdf.Float64, Dims: []string{sample}},
	)
	isAxis := map[string]bool{sample: true, SamplesName: true}
	for _, n := range axisNames {
		isAxis[n] = true
		if f, ok := reg.Lookup(n); ok {
			vars = append(vars, Variable{Name: n, Kind: DimensionHeader, Type: netcdf.Int32, Dims: []string{n}, Field: f})
		} else {
			vars = append(vars, Variable{Name: n, Kind: PositionalCoordinate, Type: netcdf.Int32, Dims: []string{n}})
		}
	}

	if len(candidates) == 0 {
		candidates = reg.Names()
	}
	seen := make(map[string]bool, len(candidates))
	for _, name := range candidates {
		if seen[name] || isAxis[name] {
			continue
		}
		seen[name] = true
		f, ok := reg.Lookup(name)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		vars = append(vars, Variable{
			Name:  name,
			Kind:  TraceHeader,
			Type:  netcdf.Int32,
			Dims:  append([]string(nil), axisNames...),
			Field: f,
		})
	}
	return vars, skipped, nil
}
