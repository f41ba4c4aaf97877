package convert

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
	"github.com/robert-malhotra/segy2netcdf/internal/grid"
	"github.com/robert-malhotra/segy2netcdf/internal/metrics"
)

// Engine copies a source into a target laid out on a grid.
type Engine struct {
	src      Source
	spec     grid.Spec
	index    *grid.IndexGrid
	compress bool
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCompression stores every variable compressed.
func WithCompression(on bool) EngineOption {
	return func(e *Engine) { e.compress = on }
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records copy progress in m.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine returns an engine for src on spec, which must have been built
// from src's trace and sample counts.
func NewEngine(src Source, spec grid.Spec, opts ...EngineOption) (*Engine, error) {
	index, err := spec.Index()
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindConfiguration, "index grid", err)
	}
	if index.Size() != src.TraceCount() || spec.SampleCount() != src.SampleCount() {
		return nil, cerrors.New(cerrors.KindConfiguration, "index grid",
			"grid %s does not match %d traces of %d samples", spec, src.TraceCount(), src.SampleCount())
	}
	e := &Engine{src: src, spec: spec, index: index, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Copy creates the grid's dimensions and vars in t, then fills each
// variable once.
func (e *Engine) Copy(t Target, vars []Variable) error {
	for i, name := range e.spec.Names {
		if err := t.CreateDimension(name, e.spec.Lens[i]); err != nil {
			return cerrors.Wrap(cerrors.KindTargetWrite, "create dimension "+name, err)
		}
	}
	for _, v := range vars {
		if err := t.CreateVariable(v.Name, v.Type, v.Dims, e.compress); err != nil {
			return cerrors.Wrap(cerrors.KindTargetWrite, "create variable "+v.Name, err)
		}
	}

	for _, v := range vars {
		data, n, err := e.fetch(v)
		if errors.Is(err, grid.ErrNoTraces) {
			e.log.Debug("no traces for variable, leaving it unwritten", zap.String("variable", v.Name))
			continue
		}
		if err != nil {
			return err
		}
		if err := t.WriteVariable(v.Name, data); err != nil {
			return cerrors.Wrap(cerrors.KindTargetWrite, "write variable "+v.Name, err)
		}
		e.metrics.VariableWritten(v.Kind.String(), int64(n*v.Type.Size()))
		e.log.Debug("variable written",
			zap.String("variable", v.Name),
			zap.Stringer("kind", v.Kind),
			zap.Int("elements", n))
	}
	return nil
}

// fetch reads the contents of v from the source.
func (e *Engine) fetch(v Variable) (data any, n int, err error) {
	switch v.Kind {
	case SampleData:
		samples, err := e.src.Traces()
		if err != nil {
			return nil, 0, cerrors.Wrap(cerrors.KindSourceFormat, "read traces", err)
		}
		if want := e.src.TraceCount() * e.src.SampleCount(); len(samples) != want {
			return nil, 0, cerrors.New(cerrors.KindSourceFormat, "read traces",
				"got %d samples, want %d", len(samples), want)
		}
		e.metrics.TracesRead(e.src.TraceCount())
		return samples, len(samples), nil

	case SampleCoordinate:
		coords := e.src.SampleCoordinates()
		return coords, len(coords), nil

	case PositionalCoordinate:
		n, ok := e.axisLen(v.Name)
		if !ok {
			return nil, 0, cerrors.New(cerrors.KindConfiguration, "select "+v.Name, "no such dimension")
		}
		if n > math.MaxInt32 {
			return nil, 0, cerrors.New(cerrors.KindConfiguration, "select "+v.Name,
				"dimension length %d exceeds int32 coordinates", n)
		}
		pos := make([]int32, n)
		for i := range pos {
			pos[i] = int32(i)
		}
		return pos, len(pos), nil

	case DimensionHeader, TraceHeader:
		ordinals, _, err := e.index.Select(v.Dims)
		if errors.Is(err, grid.ErrNoTraces) {
			return nil, 0, err
		}
		if err != nil {
			return nil, 0, cerrors.Wrap(cerrors.KindConfiguration, "select "+v.Name, err)
		}
		vals, err := e.src.HeaderValues(v.Field, ordinals)
		if err != nil {
			return nil, 0, cerrors.Wrap(cerrors.KindSourceFormat, "read header "+v.Field.String(), err)
		}
		return vals, len(vals), nil
	}
	return nil, 0, fmt.Errorf("variable %s: unknown kind %d", v.Name, int(v.Kind))
}

func (e *Engine) axisLen(name string) (int, bool) {
	for i, n := range e.spec.Names {
		if n == name {
			return e.spec.Lens[i], true
		}
	}
	return 0, false
}
