// Package convert plans and performs the conversion of a SEG-Y file into a
// NetCDF-4 grid.
package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/robert-malhotra/segy2netcdf/internal/config"
	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
	"github.com/robert-malhotra/segy2netcdf/internal/fields"
	"github.com/robert-malhotra/segy2netcdf/internal/grid"
	"github.com/robert-malhotra/segy2netcdf/internal/metrics"
	"github.com/robert-malhotra/segy2netcdf/internal/segy"
	"github.com/robert-malhotra/segy2netcdf/netcdf"
)

// Root attributes written from the source headers.
const (
	AttrText         = "text"
	AttrBinary       = "bin"
	AttrExtHeaders   = "ext_headers"
	AttrHistory      = "history"
	AttrConversionID = "conversion_id"
	AttrSource       = "source"
)

// Options configures Run.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// OnUnknownField receives the error for each requested header field
	// that has no definition. Returning a non-nil error aborts the run. When
	// nil, unknown fields are logged and skipped unless Strict is set.
	OnUnknownField func(err error) error
	// Strict makes unknown fields fatal. It is implied by
	// config.StrictFields.
	Strict bool
}

// Report summarizes a finished conversion.
type Report struct {
	ConversionID string
	Source       string
	Target       string
	Grid         grid.Spec
	Traces       int
	Samples      int
	Variables    []string
	Skipped      []string
	Compressed   bool
	Duration     time.Duration
}

// Run converts cfg.Source into cfg.Target. The grid is validated before the
// target is created, so configuration errors leave no output file; a
// failure while copying may leave a partial one.
func Run(cfg *config.Config, opts Options) (report *Report, err error) {
	start := time.Now()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	endian, err := segy.ParseEndian(cfg.Endian)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindConfiguration, "parse endian", err)
	}

	src, err := segy.Open(cfg.Source, segy.WithEndian(endian), segy.WithLogger(log))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindSourceFormat, "open source", err)
	}
	defer func() { err = multierr.Append(err, src.Close()) }()

	spec, err := grid.Build(cfg.Dims, cfg.SampleName(), src.SampleCount(), src.TraceCount())
	if err != nil {
		return nil, err
	}
	log.Info("grid resolved",
		zap.Stringer("grid", spec),
		zap.Int("traces", src.TraceCount()),
		zap.Int("samples", src.SampleCount()))

	vars, skipped, err := Plan(spec, fields.Default(), cfg.Fields)
	if err != nil {
		return nil, err
	}
	strict := opts.Strict || cfg.StrictFields
	for _, name := range skipped {
		signal := cerrors.New(cerrors.KindUnknownField, "plan", "unknown trace header field %q", name)
		opts.Metrics.FieldSkipped()
		if opts.OnUnknownField != nil {
			if err := opts.OnUnknownField(signal); err != nil {
				if !cerrors.IsFatal(err) {
					err = cerrors.Wrap(cerrors.KindConfiguration, "unknown field", err)
				}
				return nil, err
			}
			continue
		}
		if strict {
			return nil, cerrors.Wrap(cerrors.KindConfiguration, "strict fields", signal)
		}
		log.Warn("skipping unknown trace header field", zap.String("field", name))
	}

	engine, err := NewEngine(src, spec,
		WithCompression(cfg.Compress), WithLogger(log), WithMetrics(opts.Metrics))
	if err != nil {
		return nil, err
	}

	nc, err := netcdf.Create(cfg.Target, netcdf.WithLogger(log))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindTargetWrite, "create target", err)
	}
	closed := false
	defer func() {
		if !closed {
			err = multierr.Append(err, nc.Close())
		}
	}()

	id := uuid.NewString()
	target := &NetCDFTarget{File: nc, Level: cfg.CompressionLevel, Shuffle: cfg.Shuffle}
	if err := writeAttributes(target, src, cfg.Source, id, log); err != nil {
		return nil, err
	}
	if err := engine.Copy(target, vars); err != nil {
		return nil, err
	}
	closed = true
	if err := nc.Close(); err != nil {
		return nil, cerrors.Wrap(cerrors.KindTargetWrite, "close target", err)
	}

	report = &Report{
		ConversionID: id,
		Source:       cfg.Source,
		Target:       cfg.Target,
		Grid:         spec,
		Traces:       src.TraceCount(),
		Samples:      src.SampleCount(),
		Skipped:      skipped,
		Compressed:   cfg.Compress,
		Duration:     time.Since(start),
	}
	for _, v := range vars {
		report.Variables = append(report.Variables, v.Name)
	}
	opts.Metrics.ObserveDuration(report.Duration)
	log.Info("conversion finished",
		zap.String("target", cfg.Target),
		zap.Int("variables", len(vars)),
		zap.Int("skipped_fields", len(skipped)),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// writeAttributes stores the source's file headers and provenance as root
// attributes.
func writeAttributes(t Target, src Source, sourcePath, id string, log *zap.Logger) error {
	set := func(name string, value any) error {
		if err := t.SetAttribute(name, value); err != nil {
			return cerrors.Wrap(cerrors.KindTargetWrite, "set attribute "+name, err)
		}
		return nil
	}

	if err := set(AttrText, segy.DecodeText(src.TextHeader())); err != nil {
		return err
	}
	if err := set(AttrBinary, src.BinaryHeader()); err != nil {
		return err
	}
	if ext := src.ExtendedTextHeaders(); len(ext) > 0 {
		texts := make([]string, len(ext))
		for i, b := range ext {
			texts[i] = segy.DecodeText(b)
		}
		err := t.SetAttribute(AttrExtHeaders, texts)
		if errors.Is(err, netcdf.ErrAttributeTooLarge) {
			log.Warn("extended textual headers too large for an attribute, dropping them",
				zap.Int("headers", len(ext)))
		} else if err != nil {
			return cerrors.Wrap(cerrors.KindTargetWrite, "set attribute "+AttrExtHeaders, err)
		}
	}

	history := fmt.Sprintf("%s segy2netcdf %s: converted from %s",
		time.Now().UTC().Format(time.RFC3339), netcdf.Version, filepath.Base(sourcePath))
	if err := set(AttrHistory, history); err != nil {
		return err
	}
	if err := set(AttrConversionID, id); err != nil {
		return err
	}
	return set(AttrSource, filepath.Base(sourcePath))
}
