package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robert-malhotra/segy2netcdf/internal/config"
	"github.com/robert-malhotra/segy2netcdf/internal/convert"
	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
	"github.com/robert-malhotra/segy2netcdf/internal/filter"
	"github.com/robert-malhotra/segy2netcdf/internal/grid"
	"github.com/robert-malhotra/segy2netcdf/internal/metrics"
)

func (c *cli) convertFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("samples-dim-name", "s", grid.DefaultSampleName, "name of the trace samples dimension, usually Time or Depth")
	f.StringArrayP("dim", "d", nil, "dimension NAME=LENGTH, slowest first; repeatable")
	f.Bool("compress", false, "store variables deflate compressed")
	f.Bool("no-compress", false, "store variables uncompressed")
	f.Int("compression-level", filter.DefaultLevel, "deflate level, 1 to 9")
	f.Bool("shuffle", true, "byte shuffle compressed variables before deflate")
	f.StringSlice("fields", nil, "trace header fields to copy (default all)")
	f.Bool("strict-fields", false, "fail on unknown trace header field names")
	f.String("metrics-file", "", "write Prometheus metrics to this textfile")
	f.String("endian", "", "byte order of the SEG-Y file: auto, big or little")
}

// applyFlags overrides configuration values with the flags that were set.
func applyFlags(cmd *cobra.Command, args []string, cfg *config.Config) error {
	f := cmd.Flags()
	switch len(args) {
	case 2:
		cfg.Source, cfg.Target = args[0], args[1]
	case 1:
		return cerrors.New(cerrors.KindConfiguration, "arguments", "missing TARGET after SOURCE %q", args[0])
	}

	if f.Changed("samples-dim-name") {
		cfg.SamplesDimName, _ = f.GetString("samples-dim-name")
	}
	if f.Changed("dim") {
		dims, _ := f.GetStringArray("dim")
		cfg.Dims = cfg.Dims[:0:0]
		for _, d := range dims {
			axis, err := config.ParseDim(d)
			if err != nil {
				return err
			}
			cfg.Dims = append(cfg.Dims, axis)
		}
	}
	if f.Changed("compress") && f.Changed("no-compress") {
		return cerrors.New(cerrors.KindConfiguration, "flags", "--compress and --no-compress are exclusive")
	}
	if f.Changed("compress") {
		cfg.Compress, _ = f.GetBool("compress")
	}
	if f.Changed("no-compress") {
		off, _ := f.GetBool("no-compress")
		cfg.Compress = !off
	}
	if f.Changed("compression-level") {
		cfg.CompressionLevel, _ = f.GetInt("compression-level")
	}
	if f.Changed("shuffle") {
		cfg.Shuffle, _ = f.GetBool("shuffle")
	}
	if f.Changed("fields") {
		cfg.Fields, _ = f.GetStringSlice("fields")
	}
	if f.Changed("strict-fields") {
		cfg.StrictFields, _ = f.GetBool("strict-fields")
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile, _ = f.GetString("metrics-file")
	}
	if f.Changed("endian") {
		cfg.Endian, _ = f.GetString("endian")
	}
	return nil
}

func (c *cli) runConvert(cmd *cobra.Command, args []string) error {
	if err := applyFlags(cmd, args, c.cfg); err != nil {
		return err
	}

	var m *metrics.Metrics
	if c.cfg.MetricsFile != "" {
		m = metrics.New()
	}
	report, err := convert.Run(c.cfg, convert.Options{Logger: c.logger, Metrics: m})
	if m != nil {
		if werr := m.WriteTextfile(c.cfg.MetricsFile); werr != nil {
			c.logger.Warn("failed to write metrics", zap.String("path", c.cfg.MetricsFile), zap.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "%s -> %s\n", report.Source, report.Target)
	fmt.Fprintf(c.stdout, "  grid:      %s\n", report.Grid)
	fmt.Fprintf(c.stdout, "  traces:    %s of %d samples\n", humanize.Comma(int64(report.Traces)), report.Samples)
	fmt.Fprintf(c.stdout, "  variables: %d\n", len(report.Variables))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(c.stdout, "  skipped:   %s\n", strings.Join(report.Skipped, ", "))
	}
	fmt.Fprintf(c.stdout, "  id:        %s\n", report.ConversionID)
	return nil
}
