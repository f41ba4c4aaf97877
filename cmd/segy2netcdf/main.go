// Command segy2netcdf converts SEG-Y seismic trace files to NetCDF-4 grids.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/robert-malhotra/segy2netcdf/internal/config"
	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
)

// Exit statuses by error kind.
const (
	exitOK            = 0
	exitFailure       = 1
	exitConfiguration = 2
	exitSource        = 3
	exitTarget        = 4
)

// cli holds the state shared by all commands of one invocation.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	quiet      bool
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	root := c.rootCmd()
	root.SetArgs(normalizeArgs(args))
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch cerrors.KindOf(err) {
	case cerrors.KindConfiguration, cerrors.KindUnknownField:
		return exitConfiguration
	case cerrors.KindSourceFormat:
		return exitSource
	case cerrors.KindTargetWrite:
		return exitTarget
	default:
		return exitFailure
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "segy2netcdf SOURCE TARGET",
		Short: "Convert a SEG-Y file to a NetCDF-4 grid",
		Long: `Converts the traces of a SEG-Y file into a NetCDF-4 file whose Samples
variable is laid out on a grid of named dimensions.

Dimensions are given slowest first with -d NAME LENGTH (or -d NAME=LENGTH).
If the name matches a trace header field, its coordinates are read from the
trace headers; otherwise they count from 0. When the dimensions describe fewer
traces than the file holds, a leading "Traces" dimension absorbs the rest.

Example:
  segy2netcdf shots.sgy shots.nc -s Time -d FieldRecord 3 -d ReceiverID 10`,
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: c.runConvert,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "YAML configuration file")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log debug messages")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "log errors only")
	pf.StringVar(&c.logFormat, "log-format", "", "log encoding: json or console")

	c.convertFlags(root)
	root.AddCommand(c.inspectCmd(), c.fieldsCmd())
	return root
}

// setup loads the configuration and builds the logger.
func (c *cli) setup() error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.Load(c.configPath)
		if err != nil {
			return cerrors.Wrap(cerrors.KindConfiguration, "load config", err)
		}
	} else {
		c.cfg = config.Default()
	}
	if c.verbose && c.quiet {
		return cerrors.New(cerrors.KindConfiguration, "flags", "--verbose and --quiet are exclusive")
	}

	format := c.cfg.Logging.Format
	if c.logFormat != "" {
		format = c.logFormat
	}
	zc := zap.NewProductionConfig()
	switch strings.ToLower(format) {
	case "", "json":
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		return cerrors.New(cerrors.KindConfiguration, "flags", "unknown log format %q", format)
	}

	level := zapcore.InfoLevel
	if c.cfg.Logging.Level != "" {
		if err := level.Set(c.cfg.Logging.Level); err != nil {
			return cerrors.Wrap(cerrors.KindConfiguration, "log level", err)
		}
	}
	switch {
	case c.verbose:
		level = zapcore.DebugLevel
	case c.quiet:
		level = zapcore.ErrorLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	c.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
