package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/segy2netcdf/netcdf"
)

const maxShown = 60

func (c *cli) inspectCmd() *cobra.Command {
	var values int
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Describe the dimensions, variables and attributes of a NetCDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.inspect(args[0], values)
		},
	}
	cmd.Flags().IntVar(&values, "values", 0, "print the first N values of each variable")
	return cmd
}

func (c *cli) inspect(path string, values int) error {
	f, err := netcdf.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := c.stdout
	fmt.Fprintf(w, "=== %s ===\n\n", path)

	fmt.Fprintln(w, "dimensions:")
	for _, d := range f.Dimensions() {
		fmt.Fprintf(w, "  %s = %d\n", d.Name, d.Len)
	}

	fmt.Fprintln(w, "\nvariables:")
	for _, v := range f.Variables() {
		storage := "contiguous"
		switch {
		case v.Shuffled():
			storage = "shuffle+deflate"
		case v.Compressed():
			storage = "deflate"
		}
		fmt.Fprintf(w, "  %s %s(%s)  [%s, %s]\n", v.Type(), v.Name(),
			strings.Join(v.Dimensions(), ", "), storage, humanize.IBytes(v.StorageSize()))
		attrs, err := v.Attributes()
		if err != nil {
			return fmt.Errorf("variable %q: %w", v.Name(), err)
		}
		for _, a := range attrs {
			fmt.Fprintf(w, "    %s:%s = %s\n", v.Name(), a.Name, formatValue(a.Value))
		}
		if values > 0 {
			if err := printValues(w, v, values); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(w, "\nglobal attributes:")
	attrs, err := f.Attributes()
	if err != nil {
		return err
	}
	for _, a := range attrs {
		fmt.Fprintf(w, "  :%s = %s\n", a.Name, formatValue(a.Value))
	}
	return nil
}

func printValues(w io.Writer, v *netcdf.Variable, n int) error {
	var data any
	var err error
	switch v.Type() {
	case netcdf.Int32:
		var x []int32
		x, err = v.ReadInt32()
		data = x[:min(n, len(x))]
	case netcdf.Float32:
		var x []float32
		x, err = v.ReadFloat32()
		data = x[:min(n, len(x))]
	case netcdf.Float64:
		var x []float64
		x, err = v.ReadFloat64()
		data = x[:min(n, len(x))]
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("variable %q: %w", v.Name(), err)
	}
	fmt.Fprintf(w, "    values: %v\n", data)
	return nil
}

// formatValue renders an attribute value on one line, eliding long text.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return quoteShort(x)
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = quoteShort(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(x))
	default:
		return fmt.Sprint(x)
	}
}

func quoteShort(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxShown {
		s = s[:maxShown] + "..."
	}
	return fmt.Sprintf("%q", s)
}
