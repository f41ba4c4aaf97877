package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/segy2netcdf/internal/fields"
)

func (c *cli) fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the trace header fields that can be copied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBYTE\tSIZE")
			for _, f := range fields.Default().Fields() {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", f.Name, f.Offset, f.Size)
			}
			return tw.Flush()
		},
	}
}
