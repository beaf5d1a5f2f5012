package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

func newVersionCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if format != "json" {
				fmt.Fprintf(out, "jmbglens %s\n", version)
				fmt.Fprintf(out, "Commit: %s\n", commit)
				fmt.Fprintf(out, "Built: %s\n", date)
				return nil
			}

			doc := "{}"
			for _, kv := range [][2]string{
				{"version", version},
				{"commit", commit},
				{"built", date},
				{"go", runtime.Version()},
			} {
				var err error
				if doc, err = sjson.Set(doc, kv[0], kv[1]); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(out, doc)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format (json)")
	return cmd
}
