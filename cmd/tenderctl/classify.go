package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tender-backend/internal/classify"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <filename>...",
		Short: "Print the category and document type inferred from file names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tCATEGORY\tTYPE")
			for _, name := range args {
				res := classify.Classify(filepath.Base(name))
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, res.Category, res.DocumentType)
			}
			return w.Flush()
		},
	}
}
