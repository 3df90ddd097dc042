package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricepulse/compare-cli/internal/fetch"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured listing sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := fetch.LoadSources(cfg.Sources.File)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tRATE/S\tSEARCH URL")
		for _, s := range specs {
			rate := "-"
			if s.RatePerSec > 0 {
				rate = fmt.Sprintf("%.1f", s.RatePerSec)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.Kind, rate, s.SearchURL)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
