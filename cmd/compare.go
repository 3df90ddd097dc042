package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricepulse/compare-cli/internal/cache"
	"github.com/pricepulse/compare-cli/internal/compare"
	"github.com/pricepulse/compare-cli/internal/fetch"
	"github.com/pricepulse/compare-cli/internal/orchestrator"
	"github.com/pricepulse/compare-cli/internal/resilience"
)

var compareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare <query>",
	Short: "Compare product prices across the two configured sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		svc, err := initService()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Compare.Timeout())
		defer cancel()

		report, err := svc.Compare(ctx, query)
		if err != nil {
			return err
		}

		if compareJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(report)
		return nil
	},
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(compareCmd)
}

// initService wires the cache, fetchers and orchestrator from config.
func initService() (*compare.Service, error) {
	specs, err := fetch.LoadSources(cfg.Sources.File)
	if err != nil {
		return nil, err
	}

	fetchers := make([]fetch.Fetcher, 0, len(specs))
	for _, spec := range specs {
		f, err := fetch.Build(spec)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, f)
	}

	orch := orchestrator.New(cache.New(cfg.Cache.TTL()), fetchers, orchestrator.Options{
		Retry: resilience.RetryConfig{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff(),
			MaxBackoff:     cfg.Retry.MaxBackoff(),
		},
		SourceTimeout: cfg.Fetch.SourceTimeout(),
		MaxConcurrent: cfg.Fetch.MaxConcurrent,
	})

	return compare.New(orch, cfg.Compare.Left, cfg.Compare.Right, cfg.Compare.Threshold)
}

func printReport(report *compare.Report) {
	fmt.Printf("Searched: %s (%dms)\n", report.Searched, report.DurationMs)
	for name, status := range report.Sources {
		line := fmt.Sprintf("  %s: %d records", name, status.Records)
		if status.Cached {
			line += " (cached)"
		}
		if status.Error != "" {
			line += fmt.Sprintf(" [%s: %s]", status.ErrorKind, status.Error)
		}
		fmt.Println(line)
	}

	if len(report.Comparisons) == 0 {
		fmt.Println("No cross-source matches found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LEFT\tRIGHT\tSCORE\tDIFF\tCHEAPER")
	for _, c := range report.Comparisons {
		fmt.Fprintf(w, "%s (%d)\t%s (%d)\t%d\t%d\t%s\n",
			c.Left.Name, c.Left.PriceValue,
			c.Right.Name, c.Right.PriceValue,
			c.Score, c.Difference, c.Cheaper,
		)
	}
	w.Flush()
}
