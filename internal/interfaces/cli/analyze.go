package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/helix-insights/madison/internal/application/intelligence"
	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/infrastructure/database/redis"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/infrastructure/providers/clinicaltrials"
	"github.com/helix-insights/madison/internal/infrastructure/providers/fda"
	"github.com/helix-insights/madison/pkg/errors"
	"github.com/helix-insights/madison/pkg/types/intel"
)

type analyzeOptions struct {
	term   string
	focus  string
	days   int
	depth  string
	output string
}

func newAnalyzeCommand(root *RootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one competitive-intelligence analysis and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.term, "term", "t", "", "search term filtering both data sources")
	f.StringVar(&opts.focus, "focus", "", `therapeutic focus (overrides --term unless "All Categories")`)
	f.IntVar(&opts.days, "days", 0, "lookback window in days (default from config)")
	f.StringVar(&opts.depth, "depth", string(intel.DepthQuick), "analysis depth: quick or deep")
	f.StringVarP(&opts.output, "output", "o", "json", "output format: json or table")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *RootOptions, opts *analyzeOptions) error {
	if opts.output != "json" && opts.output != "table" {
		return errors.New(errors.ErrCodeBadRequest, "output must be json or table")
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	svc, cleanup := buildService(cmd.Context(), cfg, log)
	defer cleanup()

	report, err := svc.Run(cmd.Context(), intel.Query{
		SearchTerm:       opts.term,
		TherapeuticFocus: opts.focus,
		DaysBack:         opts.days,
		Depth:            intel.Depth(opts.depth),
	})
	if err != nil {
		return err
	}

	if opts.output == "table" {
		return printTable(cmd.OutOrStdout(), report, svc.TableRows(report))
	}
	return printJSON(cmd.OutOrStdout(), report)
}

// buildService assembles the analysis pipeline for a one-shot CLI run.  The
// cache is attached when enabled and reachable; a cache outage degrades to
// live fetching.
func buildService(ctx context.Context, cfg *config.Config, log logging.Logger) (intelligence.Service, func()) {
	fdaClient := fda.NewClient(cfg.Providers.FDA, log)
	trialsClient := clinicaltrials.NewClient(cfg.Providers.ClinicalTrials, log)

	var opts []intelligence.Option
	cleanup := func() {}

	if cfg.Redis.Enabled {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		client, err := redis.NewClient(connectCtx, cfg.Redis, log)
		if err != nil {
			log.Warn("cache unavailable, fetching live", logging.Err(err))
		} else {
			cache := redis.NewRedisCache(client, log,
				redis.WithPrefix(cfg.Redis.KeyPrefix),
				redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
			opts = append(opts, intelligence.WithCache(cache, cfg.Providers.CacheTTL))
			cleanup = func() { _ = client.Close() }
		}
	}

	return intelligence.NewService(fdaClient, trialsClient, cfg.Analysis, log, opts...), cleanup
}

func printJSON(w io.Writer, report *intel.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func printTable(w io.Writer, report *intel.Report, rows []intel.TableRow) error {
	fmt.Fprintf(w, "Report %s — %d records analyzed\n", report.ReportID, report.Summary.TotalRecords)
	fmt.Fprintf(w, "%s\n\n", report.Summary.ExecutiveSummary)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANY\tPRODUCT/TRIAL\tSOURCE\tLEVEL\tSCORE\tCONFIDENCE\tDATE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			row.Company, row.ProductTrial, row.Source, row.ThreatLevel,
			row.ThreatScore, row.Confidence, row.Date)
	}
	return tw.Flush()
}
