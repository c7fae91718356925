package main

import (
	"fmt"
	"strings"
	"time"

	"boardcheck/internal/report"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyCase  string
)

// historyCmd prints recent runs from the history store.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the history store",
	Long: `Shows recent suite runs recorded in the local SQLite history database.
With --case, shows the outcome history of a single named case instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum entries to show")
	historyCmd.Flags().StringVar(&historyCase, "case", "", "show history for one case by name")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Report.DatabasePath == "" {
		return fmt.Errorf("run history is disabled (report.database_path is empty)")
	}

	store, err := report.NewStore(cfg.Report.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if historyCase != "" {
		records, err := store.CaseHistory(ctx, historyCase, historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Printf("no history for case %q\n", historyCase)
			return nil
		}
		for _, rec := range records {
			status := "PASS"
			if !rec.Passed {
				status = "FAIL"
			}
			fmt.Printf("%s  %s  run=%s", rec.StartedAt.Format(time.RFC3339), status, rec.RunID)
			if rec.GotColumn != "" {
				fmt.Printf("  column=%s", rec.GotColumn)
			}
			if len(rec.MissingTags) > 0 {
				fmt.Printf("  missing=%s", strings.Join(rec.MissingTags, ","))
			}
			if rec.Error != "" {
				fmt.Printf("  error=%s", rec.Error)
			}
			fmt.Println()
		}
		return nil
	}

	runs, err := store.LastRuns(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  run=%s  %d passed, %d failed  (%v)\n",
			r.StartedAt.Format(time.RFC3339), r.RunID, r.Passed, r.Failed,
			r.Duration.Round(time.Millisecond))
	}
	return nil
}
