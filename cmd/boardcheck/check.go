package main

import (
	"context"
	"fmt"

	"boardcheck/internal/browser"
	"boardcheck/internal/suite"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkProject string
	checkTask    string
	checkColumn  string
	checkTags    []string
	checkColumns []string
	checkVocab   []string
)

// checkCmd verifies a single task without a cases file.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify a single task's column and tags",
	Long: `Verifies one task directly from flags, without a cases file.

Example:
  boardcheck check --project "Web Application" \
    --task "Implement user authentication" \
    --column "To Do" --tags "Feature,High Priority"`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkProject, "project", "", "project name (required)")
	checkCmd.Flags().StringVar(&checkTask, "task", "", "task name (required)")
	checkCmd.Flags().StringVar(&checkColumn, "column", "", "expected column (required)")
	checkCmd.Flags().StringSliceVar(&checkTags, "tags", nil, "expected tags")
	checkCmd.Flags().StringSliceVar(&checkColumns, "columns", []string{"To Do", "In Progress", "Review", "Done"}, "ordered column vocabulary")
	checkCmd.Flags().StringSliceVar(&checkVocab, "tag-vocabulary", []string{"Feature", "Bug", "Design", "High Priority"}, "candidate tag vocabulary")
	_ = checkCmd.MarkFlagRequired("project")
	_ = checkCmd.MarkFlagRequired("task")
	_ = checkCmd.MarkFlagRequired("column")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	file := &suite.File{
		Columns: checkColumns,
		Tags:    checkVocab,
		Cases: []suite.Case{{
			Name:    fmt.Sprintf("%s / %s", checkProject, checkTask),
			Project: checkProject,
			Task:    checkTask,
			Column:  checkColumn,
			Tags:    checkTags,
		}},
	}

	mgr := browser.NewSessionManager(browserConfig(cfg))
	defer func() {
		if err := mgr.Shutdown(context.Background()); err != nil {
			logger.Warn("browser shutdown", zap.Error(err))
		}
	}()

	runner := suite.NewRunner(sessionFactory(mgr, cfg), suite.Options{
		CaseTimeout: cfg.Suite.Timeout(),
	}, nil)

	result, err := runner.Run(cmd.Context(), file)
	if err != nil {
		return err
	}
	fmt.Print(result.Summary())
	if result.Failed() > 0 {
		return fmt.Errorf("check failed")
	}
	return nil
}
