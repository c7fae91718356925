package suite

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"boardcheck/internal/board"
	"boardcheck/internal/logging"
	"boardcheck/internal/pages"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SessionFactory produces a logged-in page interactor for one worker, plus a
// cleanup function. Each parallel worker forks its own browser session so
// cases never share page state.
type SessionFactory func(ctx context.Context) (pages.Interactor, func(), error)

// Options configures a run.
type Options struct {
	Parallelism int
	CaseTimeout time.Duration
}

// CaseResult is the verdict for a single case.
type CaseResult struct {
	Case      Case
	Passed    bool
	GotColumn string
	// MissingTags lists expected tags absent from the board, in case order.
	MissingTags []string
	// TagDiff is a human-readable diff of expected vs detected tags,
	// empty when they agree.
	TagDiff  string
	Err      string
	Duration time.Duration
}

// Result is the outcome of a full run.
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Cases     []CaseResult
}

// Failed returns the number of failed cases.
func (r *Result) Failed() int {
	n := 0
	for _, c := range r.Cases {
		if !c.Passed {
			n++
		}
	}
	return n
}

// Passed returns the number of passed cases.
func (r *Result) Passed() int {
	return len(r.Cases) - r.Failed()
}

// Summary renders a one-line-per-case report.
func (r *Result) Summary() string {
	var sb strings.Builder
	for _, c := range r.Cases {
		status := "PASS"
		if !c.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "%s  %s (%v)\n", status, c.Case.Name, c.Duration.Round(time.Millisecond))
		if c.Err != "" {
			fmt.Fprintf(&sb, "      %s\n", c.Err)
		}
		if len(c.MissingTags) > 0 {
			fmt.Fprintf(&sb, "      missing tags: %s\n", strings.Join(c.MissingTags, ", "))
		}
	}
	fmt.Fprintf(&sb, "%d passed, %d failed (%v)\n", r.Passed(), r.Failed(), r.Duration.Round(time.Millisecond))
	return sb.String()
}

// Recorder persists run results. Implemented by the report store.
type Recorder interface {
	RecordRun(ctx context.Context, result *Result) error
}

// Runner executes the cases of one file.
type Runner struct {
	newSession SessionFactory
	opts       Options
	recorder   Recorder // optional
}

// NewRunner creates a runner. recorder may be nil to skip history recording.
func NewRunner(factory SessionFactory, opts Options, recorder Recorder) *Runner {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.CaseTimeout <= 0 {
		opts.CaseTimeout = 60 * time.Second
	}
	return &Runner{newSession: factory, opts: opts, recorder: recorder}
}

// Run executes every case in the file. A failed case is part of the Result,
// not an error; errors are reserved for infrastructure failures that abort
// the run (browser gone, login impossible).
func (r *Runner) Run(ctx context.Context, file *File) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Cases:     make([]CaseResult, len(file.Cases)),
	}
	logging.Suite("Run %s started: %d cases, parallelism %d", result.RunID, len(file.Cases), r.opts.Parallelism)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.opts.Parallelism)

	for i, c := range file.Cases {
		i, c := i, c
		eg.Go(func() error {
			ix, cleanup, err := r.newSession(egCtx)
			if err != nil {
				// Cannot even open a session; abort the whole run.
				return fmt.Errorf("case %q: acquire session: %w", c.Name, err)
			}
			defer cleanup()

			caseCtx, cancel := context.WithTimeout(egCtx, r.opts.CaseTimeout)
			defer cancel()

			result.Cases[i] = r.runCase(caseCtx, ix, file, c)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	result.Duration = time.Since(result.StartedAt)
	logging.Suite("Run %s finished: %d passed, %d failed", result.RunID, result.Passed(), result.Failed())

	if r.recorder != nil {
		if err := r.recorder.RecordRun(ctx, result); err != nil {
			logging.SuiteError("record run %s: %v", result.RunID, err)
		}
	}
	return result, nil
}

// runCase verifies one task: open the project, snapshot the board text, and
// check column placement and tag presence.
func (r *Runner) runCase(ctx context.Context, ix pages.Interactor, file *File, c Case) CaseResult {
	start := time.Now()
	res := CaseResult{Case: c}
	defer func() {
		res.Duration = time.Since(start)
	}()

	boardPage := pages.NewBoardPage(ix)
	if err := boardPage.OpenProject(ctx, c.Project); err != nil {
		res.Err = err.Error()
		return res
	}

	text, err := boardPage.Text(ctx)
	if err != nil {
		res.Err = err.Error()
		return res
	}

	col, err := board.LocateColumn(text, c.Task, file.Columns)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.GotColumn = col
	if col != c.Column {
		res.Err = fmt.Sprintf("task %q found in column %q, expected %q", c.Task, col, c.Column)
		return res
	}

	// Tag detection is page-global, not task-scoped: tags of other tasks on
	// the same board can mask a genuinely missing tag. Known limitation.
	present := board.LocateTags(text, file.Tags)
	res.MissingTags = present.Missing(c.Tags)
	if len(res.MissingTags) > 0 {
		expected := append([]string(nil), c.Tags...)
		sort.Strings(expected)
		res.TagDiff = cmp.Diff(expected, intersectSorted(present, c.Tags))
		res.Err = fmt.Sprintf("task %q: expected tags not on board: %s", c.Task, strings.Join(res.MissingTags, ", "))
		return res
	}

	res.Passed = true
	logging.SuiteDebug("case %q passed in %v", c.Name, time.Since(start))
	return res
}

// intersectSorted returns the expected tags that are present, sorted.
func intersectSorted(present board.TagSet, expected []string) []string {
	out := make([]string, 0, len(expected))
	for _, tag := range expected {
		if present.Has(tag) {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}
