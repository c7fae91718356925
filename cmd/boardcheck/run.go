package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"boardcheck/internal/browser"
	"boardcheck/internal/config"
	"boardcheck/internal/pages"
	"boardcheck/internal/report"
	"boardcheck/internal/suite"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	casesPath string
	parallel  int
	watchMode bool
)

// runCmd executes the full suite from a cases file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the verification suite from a cases file",
	Long: `Runs every case in the cases file: logs into the application, opens each
case's project, and verifies column placement and tag presence.

With --watch, boardcheck re-runs the suite whenever the cases file changes.`,
	RunE: runSuite,
}

func init() {
	runCmd.Flags().StringVar(&casesPath, "cases", "", "path to cases file (default from config)")
	runCmd.Flags().IntVar(&parallel, "parallel", 0, "number of cases to run concurrently (default from config)")
	runCmd.Flags().BoolVar(&watchMode, "watch", false, "re-run when the cases file changes")
}

func runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if casesPath == "" {
		casesPath = cfg.Suite.CasesPath
	}
	if parallel > 0 {
		cfg.Suite.Parallelism = parallel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr := browser.NewSessionManager(browserConfig(cfg))
	defer func() {
		if err := mgr.Shutdown(context.Background()); err != nil {
			logger.Warn("browser shutdown", zap.Error(err))
		}
	}()

	var recorder suite.Recorder
	if cfg.Report.DatabasePath != "" {
		store, err := report.NewStore(cfg.Report.DatabasePath)
		if err != nil {
			logger.Warn("run history disabled", zap.Error(err))
		} else {
			defer store.Close()
			recorder = store
		}
	}

	execute := func() error {
		file, err := suite.LoadCases(casesPath)
		if err != nil {
			return err
		}
		logger.Info("Running suite",
			zap.String("cases", casesPath),
			zap.Int("count", len(file.Cases)),
			zap.Int("parallelism", cfg.Suite.Parallelism))

		runner := suite.NewRunner(sessionFactory(mgr, cfg), suite.Options{
			Parallelism: cfg.Suite.Parallelism,
			CaseTimeout: cfg.Suite.Timeout(),
		}, recorder)

		result, err := runner.Run(ctx, file)
		if err != nil {
			return err
		}
		fmt.Print(result.Summary())
		if failed := result.Failed(); failed > 0 {
			return fmt.Errorf("%d case(s) failed", failed)
		}
		return nil
	}

	if !watchMode {
		return execute()
	}
	return watchAndRun(ctx, casesPath, execute)
}

// browserConfig maps app config onto the browser package config.
func browserConfig(cfg *config.Config) browser.Config {
	return browser.Config{
		DebuggerURL:         cfg.Browser.DebuggerURL,
		Launch:              cfg.Browser.Launch,
		Headless:            cfg.Browser.Headless,
		ViewportWidth:       cfg.Browser.ViewportWidth,
		ViewportHeight:      cfg.Browser.ViewportHeight,
		NavigationTimeoutMs: cfg.Browser.NavigationTimeoutMs,
		SessionStore:        cfg.Browser.SessionStore,
	}
}

// sessionFactory returns a factory that opens a fresh logged-in session per
// suite worker.
func sessionFactory(mgr *browser.SessionManager, cfg *config.Config) suite.SessionFactory {
	return func(ctx context.Context) (pages.Interactor, func(), error) {
		session, err := mgr.CreateSession(ctx, cfg.App.BaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create session: %w", err)
		}
		cleanup := func() {
			if err := mgr.CloseSession(session.ID); err != nil {
				logger.Debug("close session", zap.Error(err))
			}
		}

		ix := pages.NewSessionInteractor(mgr, session.ID)
		login := pages.NewLoginPage(ix, cfg.App.BaseURL)
		if err := login.Login(ctx, pages.Credentials{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		}); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("login: %w", err)
		}
		return ix, cleanup, nil
	}
}

// watchAndRun executes once, then re-executes whenever the cases file
// changes, until the context is cancelled. Editor save patterns (rename,
// truncate+write) produce bursts of events, so changes are debounced.
func watchAndRun(ctx context.Context, path string, execute func() error) error {
	if err := execute(); err != nil {
		logger.Warn("suite failed, watching for changes", zap.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which would drop
	// a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	logger.Info("Watching for changes", zap.String("path", path))

	const debounce = 500 * time.Millisecond
	var timer *time.Timer
	runCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case runCh <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-runCh:
			logger.Info("Cases file changed, re-running")
			if err := execute(); err != nil {
				logger.Warn("suite failed", zap.Error(err))
			}
		}
	}
}
