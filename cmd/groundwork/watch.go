package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"groundwork/internal/background"
	"groundwork/internal/config"
	"groundwork/internal/fileutil"
	"groundwork/internal/highlight"
	"groundwork/internal/logging"
	"groundwork/internal/respond"
	"groundwork/internal/ui"
	"groundwork/internal/watcher"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		include     []string
		exclude     []string
		lockFile    string
		debounce    time.Duration
		showDiff    bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir...]",
		Short: "Watch directories for filesystem changes",
		Long: `Watch observes one or more directories recursively (the working
directory when none are given), batches rapid bursts of changes, and
reports what changed. Creating the lock file inside a watched tree
pauses processing until it is removed again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dirs := args
			if len(dirs) == 0 {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				dirs = []string{wd}
			}

			// Flags win over the config file.
			if len(include) == 0 {
				include = cfg.Watcher.Include
			}
			if len(exclude) == 0 {
				exclude = cfg.Watcher.Exclude
			}
			if lockFile == "" {
				lockFile = cfg.Watcher.LockFile
			}
			if debounce <= 0 {
				debounce = time.Duration(cfg.Watcher.DebounceMs) * time.Millisecond
			}

			wcfg, err := watcher.NewConfig(dirs,
				watcher.WithInclude(include...),
				watcher.WithExclude(exclude...),
				watcher.WithLockFile(lockFile),
				watcher.WithDebounce(debounce),
				watcher.WithMaxWatches(cfg.Watcher.MaxWatches),
			)
			if err != nil {
				return err
			}

			obs := watcher.NewObserver(wcfg)
			if interactive {
				return runWatchUI(cfg, wcfg, obs)
			}
			return runWatch(cfg, wcfg, obs, showDiff)
		},
	}

	cmd.Flags().StringSliceVar(&include, "include", nil, "glob patterns a changed path must match (default from config)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "glob patterns that drop a changed path (default from config)")
	cmd.Flags().StringVar(&lockFile, "lock-file", "", "lock file name that pauses processing while present")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "window for batching rapid changes (default from config)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print highlighted diffs of modified text files")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "run the full-screen watch view")

	return cmd
}

// runWatch runs the plain dispatch loop until interrupted.
func runWatch(cfg *config.Config, wcfg *watcher.Config, obs *watcher.Observer, showDiff bool) error {
	var responder watcher.Responder = respond.NewLogResponder(nil)

	var runner *background.Runner
	if showDiff {
		hl := highlight.New(cfg.UI.HighlightStyle)
		diff := respond.NewDiffResponder(os.Stdout, hl, responder)
		responder = diff

		// Prime baselines off the hot path so the first edit of an
		// existing file already has something to diff against.
		runner = background.NewRunner(config.DefaultTaskQueueSize)
		for _, dir := range wcfg.Dirs() {
			_, err := runner.Submit("snapshot "+dir, func(ctx context.Context) error {
				return primeSnapshots(ctx, diff, dir)
			})
			if err != nil {
				logging.Warn("snapshot priming skipped", "dir", dir, "error", err)
			}
		}
	}

	proc := watcher.NewProcessor(obs, responder)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Notice("watching for changes",
		"dirs", strings.Join(wcfg.Dirs(), ", "),
		"lock_file", wcfg.LockFile(),
		"debounce", wcfg.Debounce().String(),
	)

	err := proc.ProcessChanges(ctx)

	if runner != nil {
		drainCtx, cancel := context.WithTimeout(context.Background(), config.DefaultDrainTimeout)
		defer cancel()
		if derr := runner.Shutdown(drainCtx); derr != nil {
			logging.Warn("background runner did not drain", "error", derr)
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runWatchUI runs the full-screen watch view, feeding it batches from
// the dispatch loop.
func runWatchUI(cfg *config.Config, wcfg *watcher.Config, obs *watcher.Observer) error {
	// Terminal logging would corrupt the alt screen. File logging, when
	// enabled, stays on.
	if !logToFile && !cfg.Logging.File {
		logging.DisableLogging()
	}

	hl := highlight.New(cfg.UI.HighlightStyle)
	model := ui.NewWatchModel(wcfg.Dirs(), wcfg.LockFile(), hl)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	proc := watcher.NewProcessor(obs, &programResponder{program: program})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- proc.ProcessChanges(ctx)
	}()

	_, uiErr := program.Run()

	cancel()
	err := <-watchErr
	if uiErr != nil {
		return uiErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// primeSnapshots records a diff baseline for every text file under dir.
func primeSnapshots(ctx context.Context, diff *respond.DiffResponder, dir string) error {
	paths, err := fileutil.FindByName(dir, "**/*")
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := diff.Snapshot(path); err != nil {
			logging.Trace("snapshot skipped", "path", path, "error", err)
		}
	}
	return nil
}

// programResponder forwards surviving batches into the running UI
// program.
type programResponder struct {
	program *tea.Program
}

func (r *programResponder) ShouldProcess(string) bool { return true }

func (r *programResponder) HandleDirectoryChange(_ context.Context, batch watcher.ChangeBatch) error {
	r.program.Send(watcher.NewBatchMsg(batch))
	return nil
}
