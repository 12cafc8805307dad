package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tbre-automation/partslist/internal/watcher"
)

var (
	watchDir      string
	watchDebounce time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <assembly> [output-dir]",
	Short: "Re-export the parts list whenever documents change",
	Long: `Watch exports the assembly once, then watches its directory for saved .iam
and .ipt files and exports again after every burst of changes. Inventor's
OldVersions backups are ignored. Stop with Ctrl+C.

Examples:
  partslist watch "C:\Designs\DOG TOOTH GEARBOX.iam" C:\results
  partslist watch gearbox.iam --dir C:\Designs --debounce 2s`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default: the assembly's directory)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before re-exporting")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assemblyPath := args[0]
	outDir := state.cfg.Report.OutputDir
	if len(args) == 2 {
		outDir = args[1]
	}
	dir := watchDir
	if dir == "" {
		dir = filepath.Dir(assemblyPath)
	}
	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	path, err := exportOnce(cmd, s, assemblyPath, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)

	w, err := watcher.New([]string{dir}, watcher.Options{Debounce: watchDebounce, Logger: state.log.Logger})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer w.Stop()

	state.log.Info("watching for changes", zap.String("dir", dir))
	return watchExports(ctx, w, func(files []string) {
		state.log.Info("documents changed, exporting", zap.Strings("files", files))
		s.Invalidate()
		path, err := exportOnce(cmd, s, assemblyPath, outDir)
		if err != nil {
			state.log.Error("export failed", zap.Error(err))
			return
		}
		fmt.Fprintln(out, path)
	})
}

// watchExports calls export on the calling goroutine for every batch of
// changes w reports, until ctx is done. A COM host session only answers the
// goroutine that connected it, so the watcher callback merely signals.
//
// w is paused while export runs; documents saved meanwhile are reported as
// one batch when it finishes.
func watchExports(ctx context.Context, w watcher.DocumentWatcher, export func(files []string)) error {
	changes := make(chan []string, 1)
	err := w.Start(ctx, func(files []string) {
		select {
		case changes <- files:
		default:
			// A pending export will read these documents too
		}
	})
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case files := <-changes:
			w.Pause()
			export(files)
			w.Resume()
		}
	}
}
