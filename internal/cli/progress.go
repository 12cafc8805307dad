package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/tbre-automation/partslist/internal/assembly"
)

// CLIProgressReporter shows traversal progress as a spinner. The total number
// of occurrences is unknown until the walk ends, so the bar is indeterminate.
type CLIProgressReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// newObserver returns a progress reporter, or a no-op observer when quiet.
func newObserver(quiet bool, w io.Writer) assembly.Observer {
	if quiet {
		return assembly.NoOpObserver{}
	}
	return &CLIProgressReporter{w: w}
}

func (c *CLIProgressReporter) OnTraversalStart(root string, rootOccurrences int) {
	c.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription(fmt.Sprintf("Reading %s", filepath.Base(filepath.ToSlash(root)))),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.w)
		}),
	)
}

func (c *CLIProgressReporter) OnNodeVisited(visited int, label string) {
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnTraversalComplete(stats assembly.Stats) {
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
	fmt.Fprintf(c.w, "%d parts from %d occurrences in %s", stats.Leaves, stats.Visited, stats.Duration.Round(time.Millisecond))
	if stats.Invalid+stats.Failed+stats.Excluded > 0 {
		fmt.Fprintf(c.w, " (%d invalid, %d failed, %d excluded)", stats.Invalid, stats.Failed, stats.Excluded)
	}
	fmt.Fprintln(c.w)
}
