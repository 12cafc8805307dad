package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tbre-automation/partslist/internal/assembly"
)

// Test Plan for CLIProgressReporter:
// - Quiet mode yields the no-op observer
// - A full traversal ends with a summary line
// - Skipped nodes are broken down in the summary

func TestNewObserver_Quiet(t *testing.T) {
	t.Parallel()
	assert.IsType(t, assembly.NoOpObserver{}, newObserver(true, &bytes.Buffer{}))
}

func TestCLIProgressReporter_Summary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	obs := newObserver(false, &buf)

	obs.OnTraversalStart("C:/INVENTOR/DOG TOOTH GEARBOX.iam", 5)
	for i := 1; i <= 5; i++ {
		obs.OnNodeVisited(i, "occurrence")
	}
	obs.OnTraversalComplete(assembly.Stats{Visited: 5, Leaves: 5, Duration: 12 * time.Millisecond})

	out := buf.String()
	assert.Contains(t, out, "5 parts from 5 occurrences in 12ms\n")
	assert.NotContains(t, out, "invalid")
}

func TestCLIProgressReporter_SkippedBreakdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	obs := newObserver(false, &buf)
	obs.OnTraversalComplete(assembly.Stats{Visited: 9, Leaves: 5, Invalid: 2, Failed: 1})

	assert.Contains(t, buf.String(), "5 parts from 9 occurrences in 0s (2 invalid, 1 failed, 0 excluded)\n")
}
