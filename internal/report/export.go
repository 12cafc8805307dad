package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tbre-automation/partslist/internal/projection"
)

// DefaultFilePrefix is the file name prefix of exported reports.
const DefaultFilePrefix = "PARTS_LIST"

// TimestampLayout is the time layout embedded in export file names.
const TimestampLayout = "2006-01-02_15-04-05"

// maxExportSuffix bounds the numbered names tried for one timestamp.
const maxExportSuffix = 1000

// ExportFileName returns "<prefix>_<timestamp>.html".
func ExportFileName(prefix string, now time.Time) string {
	return exportFileName(prefix, now, 1)
}

// exportFileName returns the n-th candidate name for a timestamp: the plain
// name first, then "<prefix>_<timestamp>_<n>.html".
func exportFileName(prefix string, now time.Time, n int) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	name := prefix + "_" + now.Format(TimestampLayout)
	if n > 1 {
		name += fmt.Sprintf("_%d", n)
	}
	return name + FormatHTML.Extension()
}

// WriteExport writes t as a full-precision HTML report into dir, creating
// dir if needed, and returns the path written. Existing reports are never
// overwritten: a second export within the same second gets a numbered name.
func WriteExport(dir, prefix string, now time.Time, t *projection.Table, meta Meta) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f, path, err := createExport(dir, prefix, now)
	if err != nil {
		return "", err
	}

	if err := RenderHTML(f, t, meta); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report %s: %w", path, err)
	}
	return path, nil
}

// createExport exclusively creates the first free export name in dir.
func createExport(dir, prefix string, now time.Time) (*os.File, string, error) {
	for n := 1; n <= maxExportSuffix; n++ {
		path := filepath.Join(dir, exportFileName(prefix, now, n))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("failed to create report: %w", err)
		}
	}
	return nil, "", fmt.Errorf("failed to create report: %d reports for %s already exist in %s",
		maxExportSuffix, now.Format(TimestampLayout), dir)
}
