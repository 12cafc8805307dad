package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tbre-automation/partslist/internal/projection"
	"github.com/tbre-automation/partslist/internal/report"
)

var (
	reportOptions []string
	reportAll     bool
	reportFormat  string
	reportOut     string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <assembly>",
	Short: "Report selected columns of an assembly's parts list",
	Long: `Report projects the parts list onto the export options you select. Columns
appear in the configured option order, whatever order the options are given.

At least one option is required; run "partslist options" to list them.

Formats:
  html      full-precision HTML table (default)
  preview   HTML table rounded to report.preview_precision decimals
  tsv       tab-separated text with a header row, for pasting into a spreadsheet
  markdown  Markdown table

Examples:
  partslist report gearbox.iam -o "Part Number" -o Mass
  partslist report gearbox.iam -o "Part Number,Center of Mass" --format tsv --out parts.tsv
  partslist report gearbox.iam --all --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringSliceVarP(&reportOptions, "option", "o", nil, "export option to include (repeatable)")
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "include every export option")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", string(report.FormatHTML), "output format: html, preview, tsv, markdown")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write to this file instead of stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	schema, err := state.cfg.Schema()
	if err != nil {
		return err
	}
	selected := reportOptions
	if reportAll {
		selected = schema.Names()
	}

	// Reject bad input before touching the host
	if err := projection.Validate(selected, schema); err != nil {
		return err
	}
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	s, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := partsList(cmd.Context(), cmd, s, args[0])
	if err != nil {
		return err
	}

	table, err := projection.Project(res.Records, selected, schema)
	if err != nil {
		return err
	}

	meta := report.NewMeta(filepath.Base(filepath.ToSlash(args[0])))
	opts := report.Options{Meta: meta, PreviewPrecision: state.cfg.Report.PreviewPrecision}
	return writeOutput(cmd.OutOrStdout(), reportOut, func(w io.Writer) error {
		return report.Render(w, format, table, opts)
	})
}

// writeOutput runs render against path, or against stdout when path is empty.
func writeOutput(stdout io.Writer, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(stdout)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}
