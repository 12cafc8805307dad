package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbre-automation/partslist/internal/report"
)

var previewPrecision int

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview <saved-report.html>",
	Short: "Print a sanitized, rounded preview of a saved report",
	Long: `Preview loads a previously exported report, strips anything but table
markup and rounds every numeric cell to --precision decimals (default
report.preview_precision). The saved file is not modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().IntVarP(&previewPrecision, "precision", "p", -1, "decimals to round to (default from config)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	precision := previewPrecision
	if precision < 0 {
		precision = state.cfg.Report.PreviewPrecision
	}
	html, err := report.PreviewFile(args[0], precision)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), html)
	return nil
}
