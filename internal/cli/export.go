package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tbre-automation/partslist/internal/assembly"
	"github.com/tbre-automation/partslist/internal/projection"
	"github.com/tbre-automation/partslist/internal/report"
	"github.com/tbre-automation/partslist/internal/session"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <assembly> [output-dir]",
	Short: "Write the full parts list of an assembly as an HTML report",
	Long: `Export opens an assembly, walks every occurrence and writes one row per leaf
part with all attributes at full precision to
<output-dir>/PARTS_LIST_<YYYY-MM-DD_HH-MM-SS>.html.

output-dir defaults to report.output_dir from the configuration.

Examples:
  partslist export "C:\Designs\DOG TOOTH GEARBOX.iam" C:\results
  partslist export gearbox.iam --host fixture --fixture gearbox.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	outDir := state.cfg.Report.OutputDir
	if len(args) == 2 {
		outDir = args[1]
	}

	s, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := exportOnce(cmd, s, args[0], outDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// exportOnce runs one traversal and writes the fixed-column report.
func exportOnce(cmd *cobra.Command, s *session.Session, assemblyPath, outDir string) (string, error) {
	res, err := partsList(cmd.Context(), cmd, s, assemblyPath)
	if err != nil {
		return "", err
	}

	table := projection.ProjectAll(res.Records, projection.FixedColumns())
	meta := report.NewMeta(filepath.Base(filepath.ToSlash(assemblyPath)))
	path, err := report.WriteExport(outDir, state.cfg.Report.FilePrefix, time.Now(), table, meta)
	if err != nil {
		return "", err
	}
	state.log.Info("report written",
		zap.String("path", path),
		zap.String("run_id", meta.RunID),
		zap.Int("rows", len(table.Rows)),
	)
	return path, nil
}

// partsList traverses assemblyPath with progress on stderr.
func partsList(ctx context.Context, cmd *cobra.Command, s *session.Session, assemblyPath string) (*assembly.Result, error) {
	res, err := s.PartsList(ctx, assemblyPath, newObserver(quietFlag, cmd.ErrOrStderr()))
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("traversal cancelled: %w", cerr)
		}
		return nil, err
	}
	return res, nil
}
