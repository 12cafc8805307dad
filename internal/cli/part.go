package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbre-automation/partslist/internal/assembly"
	"github.com/tbre-automation/partslist/internal/projection"
)

// partCmd represents the part command
var partCmd = &cobra.Command{
	Use:   "part <part-file>",
	Short: "Show the attributes of a single part document",
	Long: `Part opens one .ipt document and prints every attribute the parts list
would report for it. Absent mass properties are shown as "-".`,
	Args: cobra.ExactArgs(1),
	RunE: runPart,
}

func init() {
	rootCmd.AddCommand(partCmd)
}

func runPart(cmd *cobra.Command, args []string) error {
	s, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.Part(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	table := projection.ProjectAll([]assembly.Record{r}, projection.FixedColumns())
	out := cmd.OutOrStdout()
	for i, name := range table.Columns {
		cell := table.Rows[0][i]
		value := cell.String()
		if cell.IsEmpty() {
			value = "-"
		}
		fmt.Fprintf(out, "%-12s %s\n", name+":", value)
	}
	return nil
}
