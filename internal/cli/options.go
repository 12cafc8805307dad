package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// optionsCmd represents the options command
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the configured export options",
	Long: `Options lists the export options accepted by "partslist report -o", in the
order their columns appear, with the column each attribute fills.

Options come from export_options in .partslist.yaml, or the built-in set.`,
	Args: cobra.NoArgs,
	RunE: runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(cmd *cobra.Command, args []string) error {
	schema, err := state.cfg.Schema()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, opt := range schema.Options() {
		cols := make([]string, len(opt.Columns))
		for i, c := range opt.Columns {
			cols[i] = fmt.Sprintf("%s <- %s", c.Name, c.Attribute)
		}
		fmt.Fprintf(out, "%-16s %s\n", opt.Name, strings.Join(cols, ", "))
	}
	return nil
}
