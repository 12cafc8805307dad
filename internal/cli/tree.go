package cli

import (
	"github.com/spf13/cobra"
)

var treeDOT bool

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree <assembly>",
	Short: "Print the document structure of an assembly",
	Long: `Tree walks an assembly and prints each distinct document once under its
parent, with " xN" when it is placed N times. --dot emits Graphviz DOT instead.

Examples:
  partslist tree gearbox.iam
  partslist tree gearbox.iam --dot | dot -Tsvg > gearbox.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolVar(&treeDOT, "dot", false, "emit Graphviz DOT")
}

func runTree(cmd *cobra.Command, args []string) error {
	s, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := partsList(cmd.Context(), cmd, s, args[0])
	if err != nil {
		return err
	}

	if treeDOT {
		return res.Structure.WriteDOT(cmd.OutOrStdout())
	}
	return res.Structure.WriteTree(cmd.OutOrStdout())
}
