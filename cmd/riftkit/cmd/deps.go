package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valdris/riftkit/pkg/prop"
)

// depsCmd represents the deps command
var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "List the dependencies of a property tree file",
	Long: `List the other property tree files a .bin file declares as
dependencies, one per line.

Example:
  riftkit deps skin0.bin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tree, err := prop.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error decoding file: %v\n", err)
			return
		}

		for _, dep := range tree.Dependencies {
			fmt.Println(dep)
		}
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
}
