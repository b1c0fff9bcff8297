package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valdris/riftkit/pkg/prop"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode a property tree file to JSON",
	Long: `Decode a property tree (.bin) file and print it as JSON.

Example:
  riftkit inspect skin0.bin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tree, err := prop.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error decoding file: %v\n", err)
			return
		}

		compact, _ := cmd.Flags().GetBool("compact")
		var data []byte
		if compact {
			data, err = json.Marshal(tree)
		} else {
			data, err = json.MarshalIndent(tree, "", "  ")
		}
		if err != nil {
			fmt.Printf("Error rendering JSON: %v\n", err)
			return
		}

		fmt.Printf("%s\n", data)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("compact", false, "Print compact JSON")
}
