package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valdris/riftkit/pkg/manifest"
)

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest <file>",
	Short: "Summarize a release manifest",
	Long: `Parse an RMAN release manifest and print its release id, bundle,
language and file counts, and optionally the file list.

Example:
  riftkit manifest patch.manifest --files`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := manifest.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading manifest: %v\n", err)
			return
		}

		fmt.Printf("Release:     %d\n", m.ReleaseID)
		fmt.Printf("Bundles:     %d\n", len(m.Bundles))
		fmt.Printf("Languages:   %d\n", len(m.Languages))
		fmt.Printf("Files:       %d\n", len(m.Files))
		fmt.Printf("Directories: %d\n", len(m.Directories))

		listFiles, _ := cmd.Flags().GetBool("files")
		if listFiles {
			fmt.Println()
			for _, file := range m.Files {
				fmt.Printf("%12d  %s\n", file.Size, file.Name)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().Bool("files", false, "List the files in the manifest")
}
