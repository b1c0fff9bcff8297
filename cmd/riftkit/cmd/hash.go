package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valdris/riftkit/pkg/hashdict"
)

// hashCmd represents the hash command
var hashCmd = &cobra.Command{
	Use:   "hash <name>...",
	Short: "Compute the name hash of one or more names",
	Long: `Compute the 32-bit name hash used by property tree files.
Hashing is case-insensitive.

Example:
  riftkit hash mResistFragility SkinCharacterDataProperties`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			fmt.Printf("0x%08x %s\n", hashdict.Hash(name), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
