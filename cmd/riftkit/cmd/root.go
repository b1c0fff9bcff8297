/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "riftkit",
	Short: "riftkit - game asset toolkit",
	Long: `riftkit inspects and converts game asset files: property trees,
release manifests, world geometry and character meshes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global hash dictionary flag
	rootCmd.PersistentFlags().StringP("dict-dir", "d", "./hashdict", "Hash dictionary directory")
}
