package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valdris/riftkit/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with a generated API key",
	Long: `Create a riftkit configuration file. A client API key is generated
and saved with the defaults; pass --config to choose the location.

Example:
  riftkit init --config ./riftkit.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		dictDir, _ := cmd.Flags().GetString("dict-dir")

		if config.ConfigExists(configPath) {
			fmt.Printf("Config already exists at %s\n", configPath)
			return
		}

		cfg, err := config.BootstrapConfig(configPath, dictDir)
		if err != nil {
			fmt.Printf("Error creating config: %v\n", err)
			return
		}

		fmt.Printf("Created %s\n", configPath)
		fmt.Printf("Client API key: %s\n", cfg.Security.ClientAPIKey)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("config", "", "Path to write the config file")
}
