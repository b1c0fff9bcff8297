/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/valdris/riftkit/pkg/api"
	"github.com/valdris/riftkit/pkg/config"
	"github.com/valdris/riftkit/pkg/hashdict"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspection REST API server",
	Long: `Start the riftkit REST API server. The server decodes uploaded
property tree files to JSON and resolves name hashes against the
dictionary.

Examples:
  riftkit serve --api-key=mysecretkey --port=8080
  riftkit serve --config=~/.config/riftkit/config.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")
		configPath, _ := cmd.Flags().GetString("config")
		dictDir, _ := cmd.Flags().GetString("dict-dir")

		// Flags win over the config file; the config file fills the gaps.
		if configPath != "" {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading config: %v\n", err)
				return
			}
			if apiKey == "" {
				apiKey = cfg.Security.ClientAPIKey
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Port
			}
			if !cmd.Flags().Changed("bind") {
				bind = cfg.Bind
			}
			if !cmd.Flags().Changed("dict-dir") {
				dictDir = cfg.DictDir
			}
		}

		if apiKey == "" {
			cmd.Println("Error: --api-key is required")
			return
		}

		var resolver api.Resolver
		if dictDir != "" {
			dict, err := hashdict.Open(dictDir)
			if err != nil {
				cmd.Printf("Error opening hash dictionary: %v\n", err)
				return
			}
			defer dict.Close()
			resolver = dict
		}

		serverConfig := api.ServerConfig{
			Port:    port,
			Bind:    bind,
			APIKey:  apiKey,
			DictDir: dictDir,
		}

		if err := api.StartServer(resolver, serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key for client authentication")
	serveCmd.Flags().String("config", "", "Path to a YAML config file")
}
