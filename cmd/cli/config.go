// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gridapi/internal/config"
	"gridapi/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration and credentials",
	Long:  `Inspect and change where the CLI connects and how it authenticates. Tokens are stored in a 'grid_token' file; other settings live in config.yaml.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := config.ResolveConnection(appConfig)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%-14s %s\n", "Base URL:", conn.BaseURL)
		if conn.Token != "" {
			fmt.Printf("%-14s %s (from %s)\n", "Token:", maskToken(conn.Token), conn.TokenSource)
		} else {
			fmt.Printf("%-14s %s\n", "Token:", dimColor.Sprint("not set"))
		}
		fmt.Printf("%-14s %s\n", "Timeout:", appConfig.Timeout())
		fmt.Printf("%-14s %d\n", "Page size:", appConfig.EffectivePageSize())

		if path, err := config.DefaultConfigPath(); err == nil {
			fmt.Printf("%-14s %s\n", "Config file:", dimColor.Sprint(path))
		}
	},
}

var configSetTokenCmd = &cobra.Command{
	Use:     "set-token <token>",
	Short:   "Store an API token in the grid_token file",
	Example: "  gridapi config set-token gtk_a1b2c3d4",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		creds, err := config.LoadCredentials()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		creds.Token = args[0]

		path, err := config.SaveCredentials(creds)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: failed to save credentials: %v\n", err)
			os.Exit(1)
		}
		logger.Info("API token updated", "path", path)
		successColor.Printf("Token saved to %s\n", path)
	},
}

var configSetURLCmd = &cobra.Command{
	Use:     "set-url <base-url>",
	Short:   "Store the API base URL in the grid_token file",
	Example: "  gridapi config set-url https://api.gridapi.example.com",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		creds, err := config.LoadCredentials()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		creds.BaseURL = args[0]

		path, err := config.SaveCredentials(creds)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: failed to save credentials: %v\n", err)
			os.Exit(1)
		}
		logger.Info("API base URL updated", "path", path, "url", args[0])
		successColor.Printf("Base URL saved to %s\n", path)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the credential file search paths",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, path := range config.CredentialSearchPaths() {
			marker := " "
			if _, err := os.Stat(path); err == nil {
				marker = successColor.Sprint("*")
			}
			fmt.Printf("%s %s\n", marker, path)
		}
		dimColor.Println("\n* = file exists; the first existing file wins.")
	},
}

// maskToken hides all but the edges of a token so `config show` output is
// safe to paste into bug reports.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configSetURLCmd)
	configCmd.AddCommand(configPathCmd)
}
