// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gridapi/internal/client"
	"gridapi/internal/config"
	"gridapi/internal/logger"
	"gridapi/internal/managers"
)

var (
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
)

// Package-level handles built once in PersistentPreRunE and shared by all
// resource commands.
var (
	appConfig   config.Config
	apiClient   *client.Client
	studiesMgr  *managers.StudiesManager
	datasetsMgr *managers.DatasetsManager
)

var rootCmd = &cobra.Command{
	Use:   "gridapi",
	Short: "GridAPI CLI",
	Long: `A command-line client for the Grid API.

Commands follow the '<resource> <action>' pattern, e.g. 'gridapi studies list'.
Credentials are read from a 'grid_token' file (key=value lines: grid_token=...,
base_url=...) found in the current directory or the user config directory, or
from the GRIDAPI_TOKEN / GRIDAPI_BASE_URL environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.InitLogger(false)

		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to ensure config directory: %w", err)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appConfig = cfg

		conn, err := config.ResolveConnection(cfg)
		if err != nil {
			return fmt.Errorf("failed to resolve API connection: %w", err)
		}

		apiClient = client.New(conn, cfg.Timeout())
		studiesMgr = managers.NewStudiesManager(apiClient)
		datasetsMgr = managers.NewDatasetsManager(apiClient)
		return nil
	},
}

func RunCLI() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// Execute is the entry point used by the CLI-only binary.
func Execute() {
	RunCLI()
}

// apiContext returns a context bounded by the configured request timeout.
func apiContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), appConfig.Timeout())
}

// requireToken fails fast with a setup hint when no token is configured,
// instead of letting the server bounce the request with a bare 401.
func requireToken() {
	if apiClient.HasToken() {
		return
	}
	errorColor.Fprintln(os.Stderr, "Error: no API token configured.")
	fmt.Fprintln(os.Stderr, "\nCreate a 'grid_token' file with your credentials:")
	fmt.Fprintln(os.Stderr, "  grid_token=your-api-token-here")
	fmt.Fprintln(os.Stderr, "  base_url=https://your-api-url.com")
	fmt.Fprintln(os.Stderr, "\nSearched locations:")
	for _, path := range config.CredentialSearchPaths() {
		fmt.Fprintf(os.Stderr, "  - %s\n", path)
	}
	fmt.Fprintln(os.Stderr, "\nAlternatively set GRIDAPI_TOKEN (and optionally GRIDAPI_BASE_URL).")
	os.Exit(1)
}

// exitWithAPIError prints an API failure with auth-specific guidance and exits.
func exitWithAPIError(err error) {
	errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
	if client.IsUnauthorized(err) {
		fmt.Fprintln(os.Stderr, "\nAuthentication failed. Check the token in your grid_token file")
		fmt.Fprintln(os.Stderr, "and make sure it has not expired.")
	}
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(studiesCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
