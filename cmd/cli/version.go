// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridapi/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gridapi %s\n", version.Version)
		if version.Commit != "" {
			dimColor.Printf("commit: %s\n", version.Commit)
		}
		if version.Date != "" {
			dimColor.Printf("built:  %s\n", version.Date)
		}
	},
}
