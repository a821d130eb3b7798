// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gridapi/internal/logger"
	"gridapi/internal/models"
)

var (
	datasetsJSONFlag   bool
	datasetsOutputFlag string
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Browse and download datasets",
	Long:  `List the datasets attached to a study, inspect their metadata, and download their contents with checksum verification.`,
}

var datasetsListCmd = &cobra.Command{
	Use:               "list <study-id>",
	Short:             "List datasets belonging to a study",
	Example:           "  gridapi datasets list st-42",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: studyCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		requireToken()

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Color("cyan")
		s.Suffix = " Fetching datasets..."
		s.Start()

		ctx, cancel := apiContext()
		defer cancel()

		datasets, err := datasetsMgr.List(ctx, args[0])
		s.Stop()
		if err != nil {
			exitWithAPIError(err)
		}

		if datasetsJSONFlag || appConfig.OutputJSON {
			printJSON(datasets)
			return
		}
		if len(datasets) == 0 {
			fmt.Println("No datasets found for this study.")
			return
		}
		printDatasetTable(datasets)
	},
}

var datasetsGetCmd = &cobra.Command{
	Use:     "get <dataset-id>",
	Short:   "Show a single dataset",
	Example: "  gridapi datasets get ds-117",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requireToken()

		ctx, cancel := apiContext()
		defer cancel()

		dataset, err := datasetsMgr.Get(ctx, args[0])
		if err != nil {
			exitWithAPIError(err)
		}

		if datasetsJSONFlag || appConfig.OutputJSON {
			printJSON(dataset)
			return
		}
		printDatasetDetail(dataset)
	},
}

var datasetsDownloadCmd = &cobra.Command{
	Use:     "download <dataset-id>",
	Short:   "Download a dataset's contents",
	Long:    `Download the dataset file, verifying its SHA-256 checksum when the server publishes one. The file is written atomically: a partial download never replaces an existing file.`,
	Example: "  gridapi datasets download ds-117\n  gridapi datasets download ds-117 --output ./data/trial.csv",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requireToken()

		ctx, cancel := apiContext()
		defer cancel()

		dataset, err := datasetsMgr.Get(ctx, args[0])
		if err != nil {
			exitWithAPIError(err)
		}

		destPath := datasetsOutputFlag
		if destPath == "" {
			destPath = dataset.Name
		}
		if destPath == "" {
			destPath = dataset.ID
		}

		if err := downloadDataset(ctx, dataset, destPath); err != nil {
			exitWithAPIError(err)
		}

		logger.Info("Dataset downloaded", "id", dataset.ID, "path", destPath)
		successColor.Printf("Downloaded %s to %s (%s)\n",
			identifierColor.Sprint(dataset.ID), destPath, dataset.HumanSize())
	},
}

// downloadDataset runs the managed download with a terminal progress bar.
func downloadDataset(ctx context.Context, dataset models.Dataset, destPath string) error {
	bar := progressbar.NewOptions64(dataset.SizeBytes,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", filepath.Base(destPath))),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	defer func() { _ = bar.Finish() }()

	return datasetsMgr.Download(ctx, dataset, destPath, func(written, total int64) {
		if total > 0 {
			bar.ChangeMax64(total)
		}
		_ = bar.Set64(written)
	})
}

func init() {
	datasetsListCmd.Flags().BoolVar(&datasetsJSONFlag, "json", false, "Output raw JSON")
	datasetsGetCmd.Flags().BoolVar(&datasetsJSONFlag, "json", false, "Output raw JSON")
	datasetsDownloadCmd.Flags().StringVarP(&datasetsOutputFlag, "output", "o", "", "Destination path (defaults to the dataset name)")

	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsGetCmd)
	datasetsCmd.AddCommand(datasetsDownloadCmd)
}
