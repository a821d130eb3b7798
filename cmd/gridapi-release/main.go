// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// gridapi-release drives the release workflow: cross-compile the CLI,
// prepare renamed assets with a checksum manifest, tag the version, and
// publish a GitHub release through the gh CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gridapi/internal/release"
	"gridapi/internal/runner"
)

var (
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	stepColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

var (
	osFlag      string
	draftFlag   bool
	versionFlag string
)

var rootCmd = &cobra.Command{
	Use:          "gridapi-release",
	Short:        "Build and publish GridAPI CLI releases",
	SilenceUsage: true,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build and asset directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := release.Clean(); err != nil {
			return err
		}
		successColor.Printf("Removed %s/ and %s/\n", release.DistDir, release.AssetsDir)
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the release executable for one platform",
	Long:  `Cross-compile the CLI for the target OS with the release version injected, then smoke-test the result by running it with --help.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := release.PlatformFor(osFlag)
		if err != nil {
			return err
		}
		v, err := resolveVersion()
		if err != nil {
			return err
		}

		commit := gitCommit()
		date := time.Now().UTC().Format(time.RFC3339)

		if err := runStep(release.BuildStep(p, v, commit, date)); err != nil {
			return err
		}

		// The cross-compiled binary only runs on the build host's own OS.
		if p.GOOS == runtime.GOOS {
			if err := runStep(release.SmokeTestStep(p)); err != nil {
				return err
			}
		} else {
			dimColor.Printf("Skipping smoke test for %s build on %s host.\n", p.GOOS, runtime.GOOS)
		}

		successColor.Printf("Built %s (version %s)\n",
			filepath.Join(release.DistDir, p.ExecutableName()), v)
		return nil
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Prepare release assets and checksums from the built executable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := release.PlatformFor(osFlag)
		if err != nil {
			return err
		}

		assetPath, err := release.PrepareAssets(p, hashProgress("Hashing "+p.AssetName()))
		if err != nil {
			return err
		}

		successColor.Printf("Prepared %s and %s\n",
			assetPath, filepath.Join(release.AssetsDir, release.ChecksumFileName))
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Generate RELEASE_NOTES.md for the current version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := resolveVersion()
		if err != nil {
			return err
		}
		path, err := release.WriteNotes(v)
		if err != nil {
			return err
		}
		successColor.Printf("Wrote %s for %s\n", path, release.TagName(v))
		return nil
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Create and push the git tag for the current version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := resolveVersion()
		if err != nil {
			return err
		}

		created, err := release.CreateTag(v)
		if err != nil {
			return err
		}
		if created {
			successColor.Printf("Created and pushed tag %s\n", release.TagName(v))
		} else {
			dimColor.Printf("Tag %s already exists, nothing to do.\n", release.TagName(v))
		}
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the GitHub release with prepared assets",
	Long:  `Verify gh authentication, ensure the version tag exists, render release notes, and create the GitHub release attaching the prepared assets and checksum manifest.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := release.CheckGH(); err != nil {
			return err
		}
		v, err := resolveVersion()
		if err != nil {
			return err
		}

		assets, err := collectAssets()
		if err != nil {
			return err
		}

		if _, err := release.CreateTag(v); err != nil {
			return err
		}

		notesFile, err := release.WriteNotes(v)
		if err != nil {
			return err
		}

		stepColor.Printf("Creating GitHub release %s...\n", release.TagName(v))
		if err := release.CreateRelease(v, notesFile, assets, draftFlag); err != nil {
			return err
		}

		successColor.Printf("Release %s published with %d asset(s).\n", release.TagName(v), len(assets))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing GitHub releases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := release.CheckGH(); err != nil {
			return err
		}
		out, err := release.ListReleases()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show or update the VERSION file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag != "" {
			v, err := release.ParseVersion(versionFlag)
			if err != nil {
				return err
			}
			if err := release.UpdateVersion(".", v); err != nil {
				return err
			}
			successColor.Printf("VERSION updated to %s\n", v)
			return nil
		}

		v, err := release.CurrentVersion(".")
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

// resolveVersion prefers an explicit --version over the VERSION file.
func resolveVersion() (*semver.Version, error) {
	if versionFlag != "" {
		return release.ParseVersion(versionFlag)
	}
	return release.CurrentVersion(".")
}

// gitCommit returns the short HEAD hash, or "unknown" outside a git repo.
func gitCommit() string {
	out, err := runner.Capture(runner.CommandStep{
		Name:    "Resolve HEAD commit",
		Command: "git",
		Args:    []string{"rev-parse", "--short", "HEAD"},
	})
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out)
}

// collectAssets gathers everything under release-assets/ for upload.
func collectAssets() ([]string, error) {
	entries, err := os.ReadDir(release.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("no prepared assets in %s/ (run 'gridapi-release assets' first): %w", release.AssetsDir, err)
	}

	var assets []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		assets = append(assets, filepath.Join(release.AssetsDir, entry.Name()))
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no prepared assets in %s/ (run 'gridapi-release assets' first)", release.AssetsDir)
	}
	return assets, nil
}

// runStep streams a command's output to the terminal, stderr in red.
func runStep(step runner.CommandStep) error {
	stepColor.Printf("==> %s\n", step.Name)
	dimColor.Printf("    %s\n", step.String())

	outChan, errChan := runner.StreamCommand(step, false)
	for chunk := range outChan {
		if chunk.IsError {
			errorColor.Print(chunk.Line)
		} else {
			fmt.Print(chunk.Line)
		}
	}
	if err := <-errChan; err != nil {
		return fmt.Errorf("step '%s' failed: %w", step.Name, err)
	}
	return nil
}

// hashProgress returns a checksum progress callback backed by a terminal bar.
func hashProgress(description string) func(hashed, total int64) {
	var bar *progressbar.ProgressBar
	return func(hashed, total int64) {
		if bar == nil {
			bar = progressbar.NewOptions64(total,
				progressbar.OptionSetDescription(description),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowBytes(true),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set64(hashed)
	}
}

func main() {
	buildCmd.Flags().StringVar(&osFlag, "os", runtime.GOOS, "Target GOOS (windows|darwin|linux)")
	assetsCmd.Flags().StringVar(&osFlag, "os", runtime.GOOS, "Target GOOS (windows|darwin|linux)")
	createCmd.Flags().BoolVar(&draftFlag, "draft", false, "Create the release as a draft")
	rootCmd.PersistentFlags().StringVar(&versionFlag, "version", "", "Override the VERSION file (e.g. 1.2.3)")

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
