// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package release

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"gridapi/internal/runner"
)

// CheckGH verifies the GitHub CLI is installed and authenticated.
func CheckGH() error {
	if !runner.LookPath("gh") {
		return fmt.Errorf("GitHub CLI (gh) not found; install it from https://cli.github.com/")
	}
	if _, err := runner.Capture(runner.CommandStep{
		Name:    "Check gh authentication",
		Command: "gh",
		Args:    []string{"auth", "status"},
	}); err != nil {
		return fmt.Errorf("not authenticated with GitHub CLI (run: gh auth login): %w", err)
	}
	return nil
}

// TagExists reports whether the given git tag already exists locally.
func TagExists(tag string) (bool, error) {
	out, err := runner.Capture(runner.CommandStep{
		Name:    "List matching tags",
		Command: "git",
		Args:    []string{"tag", "-l", tag},
	})
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == tag, nil
}

// CreateTag creates and pushes the annotated release tag for a version.
// An already-existing tag is not an error; the push is skipped.
func CreateTag(v *semver.Version) (created bool, err error) {
	tag := TagName(v)

	exists, err := TagExists(tag)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := runner.Capture(runner.CommandStep{
		Name:    fmt.Sprintf("Create tag %s", tag),
		Command: "git",
		Args:    []string{"tag", "-a", tag, "-m", "Release " + tag},
	}); err != nil {
		return false, err
	}

	if _, err := runner.Capture(runner.CommandStep{
		Name:    fmt.Sprintf("Push tag %s", tag),
		Command: "git",
		Args:    []string{"push", "origin", tag},
	}); err != nil {
		return false, err
	}

	return true, nil
}

// CreateRelease creates a GitHub release for the version using gh, attaching
// the prepared assets and checksums manifest.
func CreateRelease(v *semver.Version, notesFile string, assets []string, draft bool) error {
	tag := TagName(v)

	args := []string{"release", "create", tag,
		"--title", fmt.Sprintf("GridAPI CLI %s", tag),
		"--notes-file", notesFile,
	}
	if draft {
		args = append(args, "--draft")
	}
	args = append(args, assets...)

	if _, err := runner.Capture(runner.CommandStep{
		Name:    fmt.Sprintf("Create GitHub release %s", tag),
		Command: "gh",
		Args:    args,
	}); err != nil {
		return err
	}
	return nil
}

// ListReleases returns the `gh release list` output.
func ListReleases() (string, error) {
	return runner.Capture(runner.CommandStep{
		Name:    "List releases",
		Command: "gh",
		Args:    []string{"release", "list"},
	})
}
