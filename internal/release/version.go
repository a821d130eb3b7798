// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package release implements the local release workflow: building platform
// executables, naming and checksumming release assets, managing the VERSION
// file and git tags, and creating GitHub releases through the gh CLI.
package release

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionFileName is the repo-root file that records the current release
// version. Its contents drive the vMAJOR.MINOR.PATCH git tags.
const VersionFileName = "VERSION"

// ParseVersion validates a user-supplied version string. A leading 'v' is
// tolerated and stripped.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid version '%s' (expected MAJOR.MINOR.PATCH): %w", s, err)
	}
	return v, nil
}

// TagName returns the git tag for a version, e.g. "v1.2.3".
func TagName(v *semver.Version) string {
	return "v" + v.String()
}

// CurrentVersion reads the VERSION file in dir. A missing file yields "0.0.0"
// rather than an error so a fresh checkout can still cut its first release.
func CurrentVersion(dir string) (*semver.Version, error) {
	data, err := os.ReadFile(versionFilePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return semver.MustParse("0.0.0"), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", VersionFileName, err)
	}
	return ParseVersion(string(data))
}

// UpdateVersion rewrites the VERSION file in dir.
func UpdateVersion(dir string, v *semver.Version) error {
	if err := os.WriteFile(versionFilePath(dir), []byte(v.String()+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", VersionFileName, err)
	}
	return nil
}

func versionFilePath(dir string) string {
	if dir == "" {
		return VersionFileName
	}
	return dir + string(os.PathSeparator) + VersionFileName
}
