// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package release

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"gridapi/internal/runner"
)

const (
	// DistDir is where freshly built executables land.
	DistDir = "dist"

	// AssetsDir is where renamed release assets and checksums.txt land.
	AssetsDir = "release-assets"
)

// Platform maps a GOOS value to its release naming conventions.
type Platform struct {
	GOOS string
	Name string // name segment used in release assets
	Ext  string // executable extension ("" or ".exe")
}

// Platforms lists every OS a release ships for.
func Platforms() []Platform {
	return []Platform{
		{GOOS: "windows", Name: "windows", Ext: ".exe"},
		{GOOS: "darwin", Name: "macos", Ext: ""},
		{GOOS: "linux", Name: "linux", Ext: ""},
	}
}

// PlatformFor resolves a GOOS value (e.g. runtime.GOOS) to its Platform.
func PlatformFor(goos string) (Platform, error) {
	for _, p := range Platforms() {
		if p.GOOS == goos {
			return p, nil
		}
	}
	return Platform{}, fmt.Errorf("unsupported platform '%s' (supported: windows, darwin, linux)", goos)
}

// ExecutableName is the build output name for a platform, e.g. "gridapi.exe".
func (p Platform) ExecutableName() string {
	return "gridapi" + p.Ext
}

// AssetName is the release asset name for a platform, e.g. "gridapi-macos".
func (p Platform) AssetName() string {
	return "gridapi-" + p.Name + p.Ext
}

// BuildStep returns the go build invocation for a platform, injecting the
// version into the binary via ldflags.
func BuildStep(p Platform, v *semver.Version, commit, date string) runner.CommandStep {
	ldflags := fmt.Sprintf(
		"-s -w -X gridapi/internal/version.Version=%s -X gridapi/internal/version.Commit=%s -X gridapi/internal/version.Date=%s",
		v.String(), commit, date)

	return runner.CommandStep{
		Name:    fmt.Sprintf("Build %s executable", p.Name),
		Command: "go",
		Args: []string{
			"build",
			"-trimpath",
			"-ldflags", ldflags,
			"-o", filepath.Join(DistDir, p.ExecutableName()),
			"./cmd/gridapi",
		},
		Env: []string{"GOOS=" + p.GOOS, "CGO_ENABLED=0"},
	}
}

// SmokeTestStep runs the freshly built executable with --help. A zero exit
// is the acceptance check that the build is runnable at all.
func SmokeTestStep(p Platform) runner.CommandStep {
	return runner.CommandStep{
		Name:    "Smoke-test executable",
		Command: filepath.Join(DistDir, p.ExecutableName()),
		Args:    []string{"--help"},
	}
}

// Clean removes the dist and release-assets directories.
func Clean() error {
	for _, dir := range []string{DistDir, AssetsDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	return nil
}

// PrepareAssets copies the platform executable from dist/ into
// release-assets/ under its asset name and writes checksums.txt. It returns
// the prepared asset path.
func PrepareAssets(p Platform, onProgress func(hashed, total int64)) (string, error) {
	exePath := filepath.Join(DistDir, p.ExecutableName())
	if _, err := os.Stat(exePath); err != nil {
		return "", fmt.Errorf("executable not found at %s (run the build first): %w", exePath, err)
	}

	if err := os.MkdirAll(AssetsDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", AssetsDir, err)
	}

	assetPath := filepath.Join(AssetsDir, p.AssetName())
	if err := copyFile(exePath, assetPath); err != nil {
		return "", err
	}

	if _, err := WriteChecksums(AssetsDir, []string{p.AssetName()}, onProgress); err != nil {
		return "", err
	}

	return assetPath, nil
}

// copyFile copies src to dst, preserving the executable bit.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}
