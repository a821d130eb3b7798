// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package release

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)
	require.Equal(t, "1.2.3", v.String())

	v, err = ParseVersion("v2.0.0")
	require.NoError(t, err)
	require.Equal(t, "2.0.0", v.String())

	_, err = ParseVersion("not-a-version")
	require.Error(t, err)

	_, err = ParseVersion("1.2")
	require.Error(t, err)
}

func TestTagName(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion("1.4.0")
	require.NoError(t, err)
	require.Equal(t, "v1.4.0", TagName(v))
}

func TestCurrentVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, VersionFileName), []byte("3.1.4\n"), 0644))

	v, err := CurrentVersion(dir)
	require.NoError(t, err)
	require.Equal(t, "3.1.4", v.String())
}

func TestCurrentVersion_MissingFile(t *testing.T) {
	t.Parallel()

	v, err := CurrentVersion(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "0.0.0", v.String())
}

func TestUpdateVersion_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	v, err := ParseVersion("1.0.1")
	require.NoError(t, err)
	require.NoError(t, UpdateVersion(dir, v))

	got, err := CurrentVersion(dir)
	require.NoError(t, err)
	require.Equal(t, "1.0.1", got.String())
}

func TestFileSHA256(t *testing.T) {
	t.Parallel()

	// Larger than one hash chunk so the chunked read path is exercised.
	content := make([]byte, 10_000)
	for i := range content {
		content[i] = byte(i % 251)
	}
	want := sha256.Sum256(content)

	path := filepath.Join(t.TempDir(), "asset")
	require.NoError(t, os.WriteFile(path, content, 0644))

	var calls int
	var lastHashed, lastTotal int64
	digest, err := FileSHA256(path, func(hashed, total int64) {
		calls++
		lastHashed, lastTotal = hashed, total
	})
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(want[:]), digest)
	require.GreaterOrEqual(t, calls, 2)
	require.Equal(t, int64(len(content)), lastHashed)
	require.Equal(t, int64(len(content)), lastTotal)
}

func TestWriteChecksums_Format(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := []byte("release binary bytes")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gridapi-linux"), content, 0755))

	path, err := WriteChecksums(dir, []string{"gridapi-linux"}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := sha256.Sum256(content)
	require.Equal(t, fmt.Sprintf("%s  gridapi-linux\n", hex.EncodeToString(want[:])), string(data))
}

func TestVerifyChecksums(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gridapi-linux"), []byte("binary one"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gridapi-macos"), []byte("binary two"), 0755))

	_, err := WriteChecksums(dir, []string{"gridapi-linux", "gridapi-macos"}, nil)
	require.NoError(t, err)

	verified, err := VerifyChecksums(dir)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"gridapi-linux", "gridapi-macos"}, verified)
}

func TestVerifyChecksums_DetectsCorruption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gridapi-linux"), []byte("original"), 0755))
	_, err := WriteChecksums(dir, []string{"gridapi-linux"}, nil)
	require.NoError(t, err)

	// Tamper with the asset after the manifest was written.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gridapi-linux"), []byte("tampered"), 0755))

	_, err = VerifyChecksums(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "checksum mismatch")
}

func TestPlatformNaming(t *testing.T) {
	t.Parallel()

	names := map[string]string{}
	for _, p := range Platforms() {
		names[p.GOOS] = p.AssetName()
	}
	require.Equal(t, map[string]string{
		"windows": "gridapi-windows.exe",
		"darwin":  "gridapi-macos",
		"linux":   "gridapi-linux",
	}, names)

	p, err := PlatformFor("linux")
	require.NoError(t, err)
	require.Equal(t, "gridapi", p.ExecutableName())

	p, err = PlatformFor("windows")
	require.NoError(t, err)
	require.Equal(t, "gridapi.exe", p.ExecutableName())

	_, err = PlatformFor("plan9")
	require.Error(t, err)
}

func TestBuildStep(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)

	step := BuildStep(Platforms()[2], v, "abc1234", "2025-06-01T00:00:00Z")
	require.Equal(t, "go", step.Command)
	require.Contains(t, step.Env, "GOOS=linux")
	require.Contains(t, step.Env, "CGO_ENABLED=0")

	joined := strings.Join(step.Args, " ")
	require.Contains(t, joined, "version.Version=1.2.3")
	require.Contains(t, joined, "version.Commit=abc1234")
	require.Contains(t, joined, filepath.Join(DistDir, "gridapi"))
}

func TestRenderNotes(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)

	notes, err := RenderNotes(v)
	require.NoError(t, err)

	require.Contains(t, notes, "# GridAPI CLI 1.2.3")
	require.Contains(t, notes, "gridapi-windows.exe")
	require.Contains(t, notes, "gridapi-macos")
	require.Contains(t, notes, "gridapi-linux")
	require.Contains(t, notes, "grid_token=your-api-token-here")
	require.Contains(t, notes, "sha256sum -c checksums.txt")
}

func TestPrepareAssets(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	p, err := PlatformFor("linux")
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(DistDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(DistDir, p.ExecutableName()), []byte("fake binary"), 0755))

	assetPath, err := PrepareAssets(p, nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(AssetsDir, "gridapi-linux"), assetPath)

	info, err := os.Stat(assetPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0755), info.Mode().Perm())

	verified, err := VerifyChecksums(AssetsDir)
	require.NoError(t, err)
	require.Equal(t, []string{"gridapi-linux"}, verified)
}

func TestPrepareAssets_MissingBuild(t *testing.T) {
	chdir(t, t.TempDir())

	p, err := PlatformFor("linux")
	require.NoError(t, err)

	_, err = PrepareAssets(p, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "run the build first")
}
