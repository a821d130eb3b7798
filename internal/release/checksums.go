// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package release

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ChecksumFileName is the manifest of SHA-256 digests accompanying release
// assets. Each line is "<hex digest>  <asset name>", the sha256sum format, so
// downloads verify with `sha256sum -c checksums.txt`.
const ChecksumFileName = "checksums.txt"

// hashChunkSize is the read size used while hashing files.
const hashChunkSize = 4096

// FileSHA256 computes the hex-encoded SHA-256 digest of a file, reading in
// fixed-size chunks and reporting progress through onProgress (may be nil).
func FileSHA256(path string, onProgress func(hashed, total int64)) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	total := info.Size()

	hasher := sha256.New()
	buf := make([]byte, hashChunkSize)
	var hashed int64
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			if _, err := hasher.Write(buf[:n]); err != nil {
				return "", fmt.Errorf("failed to hash %s: %w", path, err)
			}
			hashed += int64(n)
			if onProgress != nil {
				onProgress(hashed, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("failed to read %s while hashing: %w", path, readErr)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// WriteChecksums hashes the named files (paths relative to or inside dir) and
// writes checksums.txt into dir. Entries use the files' base names so the
// manifest verifies from inside the release directory.
func WriteChecksums(dir string, files []string, onProgress func(hashed, total int64)) (string, error) {
	var sb strings.Builder
	for _, file := range files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, file)
		}
		digest, err := FileSHA256(path, onProgress)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%s  %s\n", digest, filepath.Base(file))
	}

	checksumPath := filepath.Join(dir, ChecksumFileName)
	if err := os.WriteFile(checksumPath, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", checksumPath, err)
	}
	return checksumPath, nil
}

// VerifyChecksums reads a checksums.txt and confirms every listed file in dir
// matches its recorded digest. It returns the verified file names.
func VerifyChecksums(dir string) ([]string, error) {
	checksumPath := filepath.Join(dir, ChecksumFileName)
	f, err := os.Open(checksumPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", checksumPath, err)
	}
	defer f.Close()

	var verified []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// sha256sum format: digest, two spaces, file name.
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed line %d in %s", lineNum, checksumPath)
		}
		want, name := fields[0], fields[1]

		got, err := FileSHA256(filepath.Join(dir, name), nil)
		if err != nil {
			return nil, err
		}
		if got != want {
			return nil, fmt.Errorf("checksum mismatch for %s: got %s, want %s", name, got, want)
		}
		verified = append(verified, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", checksumPath, err)
	}

	return verified, nil
}
