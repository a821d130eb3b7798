// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CredentialFileName is the well-known name of the credential file.
const CredentialFileName = "grid_token"

// Credentials holds the contents of a grid_token file. The file format is
// plain key=value lines:
//
//	grid_token=<token>
//	base_url=<url>
//
// Blank lines and lines starting with '#' are ignored.
type Credentials struct {
	Token   string
	BaseURL string

	// Source is the path the credentials were loaded from (empty if none found).
	Source string
}

// CredentialSearchPaths returns the locations checked for a grid_token file,
// in order: $GRIDAPI_TOKEN_FILE, ./grid_token, <UserConfigDir>/gridapi/grid_token.
func CredentialSearchPaths() []string {
	var paths []string
	if p := os.Getenv("GRIDAPI_TOKEN_FILE"); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, CredentialFileName)
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "gridapi", CredentialFileName))
	}
	return paths
}

// LoadCredentials finds and parses the first grid_token file from the search
// paths. A missing file is not an error; the returned Credentials are simply
// empty and Source is "".
func LoadCredentials() (Credentials, error) {
	for _, path := range CredentialSearchPaths() {
		creds, err := ParseCredentialFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Credentials{}, err
		}
		return creds, nil
	}
	return Credentials{}, nil
}

// ParseCredentialFile reads a grid_token file at the given path.
func ParseCredentialFile(path string) (Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, err
		}
		return Credentials{}, fmt.Errorf("failed to open credential file %s: %w", path, err)
	}
	defer f.Close()

	creds := Credentials{Source: path}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return Credentials{}, fmt.Errorf("invalid line %d in credential file %s: expected key=value", lineNum, path)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "grid_token":
			creds.Token = value
		case "base_url":
			creds.BaseURL = value
		default:
			// Unknown keys are tolerated so newer files keep working with
			// older executables.
		}
	}
	if err := scanner.Err(); err != nil {
		return Credentials{}, fmt.Errorf("failed to read credential file %s: %w", path, err)
	}

	return creds, nil
}

// SaveCredentials writes a grid_token file to the user config directory and
// returns the path written.
func SaveCredentials(creds Credentials) (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", err
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	path := filepath.Join(configDir, "gridapi", CredentialFileName)

	var sb strings.Builder
	if creds.Token != "" {
		fmt.Fprintf(&sb, "grid_token=%s\n", creds.Token)
	}
	if creds.BaseURL != "" {
		fmt.Fprintf(&sb, "base_url=%s\n", creds.BaseURL)
	}

	// The token is a secret; keep the file user-readable only (0600).
	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return "", fmt.Errorf("failed to write credential file %s: %w", path, err)
	}
	return path, nil
}

// Connection is the fully resolved set of values needed to talk to the API.
type Connection struct {
	BaseURL string
	Token   string

	// TokenSource describes where the token came from, for diagnostics
	// ("environment", a file path, or "" when no token was found).
	TokenSource string
}

// ResolveConnection merges environment variables, the grid_token file, and the
// YAML config into the effective connection settings.
func ResolveConnection(cfg Config) (Connection, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return Connection{}, err
	}

	conn := Connection{BaseURL: DefaultBaseURL}

	if cfg.BaseURL != "" {
		conn.BaseURL = cfg.BaseURL
	}
	if creds.BaseURL != "" {
		conn.BaseURL = creds.BaseURL
	}
	if creds.Token != "" {
		conn.Token = creds.Token
		conn.TokenSource = creds.Source
	}

	if url := os.Getenv("GRIDAPI_BASE_URL"); url != "" {
		conn.BaseURL = url
	}
	if token := os.Getenv("GRIDAPI_TOKEN"); token != "" {
		conn.Token = token
		conn.TokenSource = "environment"
	}

	conn.BaseURL = strings.TrimRight(conn.BaseURL, "/")

	return conn, nil
}
