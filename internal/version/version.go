// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package version holds build-time version information injected via -ldflags.
package version

// These are overridden at build time:
//
//	go build -ldflags "-X gridapi/internal/version.Version=1.0.0 ..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
