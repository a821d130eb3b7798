// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package release

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/semver/v3"
)

// NotesFileName is the release notes file handed to the GitHub release.
const NotesFileName = "RELEASE_NOTES.md"

var notesTemplate = template.Must(template.New("notes").Parse(`# GridAPI CLI {{.Version}}

## Downloads
- **Windows**: ` + "`gridapi-windows.exe`" + `
- **macOS**: ` + "`gridapi-macos`" + `
- **Linux**: ` + "`gridapi-linux`" + `

## Installation
1. Download the executable for your platform
2. Make it executable (Linux/macOS): ` + "`chmod +x gridapi-*`" + `
3. Create a ` + "`grid_token`" + ` file with your API credentials:
   ` + "```" + `
   grid_token=your-api-token-here
   base_url=https://your-api-url.com
   ` + "```" + `
4. Run: ` + "`./gridapi-* studies list`" + ` (or ` + "`gridapi-windows.exe studies list`" + ` on Windows)

## Verification
Verify your download using the provided checksums:
` + "```bash" + `
sha256sum -c checksums.txt
` + "```" + `
`))

// RenderNotes produces the release notes body for a version.
func RenderNotes(v *semver.Version) (string, error) {
	var sb strings.Builder
	err := notesTemplate.Execute(&sb, struct{ Version string }{Version: v.String()})
	if err != nil {
		return "", fmt.Errorf("failed to render release notes: %w", err)
	}
	return sb.String(), nil
}

// WriteNotes renders the release notes into RELEASE_NOTES.md and returns the
// path written.
func WriteNotes(v *semver.Version) (string, error) {
	notes, err := RenderNotes(v)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(NotesFileName, []byte(notes), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", NotesFileName, err)
	}
	return NotesFileName, nil
}
