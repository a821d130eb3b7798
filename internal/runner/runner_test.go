// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapture(t *testing.T) {
	t.Parallel()

	out, err := Capture(CommandStep{
		Name:    "Echo",
		Command: "echo",
		Args:    []string{"hello"},
	})
	require.NoError(t, err)
	require.Equal(t, "hello\n", out)
}

func TestCapture_FailureIncludesStderr(t *testing.T) {
	t.Parallel()

	_, err := Capture(CommandStep{
		Name:    "Fail loudly",
		Command: "sh",
		Args:    []string{"-c", "echo boom >&2; exit 3"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
	require.Contains(t, err.Error(), "step 'Fail loudly' failed")
}

func TestCapture_WorkingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := Capture(CommandStep{
		Name:    "Print working directory",
		Command: "pwd",
		Dir:     dir,
	})
	require.NoError(t, err)
	require.Equal(t, dir, strings.TrimSpace(out))
}

func TestCapture_ExtraEnv(t *testing.T) {
	t.Parallel()

	out, err := Capture(CommandStep{
		Name:    "Read env",
		Command: "sh",
		Args:    []string{"-c", "echo $GRIDAPI_TEST_VALUE"},
		Env:     []string{"GRIDAPI_TEST_VALUE=wired"},
	})
	require.NoError(t, err)
	require.Equal(t, "wired", strings.TrimSpace(out))
}

func TestStreamCommand_ChannelMode(t *testing.T) {
	t.Parallel()

	outChan, errChan := StreamCommand(CommandStep{
		Name:    "Mixed output",
		Command: "sh",
		Args:    []string{"-c", "echo out; echo err >&2"},
	}, false)

	var stdout, stderr strings.Builder
	for chunk := range outChan {
		if chunk.IsError {
			stderr.WriteString(chunk.Line)
		} else {
			stdout.WriteString(chunk.Line)
		}
	}
	require.NoError(t, <-errChan)
	require.Equal(t, "out\n", stdout.String())
	require.Equal(t, "err\n", stderr.String())
}

func TestStreamCommand_LargeOutputDelivered(t *testing.T) {
	t.Parallel()

	// Enough output to outlive the process: chunks buffered in the pipes at
	// exit must still arrive in full.
	outChan, errChan := StreamCommand(CommandStep{
		Name:    "Burst output",
		Command: "sh",
		Args:    []string{"-c", "i=0; while [ $i -lt 2000 ]; do echo $i; i=$((i+1)); done"},
	}, false)

	var stdout strings.Builder
	for chunk := range outChan {
		if !chunk.IsError {
			stdout.WriteString(chunk.Line)
		}
	}
	require.NoError(t, <-errChan)

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 2000)
	require.Equal(t, "0", lines[0])
	require.Equal(t, "1999", lines[1999])
}

func TestStreamCommand_ExitCodeInError(t *testing.T) {
	t.Parallel()

	outChan, errChan := StreamCommand(CommandStep{
		Name:    "Exit nonzero",
		Command: "sh",
		Args:    []string{"-c", "exit 7"},
	}, false)

	for range outChan {
	}
	err := <-errChan
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 7")
}

func TestStreamCommand_MissingExecutable(t *testing.T) {
	t.Parallel()

	outChan, errChan := StreamCommand(CommandStep{
		Name:    "Missing",
		Command: "definitely-not-on-path-gridapi",
	}, false)

	for range outChan {
	}
	err := <-errChan
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to start")
}

func TestCommandStepString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "git", CommandStep{Command: "git"}.String())
	require.Equal(t, "git tag -l v1.0.0", CommandStep{Command: "git", Args: []string{"tag", "-l", "v1.0.0"}}.String())
}

func TestLookPath(t *testing.T) {
	t.Parallel()

	require.True(t, LookPath("sh"))
	require.False(t, LookPath("definitely-not-on-path-gridapi"))
}
