// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package runner executes external commands (git, gh, go) for the release
// tooling. Output is either streamed directly to the terminal or delivered
// line by line over a channel, depending on the caller's mode.
package runner

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// CommandStep defines a single external command to run.
type CommandStep struct {
	Name    string   // Human-readable step name for progress output
	Command string   // Executable to invoke
	Args    []string // Arguments
	Dir     string   // Working directory (empty = current)
	Env     []string // Extra environment entries appended to os.Environ()
}

// String renders the step's command line for display.
func (s CommandStep) String() string {
	if len(s.Args) == 0 {
		return s.Command
	}
	return s.Command + " " + strings.Join(s.Args, " ")
}

// OutputLine is a chunk of command output.
type OutputLine struct {
	Line    string
	IsError bool // True if the chunk came from stderr
}

// StreamCommand executes a command step.
// If cliMode is true, output goes directly to os.Stdout/Stderr.
// If cliMode is false, output is sent chunk by chunk over outChan.
func StreamCommand(step CommandStep, cliMode bool) (<-chan OutputLine, <-chan error) {
	// Buffer slightly for channel mode to prevent blocking on rapid output
	outChan := make(chan OutputLine, 10)
	errChan := make(chan error, 1)

	go func() {
		defer close(outChan)
		defer close(errChan)

		cmdDesc := fmt.Sprintf("step '%s'", step.Name)

		cmd := exec.Command(step.Command, step.Args...)
		cmd.Dir = step.Dir
		if len(step.Env) > 0 {
			cmd.Env = append(os.Environ(), step.Env...)
		}

		var cmdErr error
		if cliMode {
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr

			if err := cmd.Start(); err != nil {
				errChan <- fmt.Errorf("failed to start %s: %w", cmdDesc, err)
				return
			}
			cmdErr = cmd.Wait()
		} else {
			stdoutPipe, err := cmd.StdoutPipe()
			if err != nil {
				errChan <- fmt.Errorf("failed to get stdout pipe for %s: %w", cmdDesc, err)
				return
			}
			stderrPipe, err := cmd.StderrPipe()
			if err != nil {
				errChan <- fmt.Errorf("failed to get stderr pipe for %s: %w", cmdDesc, err)
				return
			}

			if err := cmd.Start(); err != nil {
				errChan <- fmt.Errorf("failed to start %s: %w", cmdDesc, err)
				return
			}

			outputDone := make(chan struct{}, 2) // Wait for both streamPipe goroutines
			go streamPipe(stdoutPipe, outChan, outputDone, false)
			go streamPipe(stderrPipe, outChan, outputDone, true)

			// Drain both pipes before calling Wait: Wait closes the pipes once
			// the process exits, which would cut off buffered output mid-read.
			<-outputDone
			<-outputDone

			cmdErr = cmd.Wait()
		}

		if cmdErr != nil {
			exitCode := -1
			if exitError, ok := cmdErr.(*exec.ExitError); ok {
				if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
					exitCode = status.ExitStatus()
				}
			}
			if exitCode != -1 {
				errChan <- fmt.Errorf("%s exited with status %d: %w", cmdDesc, exitCode, cmdErr)
			} else {
				errChan <- fmt.Errorf("%s failed: %w", cmdDesc, cmdErr)
			}
			return
		}
	}()

	return outChan, errChan
}

// streamPipe reads raw chunks from the pipe and sends them over outChan.
func streamPipe(pipe io.Reader, outChan chan<- OutputLine, doneChan chan<- struct{}, isError bool) {
	defer func() { doneChan <- struct{}{} }()
	buf := make([]byte, 1024) // Read in chunks
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			outChan <- OutputLine{Line: string(buf[:n]), IsError: isError}
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "Pipe read error (%v): %v\n", isError, err)
			}
			break
		}
	}
}

// Capture runs a command step to completion and returns its stdout. Stderr is
// folded into the error on failure. Used for short commands whose output the
// caller needs to inspect (e.g. `git tag -l`, `gh release list`).
func Capture(step CommandStep) (string, error) {
	cmd := exec.Command(step.Command, step.Args...)
	cmd.Dir = step.Dir
	if len(step.Env) > 0 {
		cmd.Env = append(os.Environ(), step.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		stderr := strings.TrimSpace(stderrBuf.String())
		if stderr != "" {
			return stdoutBuf.String(), fmt.Errorf("step '%s' failed: %s: %w", step.Name, stderr, err)
		}
		return stdoutBuf.String(), fmt.Errorf("step '%s' failed: %w", step.Name, err)
	}

	return stdoutBuf.String(), nil
}

// LookPath reports whether an executable is available on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
