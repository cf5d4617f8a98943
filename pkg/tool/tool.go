// Package tool runs the external command line programs (hdrgen, the
// Radiance suite, dcraw_emu) that do the actual image processing.
//
// Every program is run the same way: build an Invocation, hand it to a
// Runner, wait for it to exit. Standard output either goes to a file, or is
// captured and handed back as a string.
package tool

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// An Invocation is one run of one external program.
type Invocation struct {
	Label   string   // which pipeline step this is, e.g. "vignetting"; used in logs and errors
	Dir     string   // directory holding the binary; empty means look it up on $PATH
	Program string   // e.g. "pcomb"
	Args    []string
	Env     []string // extra KEY=value entries, added to the inherited environment

	Stdin  string // if set, this file is fed to the program's standard input
	Stdout string // if set, standard output is written to this file; else it is captured
}

// Path is the program to execute.
func (inv Invocation) Path() string {
	if inv.Dir == "" {
		return inv.Program
	}
	return filepath.Join(inv.Dir, inv.Program)
}

// Captures reports whether standard output is returned as a string.
func (inv Invocation) Captures() bool { return inv.Stdout == "" }

func (inv Invocation) String() string {
	s := inv.Path()
	if len(inv.Args) > 0 {
		s += " " + strings.Join(inv.Args, " ")
	}
	if inv.Stdin != "" {
		s += " < " + inv.Stdin
	}
	if inv.Stdout != "" {
		s += " > " + inv.Stdout
	}
	return s
}

// A Runner synchronously runs an Invocation. On success it returns the
// Stdout path if there was one, else the captured standard output. On
// failure the error is a *Error; any output captured before the failure is
// still returned.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, inv Invocation) (string, error)

func (f RunnerFunc) Run(ctx context.Context, inv Invocation) (string, error) { return f(ctx, inv) }

// Reason says how an invocation failed.
type Reason int

const (
	ReasonOutputFile Reason = iota + 1 // could not create the Stdout file
	ReasonInputFile                    // could not open the Stdin file
	ReasonSpawn                        // could not start the process
	ReasonExitStatus                   // process ran, and exited non-zero
)

func (r Reason) String() string {
	switch r {
	case ReasonOutputFile:
		return "output file"
	case ReasonInputFile:
		return "input file"
	case ReasonSpawn:
		return "spawn"
	case ReasonExitStatus:
		return "exit status"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Error is returned by Runners when an invocation fails.
type Error struct {
	Reason   Reason
	Label    string
	Program  string
	ExitCode int    // only meaningful for ReasonExitStatus
	Stderr   string // whatever the program said before it died
	Err      error
}

func (e *Error) Error() string {
	name := e.Program
	if e.Label != "" && e.Label != e.Program {
		name = fmt.Sprintf("%s (%s)", e.Program, e.Label)
	}

	switch e.Reason {
	case ReasonOutputFile:
		return fmt.Sprintf("command '%s': failed to create output file: %v", name, e.Err)
	case ReasonInputFile:
		return fmt.Sprintf("command '%s': failed to open input file: %v", name, e.Err)
	case ReasonSpawn:
		return fmt.Sprintf("command '%s': failed to start: %v", name, e.Err)
	}

	str := fmt.Sprintf("command '%s' failed, exit status %d", name, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		str += ": " + lastLine(s)
	}
	return str
}

func (e *Error) Unwrap() error { return e.Err }

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
