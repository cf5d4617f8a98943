package tool

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
)

// ExecRunner runs invocations as real child processes. There is no timeout;
// a hung tool hangs the run, unless the context is cancelled.
type ExecRunner struct {
	Verbosity int // >0 logs each command line and tees its stderr to os.Stderr
}

func (r ExecRunner) Run(ctx context.Context, inv Invocation) (string, error) {
	fail := func(reason Reason, err error) *Error {
		return &Error{Reason: reason, Label: inv.Label, Program: inv.Program, Err: err}
	}

	if r.Verbosity > 0 {
		log.Printf("[%s] %s\n", inv.Label, inv)
	}

	cmd := exec.CommandContext(ctx, inv.Path(), inv.Args...)
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	var stderrBuf bytes.Buffer
	if r.Verbosity > 0 {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if inv.Stdin != "" {
		f, err := os.Open(inv.Stdin)
		if err != nil {
			return "", fail(ReasonInputFile, err)
		}
		defer f.Close()
		cmd.Stdin = f
	}

	var stdoutBuf bytes.Buffer
	if inv.Stdout != "" {
		f, err := os.Create(inv.Stdout)
		if err != nil {
			return "", fail(ReasonOutputFile, err)
		}
		defer f.Close()
		cmd.Stdout = f
	} else {
		cmd.Stdout = &stdoutBuf
	}

	if err := cmd.Start(); err != nil {
		return "", fail(ReasonSpawn, err)
	}

	if err := cmd.Wait(); err != nil {
		e := fail(ReasonExitStatus, err)
		e.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e.ExitCode = exitErr.ExitCode()
		}
		e.Stderr = stderrBuf.String()
		return stdoutBuf.String(), e
	}

	if inv.Stdout != "" {
		return inv.Stdout, nil
	}
	return stdoutBuf.String(), nil
}
