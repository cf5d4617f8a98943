// Package tooltest provides a fake tool.Runner that records what it was
// asked to run, so pipeline code can be tested without the real binaries.
package tooltest

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/abworrall/fisheye-hdr/pkg/tool"
)

// Runner records invocations. By default every invocation succeeds: if it
// has a Stdout file, a stub line is written to it; if it captures, Output
// (keyed by program name) is returned.
type Runner struct {
	// Output is the captured stdout to return, per program name.
	Output map[string]string

	// FailLabel makes any invocation with this label fail with a
	// non-zero exit.
	FailLabel string

	// Contents, keyed by label, replaces the stub written to Stdout.
	Contents map[string][]byte

	// Hook, if set, is called before the default behaviour. A non-nil
	// error is returned as-is.
	Hook func(inv tool.Invocation) error

	mu    sync.Mutex
	calls []tool.Invocation
}

func (r *Runner) Run(ctx context.Context, inv tool.Invocation) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	r.mu.Unlock()

	if r.Hook != nil {
		if err := r.Hook(inv); err != nil {
			return "", err
		}
	}

	if r.FailLabel != "" && inv.Label == r.FailLabel {
		return "", &tool.Error{Reason: tool.ReasonExitStatus, Label: inv.Label, Program: inv.Program, ExitCode: 1}
	}

	if inv.Stdout != "" {
		stub := []byte(fmt.Sprintf("#?RADIANCE\nCOMMAND=%s\n", inv))
		if b, ok := r.Contents[inv.Label]; ok {
			stub = b
		}
		if err := os.WriteFile(inv.Stdout, stub, 0o644); err != nil {
			return "", &tool.Error{Reason: tool.ReasonOutputFile, Label: inv.Label, Program: inv.Program, Err: err}
		}
		return inv.Stdout, nil
	}

	return r.Output[inv.Program], nil
}

// Calls returns a copy of the invocations seen so far.
func (r *Runner) Calls() []tool.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tool.Invocation(nil), r.calls...)
}

// Labels returns the label of every invocation, in order.
func (r *Runner) Labels() []string {
	calls := r.Calls()
	labels := make([]string, len(calls))
	for i, c := range calls {
		labels[i] = c.Label
	}
	return labels
}
