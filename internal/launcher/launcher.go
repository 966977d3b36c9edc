// Package launcher starts the external processes behind synthesized commands.
// Launching is fire-and-forget: callers are not told how the child exits.
package launcher

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/syntax"
)

// ErrEmptyCommand is returned when there is nothing to launch.
var ErrEmptyCommand = errors.New("launcher: empty command line")

// Launcher starts argv[0] with the remaining entries as its arguments.
type Launcher interface {
	Launch(ctx context.Context, argv []string) error
}

// Func adapts an ordinary function to the Launcher interface.
type Func func(ctx context.Context, argv []string) error

// Launch calls f(ctx, argv).
func (f Func) Launch(ctx context.Context, argv []string) error {
	return f(ctx, argv)
}

// Quote renders argv as a single bash command line, for logs and listings.
func Quote(argv []string) string {
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			// Strings bash cannot represent, such as ones holding a NUL byte.
			q = strconv.Quote(arg)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}

// Recorder is a Launcher that records every command line instead of running
// it. Err, when set, is returned from each Launch after recording.
type Recorder struct {
	mu    sync.Mutex
	calls [][]string
	Err   error
}

// Launch implements Launcher.
func (r *Recorder) Launch(ctx context.Context, argv []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string(nil), argv...))
	return r.Err
}

// Calls returns a copy of the recorded command lines.
func (r *Recorder) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = append([]string(nil), c...)
	}
	return out
}

// Last returns the most recent command line, or nil.
func (r *Recorder) Last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return append([]string(nil), r.calls[len(r.calls)-1]...)
}
