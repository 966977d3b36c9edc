// Package command turns resolved command specs into runnable cobra commands.
//
// By default a command launches its script with the parsed parameter values
// appended in declaration order:
//
//	r, err := command.Synthesize("deploy", spec)
//	root.AddCommand(r.Command())
//
// A custom Callback replaces the launch with arbitrary Go code.
package command

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/launcher"
	"github.com/LiboWorks/yamlcmd/internal/logger"
	"github.com/LiboWorks/yamlcmd/internal/resolver"
)

// Values holds the parsed parameter values of one invocation, keyed by the
// canonical parameter key.
type Values map[string]any

// Callback is the execution target of a command.
type Callback func(ctx context.Context, values Values) error

// Option configures Synthesize and BuildAll.
type Option func(*options)

type options struct {
	callback  Callback
	launcher  launcher.Launcher
	lookupEnv func(string) (string, bool)
}

// WithCallback binds cb instead of the default script-launching callback.
func WithCallback(cb Callback) Option {
	return func(o *options) {
		o.callback = cb
	}
}

// WithLauncher sets how the default callback starts processes. The default
// is launcher.NewExec with inherited stdio.
func WithLauncher(l launcher.Launcher) Option {
	return func(o *options) {
		o.launcher = l
	}
}

// WithLookupEnv replaces os.LookupEnv for envvar fallbacks.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookupEnv = fn
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.launcher == nil {
		o.launcher = launcher.NewExec(launcher.ExecConfig{})
	}
	if o.lookupEnv == nil {
		o.lookupEnv = os.LookupEnv
	}
	return o
}

// Runnable is a synthesized command: the cobra command handed to the CLI and
// the callback it runs. A Runnable is not modified after construction;
// Rebind returns a new one.
type Runnable struct {
	name     string
	spec     *resolver.CommandSpec
	keys     []string
	callback Callback
	cmd      *cobra.Command
	o        *options
}

// Synthesize builds the Runnable for the command called name. The spec is
// only read. Parameter problems that would otherwise surface on the first
// run, such as duplicate keys or clashing flags, are reported here as a
// *errs.ConfigurationError.
func Synthesize(name string, spec *resolver.CommandSpec, opts ...Option) (*Runnable, error) {
	if spec == nil {
		return nil, errs.Configf("", "command %q has no spec", name)
	}
	return build(name, spec, applyOptions(opts))
}

func build(name string, spec *resolver.CommandSpec, o *options) (*Runnable, error) {
	sig, err := checkSignature(spec)
	if err != nil {
		return nil, configError(spec, err)
	}
	pt, err := readPassthrough(spec)
	if err != nil {
		return nil, configError(spec, err)
	}

	r := &Runnable{name: name, spec: spec, keys: sig.keys, o: o}
	r.callback = o.callback
	if r.callback == nil {
		r.callback = DefaultCallback(name, spec.Script, r.keys, o.launcher)
	}
	r.cmd = newCobraCommand(r, sig, pt)

	logger.Debug("[DEBUG] Synthesized command %s with %d parameter(s)\n", name, len(r.keys))
	return r, nil
}

// Name is the command name.
func (r *Runnable) Name() string { return r.name }

// Command is the cobra command to add to a root command or execute directly.
func (r *Runnable) Command() *cobra.Command { return r.cmd }

// Script is the spec's script line, or "" when the spec has none.
func (r *Runnable) Script() string { return r.spec.Script }

// Keys are the canonical parameter keys in declaration order.
func (r *Runnable) Keys() []string { return append([]string(nil), r.keys...) }

// Callback is the bound execution target.
func (r *Runnable) Callback() Callback { return r.callback }

// Invoke runs the callback with values, bypassing argument parsing.
func (r *Runnable) Invoke(ctx context.Context, values Values) error {
	return r.callback(ctx, values)
}

// Rebind returns a new Runnable for the same spec with cb as its execution
// target. The cobra command is rebuilt; r keeps working unchanged.
func (r *Runnable) Rebind(cb Callback) (*Runnable, error) {
	if cb == nil {
		return nil, errs.ErrNotCallable
	}
	o := *r.o
	o.callback = cb
	return build(r.name, r.spec, &o)
}

// DefaultCallback launches script with the values of keys appended, in
// order. Launching does not wait for the process; launch errors are returned
// as is.
func DefaultCallback(name, script string, keys []string, l launcher.Launcher) Callback {
	keys = append([]string(nil), keys...)
	return func(ctx context.Context, values Values) error {
		argv, err := BuildArgv(name, script, keys, values)
		if err != nil {
			return err
		}
		return l.Launch(ctx, argv)
	}
}

// BuildAll synthesizes every command of doc, in document order.
func BuildAll(doc *resolver.Document, opts ...Option) ([]*Runnable, error) {
	o := applyOptions(opts)
	out := make([]*Runnable, 0, doc.Len())
	for _, name := range doc.Names() {
		spec, _ := doc.Get(name)
		r, err := build(name, spec, o)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
