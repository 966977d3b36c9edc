package yamlcmd

import (
	"os"

	"github.com/LiboWorks/yamlcmd/internal/command"
	"github.com/LiboWorks/yamlcmd/internal/launcher"
	"github.com/LiboWorks/yamlcmd/internal/resolver"
	"github.com/LiboWorks/yamlcmd/internal/types"
)

// Version information for yamlcmd.
const (
	// Version is the current version of yamlcmd.
	Version = "0.1.0"
)

// Options configures resolution and synthesis.
type Options struct {
	// Registry resolves the class names of !obj values.
	Registry *types.Registry

	// Launcher starts the scripts of default callbacks. When nil, scripts
	// run through os/exec in WorkDir.
	Launcher Launcher

	// WorkDir is the working directory of launched scripts.
	WorkDir string

	// Env overrides process environment variables for ${NAME} substitution
	// and envvar fallbacks.
	Env map[string]string
}

// DefaultOptions returns a new Options with default values.
func DefaultOptions() *Options {
	return &Options{
		Registry: types.DefaultRegistry(),
	}
}

// Option is a functional option for configuring resolution and synthesis.
type Option func(*Options)

// WithType registers a factory for `!obj {class: id}`. id must have the form
// module.TypeName.
func WithType(id string, factory TypeFactory) Option {
	return func(o *Options) {
		if o.Registry == nil {
			o.Registry = types.DefaultRegistry()
		}
		o.Registry.Register(id, factory)
	}
}

// WithRegistry replaces the !obj registry.
func WithRegistry(r *types.Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithLauncher sets how default callbacks start their scripts.
func WithLauncher(l Launcher) Option {
	return func(o *Options) {
		o.Launcher = l
	}
}

// WithWorkDir sets the working directory of launched scripts.
func WithWorkDir(dir string) Option {
	return func(o *Options) {
		o.WorkDir = dir
	}
}

// WithEnv overrides environment variables. Variables not in env are still
// read from the process environment.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string, len(env))
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// ApplyOptions applies functional options to a default Options.
func ApplyOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) lookupEnv(name string) (string, bool) {
	if v, ok := o.Env[name]; ok {
		return v, true
	}
	return os.LookupEnv(name)
}

func (o *Options) resolverOptions() []resolver.Option {
	return []resolver.Option{
		resolver.WithRegistry(o.Registry),
		resolver.WithLookupEnv(o.lookupEnv),
	}
}

func (o *Options) commandOptions(cb Callback) []command.Option {
	l := o.Launcher
	if l == nil {
		l = launcher.NewExec(launcher.ExecConfig{Dir: o.WorkDir})
	}
	opts := []command.Option{
		command.WithLauncher(l),
		command.WithLookupEnv(o.lookupEnv),
	}
	if cb != nil {
		opts = append(opts, command.WithCallback(cb))
	}
	return opts
}
