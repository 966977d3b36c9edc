// Package yamlcmd provides a public API for turning YAML command documents
// into cobra commands.
//
// A document maps command names to a script, help text and parameters:
//
//	greet:
//	  script: /usr/local/bin/greet.sh --from ${USER}
//	  help: "Greet someone"
//	  params:
//	    - !arg {param_decls: [name]}
//	    - !opt {param_decls: ["--shout", "-s"], is_flag: true}
//
// Basic usage:
//
//	cmds, names, err := yamlcmd.Commands("commands.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range names {
//	    root.AddCommand(cmds[name])
//	}
//
// With a custom callback:
//
//	doc, err := yamlcmd.Resolve("commands.yaml", "")
//	cmd, err := yamlcmd.Command("greet", doc, func(ctx context.Context, v yamlcmd.Values) error {
//	    fmt.Println("hello", v["name"])
//	    return nil
//	})
package yamlcmd

import (
	"github.com/spf13/cobra"

	"github.com/LiboWorks/yamlcmd/internal/command"
	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/launcher"
	"github.com/LiboWorks/yamlcmd/internal/resolver"
	"github.com/LiboWorks/yamlcmd/internal/types"
)

type (
	// Document is a resolved command document.
	Document = resolver.Document

	// CommandSpec describes one command of a Document.
	CommandSpec = resolver.CommandSpec

	// Runnable is a synthesized command and its bound callback.
	Runnable = command.Runnable

	// Callback is the execution target of a command.
	Callback = command.Callback

	// Values are the parsed parameter values, keyed by canonical key.
	Values = command.Values

	// ParamType converts raw command-line strings for a parameter.
	ParamType = types.ParamType

	// TypeFactory builds an !obj value from its keyword arguments.
	TypeFactory = types.Factory

	// Launcher starts the process behind the default callback.
	Launcher = launcher.Launcher

	// ConfigurationError reports a bad command document.
	ConfigurationError = errs.ConfigurationError

	// NotFoundError reports an unknown command name.
	NotFoundError = errs.NotFoundError

	// MissingValueError reports a declared parameter without a value.
	MissingValueError = errs.MissingValueError
)

// ErrNotCallable is returned when a nil callback is bound.
var ErrNotCallable = errs.ErrNotCallable

// Resolve parses a command document from a file path or from YAML text.
// Exactly one of path and text must be non-empty.
func Resolve(path, text string, opts ...Option) (*Document, error) {
	o := ApplyOptions(opts...)
	return resolver.Resolve(resolver.Source{Path: path, Text: text}, o.resolverOptions()...)
}

// ResolveAuto parses input as a file path if such a file exists, and as
// YAML text otherwise.
func ResolveAuto(input string, opts ...Option) (*Document, error) {
	o := ApplyOptions(opts...)
	return resolver.ResolveAuto(input, o.resolverOptions()...)
}

// ResolveFiles parses and merges every file matched by patterns. Patterns
// use doublestar syntax, e.g. `commands/**/*.yaml`.
func ResolveFiles(patterns []string, opts ...Option) (*Document, error) {
	o := ApplyOptions(opts...)
	return resolver.ResolveFiles(patterns, o.resolverOptions()...)
}

// Synthesize builds the Runnable for one spec. A nil callback installs the
// default, which launches the spec's script with the parameter values
// appended in declaration order.
func Synthesize(name string, spec *CommandSpec, callback Callback, opts ...Option) (*Runnable, error) {
	o := ApplyOptions(opts...)
	return command.Synthesize(name, spec, o.commandOptions(callback)...)
}

// Command looks up name in doc and returns its cobra command. An unknown
// name is a *NotFoundError.
func Command(name string, doc *Document, callback Callback, opts ...Option) (*cobra.Command, error) {
	spec, err := doc.Lookup(name)
	if err != nil {
		return nil, err
	}
	r, err := Synthesize(name, spec, callback, opts...)
	if err != nil {
		return nil, err
	}
	return r.Command(), nil
}

// Commands resolves input (a path or YAML text) and synthesizes every
// command with the default callback. The names are returned in document
// order.
func Commands(input string, opts ...Option) (map[string]*cobra.Command, []string, error) {
	o := ApplyOptions(opts...)
	doc, err := resolver.ResolveAuto(input, o.resolverOptions()...)
	if err != nil {
		return nil, nil, err
	}
	rs, err := command.BuildAll(doc, o.commandOptions(nil)...)
	if err != nil {
		return nil, nil, err
	}

	cmds := make(map[string]*cobra.Command, len(rs))
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		cmds[r.Name()] = r.Command()
		names = append(names, r.Name())
	}
	return cmds, names, nil
}
