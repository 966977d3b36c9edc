package resolver

import (
	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/param"
)

// CommandSpec is the declarative description of one command.
type CommandSpec struct {
	Name string

	// Script is the command line run by the default callback. HasScript
	// tells an absent key apart from an empty string.
	Script    string
	HasScript bool

	Help string

	// Params in declaration order; this is the order the default callback
	// passes values to the script.
	Params []param.Param

	// Extra holds every other key, forwarded to command construction.
	// ExtraKeys lists them in source order.
	Extra     map[string]any
	ExtraKeys []string

	// Source is the file (or "<text>") the spec came from.
	Source string
}

// Keys returns the canonical lookup keys of Params, in order.
func (s *CommandSpec) Keys() []string {
	keys := make([]string, len(s.Params))
	for i, p := range s.Params {
		keys[i] = p.Key()
	}
	return keys
}

// Document maps command names to specs and remembers the source order.
type Document struct {
	names    []string
	commands map[string]*CommandSpec
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{commands: make(map[string]*CommandSpec)}
}

// Names returns the command names in source order.
func (d *Document) Names() []string {
	return append([]string(nil), d.names...)
}

// Get looks up one command.
func (d *Document) Get(name string) (*CommandSpec, bool) {
	spec, ok := d.commands[name]
	return spec, ok
}

// Lookup is Get returning a NotFoundError for unknown names.
func (d *Document) Lookup(name string) (*CommandSpec, error) {
	spec, ok := d.commands[name]
	if !ok {
		return nil, &errs.NotFoundError{Resource: "command", ID: name}
	}
	return spec, nil
}

// Len is the number of commands.
func (d *Document) Len() int {
	return len(d.names)
}

func (d *Document) add(spec *CommandSpec) error {
	if prev, ok := d.commands[spec.Name]; ok {
		return errs.Configf(spec.Source, "command %q is already defined in %s", spec.Name, prev.Source)
	}
	d.names = append(d.names, spec.Name)
	d.commands[spec.Name] = spec
	return nil
}

// Merge appends the commands of other. A name defined in both documents is
// a ConfigurationError and leaves d unchanged.
func (d *Document) Merge(other *Document) error {
	for _, name := range other.names {
		if prev, ok := d.commands[name]; ok {
			return errs.Configf(other.commands[name].Source, "command %q is already defined in %s", name, prev.Source)
		}
	}
	for _, name := range other.names {
		_ = d.add(other.commands[name])
	}
	return nil
}
