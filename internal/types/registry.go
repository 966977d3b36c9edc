package types

import (
	"fmt"
	"sort"
	"strings"
)

// Factory builds a value from the keyword arguments of an !obj mapping
// (everything except `class`).
type Factory func(kwargs map[string]any) (any, error)

// Registry maps `module.Name` identifiers to factories. It is the only way an
// !obj tag can produce a value; there is no reflection-based lookup.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry returns a registry holding the built-in object types:
// types.Choice, types.IntRange and types.Path. Each is also registered under
// the click module name so existing clickyaml documents resolve unchanged.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, module := range []string{"types", "click"} {
		r.Register(module+".Choice", newChoice)
		r.Register(module+".IntRange", newIntRange)
		r.Register(module+".Path", newPath)
	}
	return r
}

// Register adds or replaces the factory for id.
func (r *Registry) Register(id string, f Factory) {
	r.factories[id] = f
}

// Lookup returns the factory registered under id.
func (r *Registry) Lookup(id string) (Factory, bool) {
	f, ok := r.factories[id]
	return f, ok
}

// New splits id into module and type name, finds its factory and calls it.
func (r *Registry) New(id string, kwargs map[string]any) (any, error) {
	module, name, ok := SplitClass(id)
	if !ok {
		return nil, fmt.Errorf("class %q must have the form module.TypeName", id)
	}
	if !r.hasModule(module) {
		return nil, fmt.Errorf("module %q is not registered", module)
	}
	f, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("module %q has no type %q", module, name)
	}
	v, err := f(kwargs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return v, nil
}

// List returns the registered identifiers, sorted.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy, so callers can extend the defaults
// without touching a shared registry.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for id, f := range r.factories {
		c.factories[id] = f
	}
	return c
}

func (r *Registry) hasModule(module string) bool {
	prefix := module + "."
	for id := range r.factories {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// SplitClass splits "module.TypeName" at the last dot.
func SplitClass(id string) (module, name string, ok bool) {
	i := strings.LastIndex(id, ".")
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}

func newChoice(kwargs map[string]any) (any, error) {
	kw := NewKwargs(kwargs)
	choices, err := kw.Strings("choices")
	if err != nil {
		return nil, err
	}
	if len(choices) == 0 {
		return nil, fmt.Errorf("choices must not be empty")
	}
	caseSensitive, err := kw.Bool("case_sensitive", true)
	if err != nil {
		return nil, err
	}
	if err := kw.Done("Choice"); err != nil {
		return nil, err
	}
	return &Choice{Choices: choices, CaseSensitive: caseSensitive}, nil
}

func newIntRange(kwargs map[string]any) (any, error) {
	kw := NewKwargs(kwargs)
	r := &IntRange{}
	var err error
	if r.Min, r.HasMin, err = kw.Int("min"); err != nil {
		return nil, err
	}
	if r.Max, r.HasMax, err = kw.Int("max"); err != nil {
		return nil, err
	}
	if r.Clamp, err = kw.Bool("clamp", false); err != nil {
		return nil, err
	}
	if r.HasMin && r.HasMax && r.Min > r.Max {
		return nil, fmt.Errorf("min %d is larger than max %d", r.Min, r.Max)
	}
	if err := kw.Done("IntRange"); err != nil {
		return nil, err
	}
	return r, nil
}

func newPath(kwargs map[string]any) (any, error) {
	kw := NewKwargs(kwargs)
	p := &Path{}
	var err error
	if p.Exists, err = kw.Bool("exists", false); err != nil {
		return nil, err
	}
	if p.FileOkay, err = kw.Bool("file_okay", true); err != nil {
		return nil, err
	}
	if p.DirOkay, err = kw.Bool("dir_okay", true); err != nil {
		return nil, err
	}
	if err := kw.Done("Path"); err != nil {
		return nil, err
	}
	return p, nil
}
