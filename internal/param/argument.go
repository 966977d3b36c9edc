package param

import (
	"fmt"
	"strings"

	"github.com/LiboWorks/yamlcmd/internal/types"
)

// Argument is a positional parameter.
type Argument struct {
	decls      []string
	key        string
	typ        types.ParamType
	required   bool
	def        any
	hasDefault bool
	nargs      int
	envvar     string
	metavar    string
}

// NewArgument builds an Argument from the keyword mapping of an !arg tag.
// Recognized keys: param_decls, type, required, default, nargs, envvar,
// metavar.
func NewArgument(kwargs map[string]any) (*Argument, error) {
	kw := types.NewKwargs(kwargs)

	d, err := decls(kw, "argument")
	if err != nil {
		return nil, err
	}
	if len(d) != 1 {
		return nil, fmt.Errorf("argument takes exactly one declaration, got %d", len(d))
	}
	if strings.HasPrefix(d[0], "-") {
		return nil, fmt.Errorf("argument %q must not start with a dash", d[0])
	}
	a := &Argument{decls: d, key: CanonicalKey(d[0]), nargs: 1}

	nargs, ok, err := kw.Int("nargs")
	if err != nil {
		return nil, err
	}
	if ok {
		if nargs == 0 || nargs < -1 {
			return nil, fmt.Errorf("argument %s: nargs must be positive or -1, got %d", a.key, nargs)
		}
		a.nargs = nargs
	}

	rawDef, hasDef := kw.Any("default")
	hasDef = hasDef && rawDef != nil

	if a.typ, err = paramType(kw, rawDef); err != nil {
		return nil, fmt.Errorf("argument %s: %w", a.key, err)
	}
	if hasDef {
		if a.def, err = convertDefault(a.typ, rawDef, a.Multiple()); err != nil {
			return nil, fmt.Errorf("argument %s: %w", a.key, err)
		}
		a.hasDefault = true
	}

	if a.required, err = kw.Bool("required", !hasDef && a.nargs > 0); err != nil {
		return nil, err
	}
	if a.envvar, err = kw.String("envvar", ""); err != nil {
		return nil, err
	}
	if a.metavar, err = kw.String("metavar", ""); err != nil {
		return nil, err
	}

	if err := kw.Done("argument " + a.key); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Argument) Key() string { return a.key }
func (a *Argument) Decls() []string { return append([]string(nil), a.decls...) }
func (a *Argument) Kind() Kind { return KindArgument }
func (a *Argument) Type() types.ParamType { return a.typ }
func (a *Argument) Default() (any, bool) { return a.def, a.hasDefault }
func (a *Argument) Required() bool { return a.required }
func (a *Argument) Multiple() bool { return a.nargs != 1 }
func (a *Argument) EnvVar() string { return a.envvar }

// Nargs is the number of positional tokens consumed; -1 means all remaining.
func (a *Argument) Nargs() int { return a.nargs }

// Variadic reports whether the argument absorbs all remaining tokens.
func (a *Argument) Variadic() bool { return a.nargs == -1 }

// Metavar is the placeholder shown in usage lines.
func (a *Argument) Metavar() string {
	name := a.metavar
	if name == "" {
		name = strings.ToUpper(a.key)
	}
	switch {
	case a.Variadic():
		name += "..."
	case a.nargs > 1:
		name = fmt.Sprintf("%s{%d}", name, a.nargs)
	}
	if !a.required {
		name = "[" + name + "]"
	}
	return name
}
