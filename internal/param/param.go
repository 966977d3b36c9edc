// Package param models the positional arguments and flagged options a
// synthesized command declares. Values are built from the keyword mappings
// of the !arg and !opt tags.
package param

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/LiboWorks/yamlcmd/internal/types"
)

// Kind distinguishes arguments from options.
type Kind int

const (
	KindArgument Kind = iota
	KindOption
)

func (k Kind) String() string {
	if k == KindOption {
		return "option"
	}
	return "argument"
}

// Param is one declared parameter of a command.
type Param interface {
	// Key is the canonical lookup key of the parameter's value.
	Key() string

	// Decls returns the declaration tokens as written.
	Decls() []string

	Kind() Kind

	// Type converts raw strings for this parameter.
	Type() types.ParamType

	// Default returns the converted default value, if any.
	Default() (any, bool)

	// Required reports whether a value must be supplied.
	Required() bool

	// Multiple reports whether the value is a list.
	Multiple() bool

	// EnvVar names the environment variable consulted when no value is given.
	EnvVar() string
}

// CanonicalKey normalizes a declaration token: leading dashes are stripped,
// the rest is lower-cased and every rune that is not a letter or digit
// becomes an underscore.
func CanonicalKey(decl string) string {
	s := strings.TrimLeft(decl, "-")
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, s)
}

func decls(kw *types.Kwargs, owner string) ([]string, error) {
	if !kw.Has("param_decls") {
		return nil, fmt.Errorf("%s requires param_decls", owner)
	}
	d, err := kw.Strings("param_decls")
	if err != nil {
		return nil, err
	}
	if len(d) == 0 {
		return nil, fmt.Errorf("%s param_decls must not be empty", owner)
	}
	for _, tok := range d {
		if strings.TrimLeft(tok, "-") == "" {
			return nil, fmt.Errorf("%s has an empty declaration %q", owner, tok)
		}
	}
	return d, nil
}

// paramType reads the `type` attribute: a built-in name, a value produced by
// !obj, or nothing (in which case the default's Go type decides).
func paramType(kw *types.Kwargs, def any) (types.ParamType, error) {
	v, ok := kw.Any("type")
	if !ok || v == nil {
		return inferType(def), nil
	}
	switch t := v.(type) {
	case types.ParamType:
		return t, nil
	case string:
		if b, ok := types.Builtin(t); ok {
			return b, nil
		}
		return nil, fmt.Errorf("unknown type %q", t)
	}
	return nil, fmt.Errorf("type must be a type name or an !obj value, got %T", v)
}

func inferType(def any) types.ParamType {
	if list, ok := def.([]any); ok && len(list) > 0 {
		def = list[0]
	}
	switch def.(type) {
	case int, int64, uint64:
		return types.Int{}
	case float64:
		return types.Float{}
	case bool:
		return types.Bool{}
	}
	return types.String{}
}

// convertDefault runs a raw YAML default through typ so that a bad default
// is reported when the document is resolved, not when the command runs.
func convertDefault(typ types.ParamType, def any, multiple bool) (any, error) {
	if multiple {
		list, ok := def.([]any)
		if !ok {
			list = []any{def}
		}
		out := make([]any, 0, len(list))
		for _, item := range list {
			v, err := convertScalar(typ, item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	if _, ok := def.([]any); ok {
		return nil, fmt.Errorf("default must be a single value")
	}
	return convertScalar(typ, def)
}

func convertScalar(typ types.ParamType, v any) (any, error) {
	switch v.(type) {
	case []any, map[string]any:
		return nil, fmt.Errorf("default %v is not a scalar", v)
	}
	converted, err := typ.Convert(fmt.Sprint(v))
	if err != nil {
		return nil, fmt.Errorf("invalid default: %w", err)
	}
	return converted, nil
}
