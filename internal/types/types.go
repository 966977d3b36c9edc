// Package types holds the value types a command parameter can declare and
// the registry the !obj tag resolves class names against.
package types

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParamType converts a raw command-line string into a typed value.
type ParamType interface {
	// Name is shown in usage output (e.g. "int", "choice").
	Name() string

	// Convert parses value or reports why it is invalid.
	Convert(value string) (any, error)
}

// String accepts any input unchanged.
type String struct{}

func (String) Name() string { return "string" }
func (String) Convert(value string) (any, error) { return value, nil }

// Int parses base-10 integers.
type Int struct{}

func (Int) Name() string { return "int" }

func (Int) Convert(value string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid integer", value)
	}
	return n, nil
}

// Float parses floating point numbers.
type Float struct{}

func (Float) Name() string { return "float" }

func (Float) Convert(value string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid float", value)
	}
	return f, nil
}

// Bool accepts the usual spellings of true and false.
type Bool struct{}

func (Bool) Name() string { return "bool" }

func (Bool) Convert(value string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return nil, fmt.Errorf("%q is not a valid boolean", value)
}

// Choice restricts input to a fixed set of strings.
type Choice struct {
	Choices       []string
	CaseSensitive bool
}

func (c *Choice) Name() string { return "choice" }

// Convert returns the matching choice as declared, so a case-insensitive
// match still yields the canonical spelling.
func (c *Choice) Convert(value string) (any, error) {
	for _, choice := range c.Choices {
		if choice == value || (!c.CaseSensitive && strings.EqualFold(choice, value)) {
			return choice, nil
		}
	}
	return nil, fmt.Errorf("%q is not one of %s", value, strings.Join(quoteAll(c.Choices), ", "))
}

// IntRange is an Int bounded by optional Min and Max.
type IntRange struct {
	Min, Max       int
	HasMin, HasMax bool
	Clamp          bool
}

func (r *IntRange) Name() string { return "int range" }

func (r *IntRange) Convert(value string) (any, error) {
	v, err := Int{}.Convert(value)
	if err != nil {
		return nil, err
	}
	n := v.(int)
	if r.HasMin && n < r.Min {
		if !r.Clamp {
			return nil, fmt.Errorf("%d is smaller than the minimum %d", n, r.Min)
		}
		n = r.Min
	}
	if r.HasMax && n > r.Max {
		if !r.Clamp {
			return nil, fmt.Errorf("%d is larger than the maximum %d", n, r.Max)
		}
		n = r.Max
	}
	return n, nil
}

// Path is a filesystem path, optionally required to exist.
type Path struct {
	Exists   bool
	FileOkay bool
	DirOkay  bool
}

func (p *Path) Name() string { return "path" }

func (p *Path) Convert(value string) (any, error) {
	info, err := os.Stat(value)
	if err != nil {
		if p.Exists {
			return nil, fmt.Errorf("path %q does not exist", value)
		}
		return value, nil
	}
	if info.IsDir() && !p.DirOkay {
		return nil, fmt.Errorf("path %q is a directory", value)
	}
	if !info.IsDir() && !p.FileOkay {
		return nil, fmt.Errorf("path %q is a file", value)
	}
	return value, nil
}

// Builtin returns the scalar type registered under a plain `type:` name.
func Builtin(name string) (ParamType, bool) {
	switch strings.ToLower(name) {
	case "str", "string", "text":
		return String{}, true
	case "int", "integer":
		return Int{}, true
	case "float", "number":
		return Float{}, true
	case "bool", "boolean":
		return Bool{}, true
	}
	return nil, false
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strconv.Quote(s)
	}
	return out
}
