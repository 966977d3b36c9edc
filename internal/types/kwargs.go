package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kwargs wraps a resolved YAML mapping used as constructor keyword
// arguments. Every accessor marks its key as consumed so Done can reject
// keys nobody asked for.
type Kwargs struct {
	values map[string]any
	used   map[string]bool
}

// NewKwargs wraps m. A nil map is treated as empty.
func NewKwargs(m map[string]any) *Kwargs {
	if m == nil {
		m = map[string]any{}
	}
	return &Kwargs{values: m, used: make(map[string]bool, len(m))}
}

// Has reports whether key is present.
func (k *Kwargs) Has(key string) bool {
	_, ok := k.values[key]
	return ok
}

// Any returns the raw value of key.
func (k *Kwargs) Any(key string) (any, bool) {
	k.used[key] = true
	v, ok := k.values[key]
	return v, ok
}

// String returns key as a string. A missing or null key yields def.
func (k *Kwargs) String(key, def string) (string, error) {
	v, ok := k.Any(key)
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %T", key, v)
	}
	return s, nil
}

// Bool returns key as a bool. A missing or null key yields def.
func (k *Kwargs) Bool(key string, def bool) (bool, error) {
	v, ok := k.Any(key)
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s: expected a boolean, got %T", key, v)
	}
	return b, nil
}

// Int returns key as an int and whether it was set.
func (k *Kwargs) Int(key string) (int, bool, error) {
	v, ok := k.Any(key)
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case uint64:
		return int(n), true, nil
	}
	return 0, false, fmt.Errorf("%s: expected an integer, got %T", key, v)
}

// Strings returns key as a list of strings. Scalars inside the list are
// formatted with %v so `choices: [1, 2]` works like `choices: ["1", "2"]`.
func (k *Kwargs) Strings(key string) ([]string, error) {
	v, ok := k.Any(key)
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", key, v)
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		switch item.(type) {
		case []any, map[string]any:
			return nil, fmt.Errorf("%s[%d]: expected a scalar, got %T", key, i, item)
		}
		out = append(out, fmt.Sprint(item))
	}
	return out, nil
}

// Unused returns the keys no accessor asked for, sorted.
func (k *Kwargs) Unused() []string {
	var keys []string
	for key := range k.values {
		if !k.used[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Done fails if any key was never consumed.
func (k *Kwargs) Done(owner string) error {
	if unused := k.Unused(); len(unused) > 0 {
		return fmt.Errorf("%s got unexpected keyword argument(s): %s", owner, strings.Join(unused, ", "))
	}
	return nil
}
