package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryChoice(t *testing.T) {
	r := DefaultRegistry()

	v, err := r.New("types.Choice", map[string]any{
		"choices":        []any{"1", "2", "3", "ALL"},
		"case_sensitive": false,
	})
	require.NoError(t, err)

	choice, ok := v.(*Choice)
	require.True(t, ok, "expected *Choice, got %T", v)
	assert.Equal(t, []string{"1", "2", "3", "ALL"}, choice.Choices)
	assert.False(t, choice.CaseSensitive)

	got, err := choice.Convert("all")
	require.NoError(t, err)
	assert.Equal(t, "ALL", got)

	_, err = choice.Convert("4")
	assert.Error(t, err)
}

func TestRegistryRejectsUnknownClasses(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name string
		id   string
	}{
		{"no module", "Choice"},
		{"trailing dot", "types."},
		{"unknown module", "os.File"},
		{"unknown type", "types.Nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.New(tt.id, nil)
			assert.Error(t, err)
		})
	}
}

func TestRegistryRejectsUnexpectedKwargs(t *testing.T) {
	_, err := DefaultRegistry().New("types.Choice", map[string]any{
		"choices": []any{"a"},
		"colour":  "red",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestRegistryCustomFactory(t *testing.T) {
	r := DefaultRegistry().Clone()
	r.Register("acme.Upper", func(kwargs map[string]any) (any, error) {
		return String{}, nil
	})

	v, err := r.New("acme.Upper", nil)
	require.NoError(t, err)
	assert.Equal(t, String{}, v)

	_, ok := DefaultRegistry().Lookup("acme.Upper")
	assert.False(t, ok, "Clone must not leak registrations into new defaults")
	assert.Contains(t, r.List(), "acme.Upper")
}

func TestIntRange(t *testing.T) {
	strict, err := newIntRange(map[string]any{"min": 1, "max": 5})
	require.NoError(t, err)
	clamped, err := newIntRange(map[string]any{"min": 1, "max": 5, "clamp": true})
	require.NoError(t, err)

	_, err = strict.(ParamType).Convert("9")
	assert.Error(t, err)

	v, err := clamped.(ParamType).Convert("9")
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = newIntRange(map[string]any{"min": 5, "max": 1})
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	p := &Path{Exists: true, FileOkay: true, DirOkay: false}

	_, err := p.Convert(file)
	assert.NoError(t, err)
	_, err = p.Convert(dir)
	assert.Error(t, err)
	_, err = p.Convert(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"str", "hello", "hello"},
		{"INT", "42", 42},
		{"float", "1.5", 1.5},
		{"boolean", "yes", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := Builtin(tt.name)
			require.True(t, ok)
			got, err := typ.Convert(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Builtin("complex")
	assert.False(t, ok)
}
