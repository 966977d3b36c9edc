package command

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/launcher"
	"github.com/LiboWorks/yamlcmd/internal/resolver"
)

func resolveSpec(t *testing.T, text, name string) *resolver.CommandSpec {
	t.Helper()
	doc, err := resolver.Resolve(resolver.Source{Text: text})
	require.NoError(t, err)
	spec, err := doc.Lookup(name)
	require.NoError(t, err)
	return spec
}

func capture(got *Values) Callback {
	return func(_ context.Context, v Values) error {
		*got = v
		return nil
	}
}

// execute runs the cobra command with args; it never falls back to os.Args.
func execute(r *Runnable, args ...string) error {
	cmd := r.Command()
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

const simpleCommand = `
simplecommand:
  script: "echo $1;echo $2"
  params:
    - !arg {param_decls: [argument]}
    - !opt {param_decls: ["--option"]}
`

func TestEndToEndSimpleCommand(t *testing.T) {
	spec := resolveSpec(t, simpleCommand, "simplecommand")

	var got Values
	r, err := Synthesize("simplecommand", spec, WithCallback(capture(&got)))
	require.NoError(t, err)

	require.NoError(t, execute(r, "arg", "--option=opt"))
	assert.Equal(t, Values{"argument": "arg", "option": "opt"}, got)
	assert.Equal(t, []string{"argument", "option"}, r.Keys())
	assert.Equal(t, "simplecommand", r.Name())
	assert.Equal(t, "echo $1;echo $2", r.Script())
}

const orderedCommand = `
ordered:
  script: /opt/tools/my\ tool.sh --verbose
  params:
    - !arg {param_decls: [a]}
    - !opt {param_decls: ["--b"]}
    - !arg {param_decls: [c]}
`

func TestDefaultCallbackOrdersValuesByDeclaration(t *testing.T) {
	rec := &launcher.Recorder{}
	r, err := Synthesize("ordered", resolveSpec(t, orderedCommand, "ordered"), WithLauncher(rec))
	require.NoError(t, err)

	require.NoError(t, r.Invoke(context.Background(), Values{"c": "2", "b": "x", "a": "1"}))
	assert.Equal(t, []string{"/opt/tools/my tool.sh", "--verbose", "1", "x", "2"}, rec.Last())

	require.NoError(t, execute(r, "1", "2", "--b", "x"))
	assert.Equal(t, []string{"/opt/tools/my tool.sh", "--verbose", "1", "x", "2"}, rec.Last())
}

func TestDefaultCallbackWithoutScript(t *testing.T) {
	spec := resolveSpec(t, `
noscript:
  params:
    - !arg {param_decls: [a]}
    - !opt {param_decls: ["--b"]}
    - !arg {param_decls: [c]}
`, "noscript")
	assert.False(t, spec.HasScript)

	rec := &launcher.Recorder{}
	r, err := Synthesize("noscript", spec, WithLauncher(rec))
	require.NoError(t, err)
	assert.Equal(t, "", r.Script())

	require.NoError(t, r.Invoke(context.Background(), Values{"a": "1", "b": "x", "c": "2"}))
	assert.Equal(t, []string{"1", "x", "2"}, rec.Last())
}

func TestDefaultCallbackMissingValue(t *testing.T) {
	rec := &launcher.Recorder{}
	r, err := Synthesize("ordered", resolveSpec(t, orderedCommand, "ordered"), WithLauncher(rec))
	require.NoError(t, err)

	err = r.Invoke(context.Background(), Values{"a": "1", "c": "2"})
	var missing *errs.MissingValueError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "b", missing.Key)
	assert.Empty(t, rec.Calls(), "nothing should be launched")
}

func TestDefaultCallbackPropagatesLaunchErrors(t *testing.T) {
	boom := errors.New("permission denied")
	rec := &launcher.Recorder{Err: boom}
	r, err := Synthesize("simplecommand", resolveSpec(t, simpleCommand, "simplecommand"), WithLauncher(rec))
	require.NoError(t, err)

	err = execute(r, "arg")
	assert.Same(t, boom, err)
	assert.Equal(t, []string{"echo", "$1;echo", "$2", "arg", ""}, rec.Last())
}

func TestRebind(t *testing.T) {
	rec := &launcher.Recorder{}
	orig, err := Synthesize("simplecommand", resolveSpec(t, simpleCommand, "simplecommand"), WithLauncher(rec))
	require.NoError(t, err)

	_, err = orig.Rebind(nil)
	assert.ErrorIs(t, err, errs.ErrNotCallable)

	var got Values
	rebound, err := orig.Rebind(capture(&got))
	require.NoError(t, err)
	assert.NotSame(t, orig.Command(), rebound.Command())

	require.NoError(t, execute(rebound, "x", "--option", "y"))
	assert.Equal(t, Values{"argument": "x", "option": "y"}, got)
	assert.Empty(t, rec.Calls(), "rebound command must not launch")

	require.NoError(t, execute(orig, "x"))
	assert.Len(t, rec.Calls(), 1, "original command keeps the default callback")
}

func TestBuildAll(t *testing.T) {
	doc, err := resolver.Resolve(resolver.Source{Text: "b:\n  script: one\na:\n  script: two\n"})
	require.NoError(t, err)

	rs, err := BuildAll(doc, WithLauncher(&launcher.Recorder{}))
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "b", rs[0].Name())
	assert.Equal(t, "a", rs[1].Name())
}

func TestSynthesizeNilSpec(t *testing.T) {
	_, err := Synthesize("x", nil)
	assert.True(t, errs.IsConfiguration(err))
}
