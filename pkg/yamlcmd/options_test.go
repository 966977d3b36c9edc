package yamlcmd_test

import (
	"testing"

	"github.com/LiboWorks/yamlcmd/internal/launcher"
	"github.com/LiboWorks/yamlcmd/internal/types"
	"github.com/LiboWorks/yamlcmd/pkg/yamlcmd"
)

func TestDefaultOptions(t *testing.T) {
	opts := yamlcmd.DefaultOptions()

	if opts.Registry == nil {
		t.Fatal("expected a default registry")
	}
	if _, ok := opts.Registry.Lookup("click.Choice"); !ok {
		t.Error("default registry should know click.Choice")
	}
	if opts.Launcher != nil {
		t.Error("Launcher should be nil by default")
	}
	if opts.WorkDir != "" {
		t.Errorf("expected empty WorkDir, got %s", opts.WorkDir)
	}
	if opts.Env != nil {
		t.Errorf("expected no env overrides, got %v", opts.Env)
	}
}

func TestWithType(t *testing.T) {
	factory := func(map[string]any) (any, error) { return types.String{}, nil }
	opts := yamlcmd.ApplyOptions(yamlcmd.WithType("acme.Name", factory))

	if _, ok := opts.Registry.Lookup("acme.Name"); !ok {
		t.Error("acme.Name should be registered")
	}
	if _, ok := yamlcmd.DefaultOptions().Registry.Lookup("acme.Name"); ok {
		t.Error("registering a type must not leak into later defaults")
	}
}

func TestWithRegistry(t *testing.T) {
	r := types.NewRegistry()
	opts := yamlcmd.ApplyOptions(yamlcmd.WithRegistry(r))

	if opts.Registry != r {
		t.Error("expected the given registry")
	}
}

func TestWithLauncher(t *testing.T) {
	rec := &launcher.Recorder{}
	opts := yamlcmd.ApplyOptions(yamlcmd.WithLauncher(rec))

	if opts.Launcher != rec {
		t.Error("expected the given launcher")
	}
}

func TestWithWorkDir(t *testing.T) {
	opts := yamlcmd.ApplyOptions(yamlcmd.WithWorkDir("/srv/jobs"))

	if opts.WorkDir != "/srv/jobs" {
		t.Errorf("expected WorkDir '/srv/jobs', got %s", opts.WorkDir)
	}
}

func TestApplyOptionsChaining(t *testing.T) {
	opts := yamlcmd.ApplyOptions(
		yamlcmd.WithEnv(map[string]string{"A": "1", "B": "2"}),
		yamlcmd.WithEnv(map[string]string{"B": "3"}),
		yamlcmd.WithWorkDir("./run"),
	)

	if opts.Env["A"] != "1" || opts.Env["B"] != "3" {
		t.Errorf("unexpected env %v", opts.Env)
	}
	if opts.WorkDir != "./run" {
		t.Errorf("expected WorkDir './run', got %s", opts.WorkDir)
	}
}
