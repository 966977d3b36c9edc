// Package testing provides test utilities and helpers for yamlcmd tests.
// Commands run through the real os/exec launcher against a recording
// script, so the command line a script receives can be asserted on.
package testing

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LiboWorks/yamlcmd/internal/command"
	"github.com/LiboWorks/yamlcmd/internal/launcher"
	"github.com/LiboWorks/yamlcmd/internal/resolver"
)

// RecorderScript is the name of the script installed in every output
// directory. It writes its arguments, one per line, to RecordFile.
const (
	RecorderScript = "record args.sh"
	RecordFile     = "args.out"
)

const recorderBody = `#!/bin/sh
printf '%s\n' "$@" > args.tmp && mv args.tmp args.out
`

// TestFixture represents a command document fixture
type TestFixture struct {
	Name     string
	YAMLPath string
}

// TestResult holds the results of running a synthesized command
type TestResult struct {
	// Argv is what the launched script received, without its own name
	Argv     []string
	Duration time.Duration
}

// TestRunner provides utilities for running command documents end to end
type TestRunner struct {
	RepoRoot    string
	FixturesDir string
	OutputDir   string
	t           *testing.T
}

// NewTestRunner creates a new test runner with an isolated output directory
// holding the recorder script
func NewTestRunner(t *testing.T) (*TestRunner, error) {
	t.Helper()

	// Find repository root
	repoRoot, err := findRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find repo root: %w", err)
	}

	outputDir := t.TempDir()
	script := filepath.Join(outputDir, RecorderScript)
	if err := os.WriteFile(script, []byte(recorderBody), 0o755); err != nil {
		return nil, fmt.Errorf("failed to write recorder script: %w", err)
	}

	return &TestRunner{
		RepoRoot:    repoRoot,
		FixturesDir: filepath.Join(repoRoot, "testdata", "fixtures"),
		OutputDir:   outputDir,
		t:           t,
	}, nil
}

// findRepoRoot finds the repository root by looking for go.mod
func findRepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod in any parent directory")
		}
		dir = parent
	}
}

// GetFixture returns a test fixture by name
func (r *TestRunner) GetFixture(name string) TestFixture {
	return TestFixture{
		Name:     name,
		YAMLPath: filepath.Join(r.FixturesDir, name+".yaml"),
	}
}

// Env returns the only variables a run sees: YAMLCMD_IT_DIR points at the
// output directory so documents can reference the recorder script.
func (r *TestRunner) Env(extra map[string]string) map[string]string {
	env := map[string]string{"YAMLCMD_IT_DIR": r.OutputDir}
	for k, v := range extra {
		env[k] = v
	}
	return env
}

// Run resolves the fixture, executes the named command with args and waits
// for the recorder script to report its arguments.
func (r *TestRunner) Run(fixture TestFixture, name string, args []string, timeout time.Duration, env map[string]string) (*TestResult, error) {
	r.t.Helper()
	_ = os.Remove(filepath.Join(r.OutputDir, RecordFile))

	vars := r.Env(env)
	lookup := func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}

	doc, err := resolver.Resolve(resolver.Source{Path: fixture.YAMLPath}, resolver.WithLookupEnv(lookup))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", fixture.Name, err)
	}
	spec, err := doc.Lookup(name)
	if err != nil {
		return nil, err
	}
	runnable, err := command.Synthesize(name, spec,
		command.WithLookupEnv(lookup),
		command.WithLauncher(launcher.NewExec(launcher.ExecConfig{Dir: r.OutputDir})))
	if err != nil {
		return nil, err
	}
	cmd := runnable.Command()

	start := time.Now()
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	argv, err := r.waitForRecord(timeout)
	if err != nil {
		return nil, err
	}
	return &TestResult{Argv: argv, Duration: time.Since(start)}, nil
}

func (r *TestRunner) waitForRecord(timeout time.Duration) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	path := filepath.Join(r.OutputDir, RecordFile)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		if b, err := os.ReadFile(path); err == nil {
			out := strings.TrimSuffix(string(b), "\n")
			if out == "" {
				return []string{}, nil
			}
			return strings.Split(out, "\n"), nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("script did not run within %s", timeout)
		case <-tick.C:
		}
	}
}

// Assertions provides test assertion helpers
type Assertions struct {
	t      *testing.T
	result *TestResult
}

// NewAssertions creates a new assertions helper
func NewAssertions(t *testing.T, result *TestResult) *Assertions {
	return &Assertions{t: t, result: result}
}

// ArgvEquals asserts the exact arguments the script received
func (a *Assertions) ArgvEquals(expected ...string) *Assertions {
	a.t.Helper()
	if strings.Join(a.result.Argv, "\x00") != strings.Join(expected, "\x00") || len(a.result.Argv) != len(expected) {
		a.t.Errorf("script received %q, expected %q", a.result.Argv, expected)
	}
	return a
}

// ArgvContains asserts one argument was received
func (a *Assertions) ArgvContains(expected string) *Assertions {
	a.t.Helper()
	for _, arg := range a.result.Argv {
		if arg == expected {
			return a
		}
	}
	a.t.Errorf("script arguments %q do not contain %q", a.result.Argv, expected)
	return a
}

// DurationLessThan asserts the run took less than the specified duration
func (a *Assertions) DurationLessThan(d time.Duration) *Assertions {
	a.t.Helper()
	if a.result.Duration >= d {
		a.t.Errorf("run took %s, expected less than %s", a.result.Duration, d)
	}
	return a
}
