package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/LiboWorks/yamlcmd/internal/config"
)

func TestGetConfig(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvEnvFile, "")
	t.Setenv(config.EnvDebug, "")
	config.Reset()
	defer config.Reset()

	cfg := config.Get()
	if cfg == nil {
		t.Fatal("config should not be nil")
	}

	// Check defaults
	if !reflect.DeepEqual(cfg.ConfigPaths, []string{config.DefaultConfigPath}) {
		t.Errorf("expected default config path %q, got %v", config.DefaultConfigPath, cfg.ConfigPaths)
	}
	if !cfg.UsesDefaultPath() {
		t.Error("expected UsesDefaultPath to be true")
	}
	if len(cfg.EnvFiles) != 0 {
		t.Errorf("expected no env files, got %v", cfg.EnvFiles)
	}
	if cfg.DebugMode {
		t.Error("expected DebugMode to be false")
	}
}

func TestConfigFromEnv(t *testing.T) {
	sep := string(os.PathListSeparator)
	t.Setenv(config.EnvConfig, "a.yaml"+sep+" cmds/**/*.yaml "+sep)
	t.Setenv(config.EnvEnvFile, ".env")
	t.Setenv(config.EnvWorkDir, "/srv")
	t.Setenv(config.EnvDebug, "1")
	config.Reset()
	defer config.Reset()

	cfg := config.Get()

	if want := []string{"a.yaml", "cmds/**/*.yaml"}; !reflect.DeepEqual(cfg.ConfigPaths, want) {
		t.Errorf("expected config paths %v, got %v", want, cfg.ConfigPaths)
	}
	if cfg.UsesDefaultPath() {
		t.Error("expected UsesDefaultPath to be false")
	}
	if !reflect.DeepEqual(cfg.EnvFiles, []string{".env"}) {
		t.Errorf("expected env files [.env], got %v", cfg.EnvFiles)
	}
	if cfg.WorkDir != "/srv" {
		t.Errorf("expected work dir /srv, got %q", cfg.WorkDir)
	}
	if !cfg.DebugMode {
		t.Error("expected DebugMode to be true")
	}
}

func TestNewConfigBuilder(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewConfig().
		WithConfigPaths("one.yaml", "two.yaml").
		WithEnvFiles("a.env").
		WithEnvFiles("b.env").
		WithWorkDir(dir).
		WithDebug(true)

	if !reflect.DeepEqual(cfg.ConfigPaths, []string{"one.yaml", "two.yaml"}) {
		t.Errorf("unexpected config paths %v", cfg.ConfigPaths)
	}
	if !reflect.DeepEqual(cfg.EnvFiles, []string{"a.env", "b.env"}) {
		t.Errorf("unexpected env files %v", cfg.EnvFiles)
	}
	if cfg.WorkDir != dir {
		t.Errorf("expected work dir %q, got %q", dir, cfg.WorkDir)
	}
	if !cfg.DebugMode {
		t.Error("expected debug to be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	if got := config.NewConfig().WithConfigPaths().ConfigPaths; len(got) != 1 {
		t.Errorf("empty WithConfigPaths should keep the default, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr bool
	}{
		{"defaults", config.NewConfig(), false},
		{"no paths", &config.Config{}, true},
		{"blank path", config.NewConfig().WithConfigPaths(" "), true},
		{"missing work dir", config.NewConfig().WithWorkDir("/nonexistent/dir"), true},
		{"work dir is a file", config.NewConfig().WithWorkDir(file), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigSingleton(t *testing.T) {
	config.Reset()
	defer config.Reset()

	cfg1 := config.Get()
	cfg2 := config.Get()

	if cfg1 != cfg2 {
		t.Error("Get() should return the same instance")
	}
}
