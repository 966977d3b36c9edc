// Package config provides centralized configuration management for yamlcmd.
// It handles environment variables, default values, and configuration validation.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Config holds all configuration settings for yamlcmd
type Config struct {
	// Command documents: paths or doublestar patterns, resolved in order
	ConfigPaths []string

	// .env files loaded before the documents are resolved
	EnvFiles []string

	// Working directory of launched scripts (empty: current directory)
	WorkDir string

	// Logging
	DebugMode bool
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Default values
const (
	DefaultConfigPath = "yamlcmd.yaml"
)

// Environment variables read by Get
const (
	EnvConfig  = "YAMLCMD_CONFIG"
	EnvEnvFile = "YAMLCMD_ENV_FILE"
	EnvWorkDir = "YAMLCMD_WORKDIR"
	EnvDebug   = "YAMLCMD_DEBUG"
)

// Get returns the global configuration, loading from environment if not already loaded
func Get() *Config {
	configOnce.Do(func() {
		globalConfig = loadFromEnv()
	})
	return globalConfig
}

// Reset clears the global configuration, forcing reload on next Get()
// This is primarily useful for testing
func Reset() {
	configOnce = sync.Once{}
	globalConfig = nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv() *Config {
	return &Config{
		ConfigPaths: getEnvList(EnvConfig, []string{DefaultConfigPath}),
		EnvFiles:    getEnvList(EnvEnvFile, nil),
		WorkDir:     getEnv(EnvWorkDir, ""),
		DebugMode:   getEnvBool(EnvDebug, false),
	}
}

// NewConfig creates a new configuration with custom values
// This is useful for testing or programmatic configuration
func NewConfig() *Config {
	return &Config{
		ConfigPaths: []string{DefaultConfigPath},
	}
}

// WithConfigPaths replaces the command documents to load. An empty list
// keeps the current ones.
func (c *Config) WithConfigPaths(paths ...string) *Config {
	if len(paths) > 0 {
		c.ConfigPaths = append([]string(nil), paths...)
	}
	return c
}

// WithEnvFiles adds .env files to load
func (c *Config) WithEnvFiles(files ...string) *Config {
	c.EnvFiles = append(c.EnvFiles, files...)
	return c
}

// WithWorkDir sets the working directory of launched scripts
func (c *Config) WithWorkDir(dir string) *Config {
	c.WorkDir = dir
	return c
}

// WithDebug enables debug logging
func (c *Config) WithDebug(debug bool) *Config {
	c.DebugMode = debug
	return c
}

// UsesDefaultPath reports whether only the default document is configured,
// in which case a missing file is not an error.
func (c *Config) UsesDefaultPath() bool {
	return len(c.ConfigPaths) == 1 && c.ConfigPaths[0] == DefaultConfigPath
}

// Validate checks if the configuration is valid for the intended use
func (c *Config) Validate() error {
	if len(c.ConfigPaths) == 0 {
		return errors.New("no command documents configured")
	}
	for _, p := range c.ConfigPaths {
		if strings.TrimSpace(p) == "" {
			return errors.New("empty command document path")
		}
	}
	if c.WorkDir != "" {
		info, err := os.Stat(c.WorkDir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return errors.New("work dir " + c.WorkDir + " is not a directory")
		}
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a variable on the OS path list separator (":" on Unix).
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, p := range filepath.SplitList(value) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
