package cmd

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/LiboWorks/yamlcmd/internal/command"
	"github.com/LiboWorks/yamlcmd/internal/config"
	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/launcher"
	"github.com/LiboWorks/yamlcmd/internal/logger"
	"github.com/LiboWorks/yamlcmd/internal/resolver"
)

// Names of the built-in commands; documents cannot use them.
const (
	checkName    = "check"
	commandsName = "commands"
)

var reservedNames = map[string]bool{
	checkName:    true,
	commandsName: true,
	"help":       true,
	"completion": true,
}

// catalog is what was loaded from the command documents.
type catalog struct {
	files     []string
	runnables []*command.Runnable
}

// load reads the .env files and command documents named by cfg and
// synthesizes every command. The catalog is never nil.
func load(cfg *config.Config) (*catalog, error) {
	cat := &catalog{}
	if err := cfg.Validate(); err != nil {
		return cat, errs.ConfigWrap(err, "", "invalid settings")
	}

	if len(cfg.EnvFiles) > 0 {
		// Variables already set in the environment win over the files.
		if err := godotenv.Load(cfg.EnvFiles...); err != nil {
			return cat, errs.ConfigWrap(err, strings.Join(cfg.EnvFiles, ", "), "cannot load env file")
		}
		logger.Debug("[DEBUG] Loaded env files: %s\n", strings.Join(cfg.EnvFiles, ", "))
	}

	if cfg.UsesDefaultPath() {
		if _, err := os.Stat(config.DefaultConfigPath); errors.Is(err, fs.ErrNotExist) {
			logger.Warn("No %s found; use --config or $%s to load commands\n", config.DefaultConfigPath, config.EnvConfig)
			return cat, nil
		}
	}

	for _, pattern := range cfg.ConfigPaths {
		matches, err := resolver.ExpandPattern(pattern)
		if err != nil {
			return cat, err
		}
		cat.files = append(cat.files, matches...)
	}
	doc, err := resolver.ResolvePaths(cat.files)
	if err != nil {
		return cat, err
	}

	l := launcher.NewExec(launcher.ExecConfig{Dir: cfg.WorkDir})
	rs, err := command.BuildAll(doc, command.WithLauncher(l))
	if err != nil {
		return cat, err
	}
	cat.runnables = rs
	return cat, nil
}

// addTo adds every synthesized command to root.
func (c *catalog) addTo(root *cobra.Command) error {
	for _, r := range c.runnables {
		if reservedNames[r.Name()] {
			return errs.Configf("", "command name %q is reserved by yamlcmd", r.Name())
		}
	}
	for _, r := range c.runnables {
		root.AddCommand(r.Command())
	}
	return nil
}
