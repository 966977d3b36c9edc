package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/LiboWorks/yamlcmd/internal/config"
	"github.com/LiboWorks/yamlcmd/internal/logger"
)

// hostFlags are the flags of yamlcmd itself. They are read before the
// commands are built, so they must come before the command name.
type hostFlags struct {
	configs  []string
	envFiles []string
	workDir  string
	debug    bool
}

func (h *hostFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVar(&h.configs, "config", nil, "command document path or doublestar glob (repeatable, default $YAMLCMD_CONFIG or yamlcmd.yaml)")
	fs.StringArrayVar(&h.envFiles, "env-file", nil, ".env file loaded before the documents are resolved (repeatable)")
	fs.StringVar(&h.workDir, "workdir", "", "working directory of launched scripts")
	fs.BoolVar(&h.debug, "debug", false, "Enable debug logging")
}

// scanHostFlags reads the host flags out of args, ignoring everything else.
// Scanning stops at the first positional argument, the command name.
func scanHostFlags(args []string) *hostFlags {
	h := &hostFlags{}
	fs := pflag.NewFlagSet("yamlcmd", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	h.register(fs)
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)
	return h
}

// settings merges the host flags over the environment-driven config.
func (h *hostFlags) settings() *config.Config {
	env := config.Get()
	cfg := config.NewConfig().
		WithConfigPaths(env.ConfigPaths...).
		WithConfigPaths(h.configs...).
		WithEnvFiles(env.EnvFiles...).
		WithEnvFiles(h.envFiles...).
		WithWorkDir(env.WorkDir).
		WithDebug(env.DebugMode || h.debug)
	if h.workDir != "" {
		cfg.WithWorkDir(h.workDir)
	}
	return cfg
}

// newRootCmd builds the root command with every synthesized command added.
// A document that fails to load does not prevent the root command from
// being built; the error is returned by any command except help.
func newRootCmd(args []string) *cobra.Command {
	h := scanHostFlags(args)
	cfg := h.settings()
	logger.Init(cfg.DebugMode)

	rootCmd := &cobra.Command{
		Use:   "yamlcmd",
		Short: "Run commands declared in YAML documents",
		Long: `yamlcmd turns a YAML document of command declarations into a CLI.

Each top-level key is a command. Its script is launched with the parsed
arguments and options appended in declaration order:

  deploy:
    script: /opt/bin/deploy.sh --region ${REGION}
    help: "Deploy a service"
    params:
      - !arg {param_decls: [service]}
      - !opt {param_decls: ["--tier", "-t"], default: web}

Examples:
  yamlcmd --config ops.yaml deploy billing --tier worker
  yamlcmd --config 'commands/**/*.yaml' commands
  yamlcmd check`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	h.register(rootCmd.PersistentFlags())

	cat, loadErr := load(cfg)
	if loadErr == nil {
		loadErr = cat.addTo(rootCmd)
	}
	rootCmd.AddCommand(newCommandsCmd(cat), newCheckCmd(cat, loadErr))

	rootCmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		if loadErr != nil && c.Name() != checkName && c.Name() != "help" {
			return loadErr
		}
		return nil
	}
	return rootCmd
}

// Execute builds the root command from the process arguments and runs it.
// This is called by main.main().
func Execute() {
	args := os.Args[1:]
	rootCmd := newRootCmd(args)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Error: %v\n", err)
		os.Exit(1)
	}
}
