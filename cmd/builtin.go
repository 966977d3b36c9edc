package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LiboWorks/yamlcmd/internal/errs"
)

func newCommandsCmd(cat *catalog) *cobra.Command {
	return &cobra.Command{
		Use:   commandsName,
		Short: "List the loaded commands and their scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCRIPT\tDESCRIPTION")
			for _, r := range cat.runnables {
				if r.Command().Hidden {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name(), r.Script(), r.Command().Short)
			}
			return w.Flush()
		},
	}
}

func newCheckCmd(cat *catalog, loadErr error) *cobra.Command {
	return &cobra.Command{
		Use:   checkName,
		Short: "Resolve and synthesize every command without running any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return errs.Wrap(loadErr, "check failed")
			}
			for _, f := range cat.files {
				fmt.Fprintf(cmd.OutOrStdout(), "ok  %s\n", f)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d command(s) from %d file(s)\n", len(cat.runnables), len(cat.files))
			return nil
		},
	}
}
