package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: "Display the effective configuration as YAML, with defaults, the config file, " +
			"environment variables and flags applied.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.YAML()
			if err != nil {
				return fmt.Errorf("failed to format configuration; %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "# Effective configuration")
			fmt.Fprint(out, string(data))
			return nil
		},
	})
	return cmd
}
