package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat NAME",
		Short: "Show the times the store reports for a file",
		Long: "Show the modified, accessed and created times of a published file.\n\n" +
			"When originals are not kept, the times come from the first existing artifact.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			name := args[0]

			store, _, _, err := a.openStore(a.log.Logger)
			if err != nil {
				return err
			}

			modified, err := store.ModTime(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-9s %s\n", "name:", name)
			if !store.Config().KeepOriginal {
				if alt, err := store.AlternateName(name); err == nil {
					fmt.Fprintf(out, "%-9s %s\n", "served:", alt)
				}
			}
			fmt.Fprintf(out, "%-9s %s\n", "modified:", modified.Format(time.RFC3339))

			for _, q := range []struct {
				label string
				get   func(string) (time.Time, error)
			}{
				{"accessed", store.AccessTime},
				{"created", store.CreateTime},
			} {
				at, err := q.get(name)
				if err != nil {
					fmt.Fprintf(out, "%-9s unavailable (%v)\n", q.label+":", err)
					continue
				}
				fmt.Fprintf(out, "%-9s %s\n", q.label+":", at.Format(time.RFC3339))
			}
			return nil
		},
	}
}
