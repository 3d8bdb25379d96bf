package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/absfs/staticcompress"
)

func (a *app) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that artifacts match their sources",
		Long: "Decompress every artifact of every eligible file under the root and compare it with the file.\n\n" +
			"Missing artifacts are not reported. Files whose originals were removed cannot be checked.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			store, st, manifest, err := a.openStore(a.log.Logger)
			if err != nil {
				return err
			}
			records, err := a.publishRecords(st, manifest)
			if err != nil {
				return fmt.Errorf("failed to list files; %w", err)
			}

			var checked, bad int
			for _, rec := range records {
				if !store.IsAllowed(rec.Name) {
					continue
				}
				dest := rec.Path
				if manifest != nil {
					if alias, ok := manifest.Alias(rec.Path); ok {
						dest = alias
					}
				}

				checked++
				if err := store.Verify(dest); err != nil {
					if errors.Is(err, staticcompress.ErrImproperlyConfigured) {
						return err
					}
					bad++
					fmt.Fprintf(out, "FAIL %s: %v\n", dest, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s\n", dest)
			}

			fmt.Fprintf(out, "%d checked, %d failed\n", checked, bad)
			if bad > 0 {
				return fmt.Errorf("%d files have mismatching artifacts", bad)
			}
			return nil
		},
	}
}
