package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/absfs/staticcompress"
)

func (a *app) newRunCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compress the published files once",
		Long: "Compress every eligible file under the root directory.\n\n" +
			"Prints one line per artifact written and a summary. Files below the minimum size " +
			"lose any artifacts left from earlier runs.",
		Example: `  # Compress with the configured policy
  staticcompress run --root ./public

  # Show what is eligible without writing anything
  staticcompress run --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.runOnce(cmd.OutOrStdout(), dryRun)
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List eligible files without compressing")
	return cmd
}

// runOnce performs one post-processing run and prints its outcome
func (a *app) runOnce(out io.Writer, dryRun bool) (*staticcompress.Stats, error) {
	logger := a.log.With("run_id", uuid.NewString())

	store, st, manifest, err := a.openStore(logger)
	if err != nil {
		return nil, err
	}
	records, err := a.publishRecords(st, manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to list files; %w", err)
	}

	logger.Info("post-processing started", "root", a.cfg.Root, "files", len(records), "dry_run", dryRun)

	if dryRun {
		eligible := 0
		for _, rec := range records {
			if store.IsAllowed(rec.Name) {
				fmt.Fprintf(out, "eligible %s\n", rec.Name)
				eligible++
			}
		}
		fmt.Fprintf(out, "%d of %d files eligible\n", eligible, len(records))
		return store.Stats(), nil
	}

	for r, err := range store.PostProcess(records, false) {
		if errors.Is(err, staticcompress.ErrImproperlyConfigured) {
			return store.Stats(), err
		}
		if err != nil {
			fmt.Fprintf(out, "failed %s: %v\n", r.Source, err)
			continue
		}
		fmt.Fprintf(out, "%s -> %s [%s]\n", r.Source, r.Artifact, r.Method)
	}

	stats := store.Stats()
	fmt.Fprintf(out, "%d written, %d up to date, %d removed, %d failed, %.1f%% saved\n",
		stats.ArtifactsWritten,
		stats.ArtifactsFresh,
		stats.ArtifactsDeleted+stats.OriginalsDeleted,
		stats.RecordsFailed,
		staticcompress.SpacePercentage(stats.BytesRead, stats.BytesWritten))
	logger.Info("post-processing finished",
		"written", stats.ArtifactsWritten,
		"fresh", stats.ArtifactsFresh,
		"failed", stats.RecordsFailed)

	if stats.RecordsFailed > 0 {
		return stats, fmt.Errorf("%d of %d files failed", stats.RecordsFailed, len(records))
	}
	return stats, nil
}
