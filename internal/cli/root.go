package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/absfs/staticcompress/internal/config"
	"github.com/absfs/staticcompress/internal/logging"
)

// app holds the state shared by the commands of one invocation
type app struct {
	configPath string
	cfg        *config.Config
	log        *logging.Logger

	// stderr receives text logs
	stderr io.Writer
}

// NewRootCmd builds the staticcompress command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stderr)
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:   "staticcompress",
		Short: "Precompress published static assets",
		Long: "staticcompress writes precompressed siblings (app.js.gz, app.js.br, ...) next to published static files " +
			"so a front-end server can serve them without compressing on the fly.\n\n" +
			"Only files with an eligible extension and at least the minimum size are compressed. " +
			"Artifacts newer than their source are left alone, so repeated runs only redo what changed.",
		PersistentPreRunE:  a.initialize,
		PersistentPostRunE: a.shutdown,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: staticcompress.yaml in the search path)")
	config.AddFlags(root.PersistentFlags())

	root.AddCommand(
		a.newRunCmd(),
		a.newVerifyCmd(),
		a.newStatCmd(),
		a.newWatchCmd(),
		a.newConfigCmd(),
	)
	return root
}

func (a *app) initialize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	opts := logging.DefaultOptions()
	opts.Level, _ = logging.ParseLevel(cfg.LogLevel)
	opts.File = cfg.LogFile
	logger, err := logging.New(a.stderr, opts)
	if err != nil {
		return err
	}
	a.log = logger
	slog.SetDefault(logger.Logger)
	return nil
}

func (a *app) shutdown(cmd *cobra.Command, args []string) error {
	if a.log == nil {
		return nil
	}
	return a.log.Close()
}

// Execute runs the command line and reports a failure on stderr
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
