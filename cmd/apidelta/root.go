package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"apidelta/internal/config"
	apierrors "apidelta/internal/errors"
	"apidelta/internal/slogutil"
	"apidelta/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	root    string
	verbose int
	quiet   bool
	logFile string
	noColor bool
}

// app carries the state built before a subcommand runs.
type app struct {
	flags  globalFlags
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

func newApp() *app {
	return &app{logger: slogutil.NewDiscardLogger()}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apidelta",
		Short: "apidelta - API delta engine",
		Long: `apidelta compares two baselines of components and reports every
API-visible difference as a hierarchical delta tree, then classifies each
change as binary compatible or incompatible for existing clients.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetVersionTemplate("apidelta version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError("%s: %v", c.CommandPath(), err)
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.root, "root", ".", "Directory holding .apidelta/config.json")
	pf.CountVarP(&a.flags.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "Only log errors")
	pf.StringVar(&a.flags.logFile, "log-file", "", "Also write logs to this file")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(
		newCompareCmd(a),
		newCheckCmd(a),
		newHistoryCmd(a),
		newRulesCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.flags.root)
	if err != nil {
		return apierrors.New(apierrors.ConfigInvalid, "load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return apierrors.New(apierrors.ConfigInvalid, "invalid configuration", err)
	}
	a.cfg = cfg

	level := slogutil.LevelFromString(cfg.Logging.Level)
	if a.flags.verbose > 0 || a.flags.quiet {
		level = slogutil.LevelFromVerbosity(a.flags.verbose, a.flags.quiet)
	}
	file := cfg.Logging.File
	if a.flags.logFile != "" {
		file = a.flags.logFile
	}
	logger, closer, err := slogutil.Setup(slogutil.Options{
		Level:      level,
		Stderr:     cmd.ErrOrStderr(),
		File:       file,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return apierrors.New(apierrors.ConfigInvalid, "open log file", err)
	}
	a.logger, a.closer = logger, closer

	if a.flags.noColor || !cfg.Output.Color {
		color.NoColor = true
	}
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
