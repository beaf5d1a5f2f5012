package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/jmbglens/internal/app"
	"github.com/dshills/jmbglens/internal/logging"
)

// errInvalid is returned when an identifier fails validation. The details
// have already been printed.
var errInvalid = errors.New("invalid identifier")

type rootOptions struct {
	configPath string
	logLevel   string
	readOnly   bool
	showPanel  bool
	noSnapshot bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jmbglens [files...]",
		Short: "Validate and decode JMBG identifiers",
		Long: `jmbglens validates and decodes JMBG (unique master citizen number)
identifiers. Without a subcommand it opens the given files in a terminal
editor that decodes the identifier under the cursor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.logLevel == "" {
				return nil
			}
			_, err := logging.ParseLevel(opts.logLevel)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML or YAML settings file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "append editor logs to this file")

	cmd.Flags().BoolVarP(&opts.readOnly, "readonly", "R", false, "open files read-only")
	cmd.Flags().BoolVarP(&opts.showPanel, "panel", "p", false, "show the side panel on startup")
	cmd.Flags().BoolVar(&opts.noSnapshot, "no-snapshot", false, "do not persist the panel snapshot")

	cmd.AddCommand(
		newViewCmd(opts),
		newValidateCmd(),
		newDecodeCmd(),
		newGenerateCmd(),
		newVersionCmd(),
	)
	return cmd
}

// newViewCmd is the explicit form of the root command. It shows the panel
// by default.
func newViewCmd(root *rootOptions) *cobra.Command {
	local := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "view [files...]",
		Short: "Open files in the terminal editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := *local
			opts.configPath = root.configPath
			opts.logLevel = root.logLevel
			opts.logFile = root.logFile
			return runView(cmd, &opts, args)
		},
	}
	cmd.Flags().BoolVarP(&local.readOnly, "readonly", "R", false, "open files read-only")
	cmd.Flags().BoolVarP(&local.showPanel, "panel", "p", true, "show the side panel on startup")
	cmd.Flags().BoolVar(&local.noSnapshot, "no-snapshot", false, "do not persist the panel snapshot")
	return cmd
}

func runView(cmd *cobra.Command, opts *rootOptions, files []string) error {
	// The screen owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	log, err := logging.New(logging.Config{Level: "info", Output: out, Name: "jmbglens"})
	if err != nil {
		return err
	}

	application, err := app.New(app.Options{
		ConfigPath:  opts.configPath,
		Files:       files,
		ReadOnly:    opts.readOnly,
		LogLevel:    opts.logLevel,
		ShowPanel:   opts.showPanel,
		NoSnapshots: opts.noSnapshot,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return application.Run(cmd.Context())
}
