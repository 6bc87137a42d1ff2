package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/WessleyAI/wessley-engines/engine/catalog"
	"github.com/WessleyAI/wessley-engines/pkg/config"
	"github.com/spf13/cobra"
)

// app is the state shared by all subcommands.
type app struct {
	out    io.Writer
	errOut io.Writer
	file   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:          "enginectl",
		Short:        "Inspect, export and lint the engine encyclopedia",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if a.file != "" && cfg.ContentDir != "" {
				return errors.New("--file and --content-dir are mutually exclusive")
			}
			a.cfg = cfg
			a.logger = cfg.Logger(a.errOut)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String("content-dir", "", "content directory with site.yaml (default: built-in catalog)")
	pf.StringVar(&a.file, "file", "", "catalog JSON written by 'enginectl export'")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.schemaCmd(),
		a.exportCmd(),
		a.lintCmd(),
		a.watchCmd(),
	)
	return root
}

// open returns the catalog selected by --file or --content-dir.
func (a *app) open() (*catalog.Catalog, error) {
	if a.file == "" {
		return catalog.Open(a.cfg.ContentDir)
	}
	f, err := os.Open(a.file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.ReadJSON(f)
}

// source names the catalog in logs and published reports.
func (a *app) source() string {
	switch {
	case a.file != "":
		return a.file
	case a.cfg.ContentDir != "":
		return a.cfg.ContentDir
	default:
		return "built-in"
	}
}

func natsFlags(cmd *cobra.Command) {
	cmd.Flags().String("nats-url", "", "NATS server URL")
	cmd.Flags().String("nats-subject", "", fmt.Sprintf("subject for lint reports (default %q)", "engines.lint.report"))
}
