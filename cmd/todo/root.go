package main

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/todo/internal/config"
	"github.com/mmynk/todo/pkg/logging"
)

// options is shared by every subcommand.
type options struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	serve := newServeCmd(opts)

	root := &cobra.Command{
		Use:   "todo",
		Short: "A minimal to-do list REST service",
		Long: `todo serves a to-do list over a JSON REST API backed by SQLite or PostgreSQL.

Outside the prod profile the store is seeded with sample todos on startup.
Running without a subcommand is the same as "todo serve".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			logging.Configure(cfg.Log.Level, cfg.Log.Format)
			opts.cfg = cfg
			return nil
		},
		RunE: serve.RunE,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"path to the YAML config file (default: $TODO_CONFIG, ./todo.yaml)")

	root.AddCommand(serve)
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}
