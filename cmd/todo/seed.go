package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/todo/internal/app"
	"github.com/mmynk/todo/internal/metrics"
	"github.com/mmynk/todo/internal/seed"
)

func newSeedCmd(opts *options) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the store with sample todos and exit",
		Long: `Seed applies a seed strategy once:

  none      leave the store untouched
  if-empty  insert the samples only into an empty store
  reseed    delete every todo, then insert the samples

Without --strategy the profile decides: prod=none, dev=reseed, otherwise if-empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := opts.cfg.SeedStrategy()
			if strategy != "" {
				var err error
				if s, err = seed.ParseStrategy(strategy); err != nil {
					return err
				}
			}

			store, err := app.OpenStore(cmd.Context(), opts.cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			if err := app.Seed(cmd.Context(), store, metrics.New(), s); err != nil {
				return err
			}

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d todos in store\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "seed strategy: none, if-empty or reseed")

	return cmd
}
