package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/db"
	"github.com/sells-group/bizval/internal/multiplier"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the result store tables",
	Long:  "Creates the valuations table of the configured store and, when multipliers are read from Postgres, the industry multiplier table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("migrate"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "migrate: open store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		zap.L().Info("migrate: store ready", zap.String("driver", cfg.Store.Driver))

		if cfg.Multipliers.Source != "postgres" {
			return nil
		}

		pool, err := db.Connect(ctx, cfg.MultiplierDatabaseURL())
		if err != nil {
			return eris.Wrap(err, "migrate: connect multipliers")
		}
		defer pool.Close()

		if err := multiplier.NewPostgresSource(pool, cfg.Multipliers.Table).Migrate(ctx); err != nil {
			return err
		}
		zap.L().Info("migrate: multiplier table ready", zap.String("table", cfg.Multipliers.Table))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
