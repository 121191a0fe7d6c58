package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/db"
	"github.com/sells-group/bizval/internal/model"
	"github.com/sells-group/bizval/internal/multiplier"
)

var industrySeedFile string

var industryCmd = &cobra.Command{
	Use:   "industry <name>",
	Short: "Show the multiplier profile an industry resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("industry"); err != nil {
			return err
		}
		ctx := cmd.Context()

		env, err := initEnvironment(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		return printJSON(cmd.OutOrStdout(), env.Resolver.Resolve(ctx, args[0]))
	},
}

var industryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the curated fallback industry multiples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INDUSTRY\tREVENUE MIN\tREVENUE MAX\tEBITDA\tMARGIN %")
		names := multiplier.FallbackIndustries()
		sort.Strings(names)
		for _, name := range append(names, model.DefaultIndustry) {
			p := multiplier.Fallback(name)
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.0f\n",
				p.Industry, p.MinRevenueMultiplier, p.MaxRevenueMultiplier, p.EBITDAMultiplier, p.AvgProfitMargin)
		}
		return w.Flush()
	},
}

var industrySeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert a YAML multiplier table into Postgres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("seed"); err != nil {
			return err
		}
		ctx := cmd.Context()

		src, err := multiplier.LoadFile(industrySeedFile)
		if err != nil {
			return err
		}

		pool, err := db.Connect(ctx, cfg.MultiplierDatabaseURL())
		if err != nil {
			return eris.Wrap(err, "industry seed: connect")
		}
		defer pool.Close()

		pg := multiplier.NewPostgresSource(pool, cfg.Multipliers.Table)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		n, err := pg.Seed(ctx, src.Profiles())
		if err != nil {
			return err
		}

		zap.L().Info("industry seed: upserted profiles",
			zap.String("file", industrySeedFile),
			zap.String("table", cfg.Multipliers.Table),
			zap.Int64("count", n),
		)
		return nil
	},
}

func init() {
	industrySeedCmd.Flags().StringVar(&industrySeedFile, "file", "configs/multipliers.yaml", "YAML multiplier table to load")
	industryCmd.AddCommand(industryListCmd, industrySeedCmd)
	rootCmd.AddCommand(industryCmd)
}
