package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/batch"
)

var (
	batchInput       string
	batchOutput      string
	batchConcurrency int
	batchSave        bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Value every submission in a CSV, XLSX or JSON file",
	Long:  "Reads submissions from a file whose header row names the submission fields, values them concurrently and writes a JSON array of results in input order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchConcurrency > 0 {
			cfg.Batch.Concurrency = batchConcurrency
		}
		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		records, err := batch.ReadFile(batchInput)
		if err != nil {
			return err
		}

		env, err := initEnvironment(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		items, err := batch.NewRunner(env.Engine, cfg.Batch.Concurrency).Run(ctx, records)
		if err != nil {
			return eris.Wrap(err, "batch: run")
		}

		if batchSave {
			st, err := initStore(ctx)
			if err != nil {
				return eris.Wrap(err, "batch: open store")
			}
			defer st.Close() //nolint:errcheck

			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "batch: migrate store")
			}
			n, err := batch.Save(ctx, st, items)
			if err != nil {
				return err
			}
			zap.L().Info("batch: saved valuations", zap.Int64("count", n))
		}

		if batchOutput == "" {
			return printJSON(cmd.OutOrStdout(), items)
		}
		f, err := os.Create(batchOutput)
		if err != nil {
			return eris.Wrapf(err, "batch: create %s", batchOutput)
		}
		if err := printJSON(f, items); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "path to a .csv, .xlsx or .json submissions file (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results JSON to file (default: stdout)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent valuations (0 = batch.concurrency)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist valuations to the configured store")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
