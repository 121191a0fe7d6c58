package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/store"
	"github.com/sells-group/bizval/internal/valuation"
)

var valueSave bool

var valueCmd = &cobra.Command{
	Use:   "value [file]",
	Short: "Value a JSON submission",
	Long:  "Reads a JSON submission object from a file, or stdin when the file is omitted or \"-\", and prints the valuation result.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("value"); err != nil {
			return err
		}
		ctx := cmd.Context()

		raw, err := readSubmission(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		env, err := initEnvironment(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if !valuation.ValidateMinimumInput(raw) {
			zap.L().Warn("value: submission has no positive revenue or EBITDA")
		}
		result := env.Engine.Calculate(ctx, raw)

		if !valueSave {
			return printJSON(cmd.OutOrStdout(), result)
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "value: open store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "value: migrate store")
		}
		v := store.NewValuation(raw, result)
		if err := st.SaveValuation(ctx, v); err != nil {
			return err
		}
		zap.L().Info("value: saved valuation", zap.String("id", v.ID))
		return printJSON(cmd.OutOrStdout(), v)
	},
}

func init() {
	valueCmd.Flags().BoolVar(&valueSave, "save", false, "persist the valuation to the configured store")
	rootCmd.AddCommand(valueCmd)
}

// readSubmission decodes one JSON object from the named file or stdin.
func readSubmission(stdin io.Reader, args []string) (map[string]any, error) {
	r := stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, eris.Wrapf(err, "value: open %s", args[0])
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "value: decode submission")
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}
