package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bizval/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the valuation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnvironment(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "serve: open store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "serve: migrate store")
		}

		srv := server.New(cfg.Server, env.Engine, env.Resolver, st)
		for name, cb := range env.Circuits {
			srv.WatchCircuit(name, cb)
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (0 = server.port)")
	rootCmd.AddCommand(serveCmd)
}
