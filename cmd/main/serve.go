package main

import (
	"os"

	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/matt-steen/todo-tracker/pkg/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the todo list over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			setLogOutput(os.Stderr)

			if addr != "" {
				cfg.Addr = addr
			}

			log.Info().Str("db", cfg.DBPath).Msg("starting server...")

			database, err := db.NewDatabase(cmd.Context(), cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()

			app, err := web.New(database)
			if err != nil {
				return err
			}

			return app.Listen(cfg.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides the config)")

	return cmd
}
