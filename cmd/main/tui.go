package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/matt-steen/todo-tracker/pkg/controller"
	"github.com/matt-steen/todo-tracker/pkg/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the todo list in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			filePerms := 0o666

			// the terminal belongs to the ui, so logs go to a file
			logFile, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
			if err != nil {
				return fmt.Errorf("error opening log file %s: %w", cfg.LogFile, err)
			}
			defer logFile.Close()

			setLogOutput(logFile)

			log.Info().Msg("starting application...")

			database, err := db.NewDatabase(cmd.Context(), cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()

			c, err := controller.NewController(cmd.Context(), database)
			if err != nil {
				return err
			}

			return c.Go()
		},
	}
}
