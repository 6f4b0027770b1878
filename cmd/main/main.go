package main

import (
	"fmt"
	"io"
	"os"

	"github.com/matt-steen/todo-tracker/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "todo-tracker",
		Short: "A personal todo list",
		Long: `todo-tracker keeps a labelled todo list in sqlite. Serve it over HTTP with "serve" ` +
			`or browse it in the terminal with "tui". Pending todos past their due date are marked missed.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yml", "config file")

	rootCmd.AddCommand(newServeCmd(), newTUICmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}

	zerolog.SetGlobalLevel(level)

	return cfg, nil
}

func setLogOutput(out io.Writer) {
	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: out, TimeFormat: "2006-01-02_15:04:05",
	})
}
