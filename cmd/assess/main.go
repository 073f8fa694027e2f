package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jamescw/unicef-assessment-tool/internal/logger"
	"github.com/jamescw/unicef-assessment-tool/pkg/config"
)

var (
	cfg    *config.Config
	appLog logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "assess",
	Short: "Human rights risk assessment scoring",
	Long:  "Scores questionnaire submissions against the question catalog and country risk index, validates reference data and manages users.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg = config.New()
		if err := cfg.Validate(); err != nil {
			return eris.Wrap(err, "config")
		}

		l, err := logger.NewZapLogger(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		appLog = l.With("command", cmd.Name())
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
