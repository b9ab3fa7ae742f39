package main

import (
	"fmt"
	"os"
	"time"

	"dinocars/internal/config"
	"dinocars/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmdPersistentFlags struct {
	LogLevel    string
	DatabaseURL string
}

var rootCmd = &cobra.Command{
	Use:   "dinoctl",
	Short: "Herramientas de mantenimiento de DinoCars",
	Long:  `dinoctl agrupa las tareas de mantenimiento de la base de DinoCars: migraciones, usuarios, importaciones y copias.`,
	Example: `dinoctl migrate
  dinoctl seed-admin --username admin --password s3cret
  dinoctl import-xlsx --file ventas_2025-07.xlsx
  DATABASE_URL=postgres://... dinoctl copy-db --from dinocars.db`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		setLogLevel(rootCmdPersistentFlags.LogLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.DatabaseURL, "database-url", "", "Postgres URL (default: DATABASE_URL)")
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("unknown log level, defaulting to info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// loadConfig reads the environment without the server-only checks.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootCmdPersistentFlags.DatabaseURL != "" {
		cfg.DatabaseURL = config.NormalizeDatabaseURL(rootCmdPersistentFlags.DatabaseURL)
	}
	return cfg, nil
}

// openDatabase connects to the configured postgres database.
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return cfg, db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
