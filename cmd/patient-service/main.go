package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"patient-management-service/internal/config"
	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/logging"
	"patient-management-service/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "patient-service",
		Short:         "Patient Management System API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("env-file", ".env", "Optional .env file loaded before the environment")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(importCmd())
	return cmd
}

// bootstrap loads configuration, applies flag overrides and opens the
// configured store.
func bootstrap(cmd *cobra.Command) (*config.Config, zerolog.Logger, repositories.PatientRepositoryContract, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	if f := cmd.Flags().Lookup("host"); f != nil && f.Changed {
		cfg.Host = f.Value.String()
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Port, _ = cmd.Flags().GetInt("port")
		if err := cfg.Validate(); err != nil {
			return nil, zerolog.Nop(), nil, err
		}
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	repo, err := storage.Open(cfg, logger)
	if err != nil {
		return nil, logger, nil, fmt.Errorf("opening %s store: %w", cfg.StoreBackend, err)
	}
	return cfg, logger, repo, nil
}
