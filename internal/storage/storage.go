// Package storage opens the patient store selected by configuration.
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"patient-management-service/internal/config"
	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/storage/boltstore"
	"patient-management-service/internal/storage/gormstore"
	"patient-management-service/internal/storage/jsonfile"
)

// Open returns the backend named by cfg.StoreBackend.
func Open(cfg *config.Config, logger zerolog.Logger) (repositories.PatientRepositoryContract, error) {
	l := logger.With().Str("component", "store").Str("backend", cfg.StoreBackend).Logger()
	switch cfg.StoreBackend {
	case config.BackendJSON, "":
		return jsonfile.Open(cfg.DataFile, l)
	case config.BackendBolt:
		return boltstore.Open(cfg.BoltPath, l)
	case config.BackendPostgres:
		return gormstore.Open(cfg.DatabaseURL, l)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
