// Package gormstore keeps patients in PostgreSQL through gorm, using the
// lib/pq database/sql driver.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/domain/repositories"
)

var _ repositories.PatientRepositoryContract = (*Store)(nil)

// Store is a gorm-backed PatientRepositoryContract.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Open connects with dsn and migrates the patients table.
func Open(dsn string, logger zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return New(db, logger)
}

// New wraps an existing connection and migrates the patients table.
func New(db *gorm.DB, logger zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&entities.Patient{}); err != nil {
		return nil, fmt.Errorf("migrating patients table: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}
	logger.Info().Msg("postgres store opened")
	return &Store{db: db, logger: logger}, nil
}

// Create inserts patient. The primary key decides conflicts, so concurrent
// creates of one id yield exactly one insert and ErrConflict for the rest.
func (s *Store) Create(ctx context.Context, patient *entities.Patient) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(patient.Clone())
	if res.Error != nil {
		return fmt.Errorf("create %s: %w", patient.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("create %s: %w", patient.ID, repositories.ErrConflict)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	var p entities.Patient
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate("get", id, err)
	}
	return &p, nil
}

func (s *Store) Update(ctx context.Context, id string, mutate repositories.MutateFunc) (*entities.Patient, error) {
	var out entities.Patient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, "id = ?", id).Error; err != nil {
			return translate("update", id, err)
		}
		if err := mutate(&out); err != nil {
			return err
		}
		out.ID = id
		if err := tx.Save(&out).Error; err != nil {
			return fmt.Errorf("update %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&entities.Patient{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]*entities.Patient, error) {
	var out []*entities.Patient
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(op, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", op, id, repositories.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}
