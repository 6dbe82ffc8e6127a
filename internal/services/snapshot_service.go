package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/storage/jsonfile"
)

// SnapshotServiceContract periodically copies the store to a JSON document.
type SnapshotServiceContract interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	RunOnce(ctx context.Context) error
}

// SnapshotServiceImpl writes the whole store to path every interval.
type SnapshotServiceImpl struct {
	patientRepo repositories.PatientRepositoryContract
	path        string
	interval    time.Duration
	logger      zerolog.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
}

// NewSnapshotService creates a SnapshotServiceImpl. A non-positive interval
// disables the schedule; RunOnce still works.
func NewSnapshotService(repo repositories.PatientRepositoryContract, path string, interval time.Duration, logger zerolog.Logger) *SnapshotServiceImpl {
	return &SnapshotServiceImpl{
		patientRepo: repo,
		path:        path,
		interval:    interval,
		logger:      logger.With().Str("component", "snapshot").Logger(),
	}
}

func (s *SnapshotServiceImpl) Start(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Debug().Msg("snapshot schedule disabled")
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler != nil {
		return nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(s.interval).Do(func() {
		if err := s.RunOnce(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error().Err(err).Msg("snapshot failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling snapshot: %w", err)
	}
	scheduler.StartAsync()
	s.scheduler = scheduler
	s.logger.Info().Dur("interval", s.interval).Str("path", s.path).Msg("snapshot job started")
	return nil
}

func (s *SnapshotServiceImpl) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler != nil {
		s.scheduler.Stop()
		s.scheduler = nil
		s.logger.Info().Msg("snapshot job stopped")
	}
	return nil
}

// RunOnce writes one snapshot in the legacy document format.
func (s *SnapshotServiceImpl) RunOnce(ctx context.Context) error {
	list, err := s.patientRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing patients for snapshot: %w", err)
	}
	if err := jsonfile.WriteDocumentFile(s.path, jsonfile.NewDocument(list)); err != nil {
		return err
	}
	s.logger.Debug().Int("patients", len(list)).Msg("snapshot written")
	return nil
}
