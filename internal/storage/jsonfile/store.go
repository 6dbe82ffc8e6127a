package jsonfile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/domain/repositories"
)

var _ repositories.PatientRepositoryContract = (*Store)(nil)

// Store keeps the document in memory and flushes it to disk on every
// mutation while holding the write lock.
type Store struct {
	path   string
	logger zerolog.Logger

	mu       sync.RWMutex
	patients Document
}

// Open loads path. A missing file opens as an empty store and is created on
// the first mutation.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	doc, err := ReadDocumentFile(path)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("path", path).Int("patients", len(doc)).Msg("json store opened")
	return &Store{path: path, logger: logger, patients: doc}, nil
}

func (s *Store) Create(ctx context.Context, patient *entities.Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.patients[patient.ID]; exists {
		return fmt.Errorf("create %s: %w", patient.ID, repositories.ErrConflict)
	}
	stored := patient.Clone()
	stored.ID = strings.Clone(patient.ID)
	s.patients[stored.ID] = stored
	if err := s.flush(); err != nil {
		delete(s.patients, patient.ID)
		return err
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patients[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, repositories.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *Store) Update(ctx context.Context, id string, mutate repositories.MutateFunc) (*entities.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.patients[id]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", id, repositories.ErrNotFound)
	}
	// Assigning to an existing key replaces the key string too, so it must
	// not alias caller memory.
	id = strings.Clone(id)
	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = id

	s.patients[id] = next
	if err := s.flush(); err != nil {
		s.patients[id] = current
		return nil, err
	}
	return next.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.patients[id]
	if !ok {
		return fmt.Errorf("delete %s: %w", id, repositories.ErrNotFound)
	}
	delete(s.patients, id)
	if err := s.flush(); err != nil {
		s.patients[strings.Clone(id)] = current
		return err
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]*entities.Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p.Clone())
	}
	return out, nil
}

// Close is a no-op: every mutation is already on disk.
func (s *Store) Close() error {
	return nil
}

// flush must be called with mu held for writing.
func (s *Store) flush() error {
	if err := WriteDocumentFile(s.path, s.patients); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("flushing patient document failed")
		return fmt.Errorf("persist patients: %w", err)
	}
	return nil
}
