package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/validation"
)

// ImportReport summarises one import run.
type ImportReport struct {
	Created     int
	Overwritten int
	Skipped     []string
	Invalid     []string
}

// ImportServiceContract loads batches of patient records into the store.
type ImportServiceContract interface {
	Import(ctx context.Context, patients []*entities.Patient, overwrite bool) (ImportReport, error)
}

// ImportServiceImpl validates and stores records from a pool of workers.
type ImportServiceImpl struct {
	patientRepo repositories.PatientRepositoryContract
	validator   *validation.Validator
	logger      zerolog.Logger
	numWorkers  int
}

// NewImportService creates an ImportServiceImpl.
func NewImportService(repo repositories.PatientRepositoryContract, v *validation.Validator, logger zerolog.Logger) *ImportServiceImpl {
	return &ImportServiceImpl{
		patientRepo: repo,
		validator:   v,
		logger:      logger.With().Str("component", "import_service").Logger(),
		numWorkers:  5,
	}
}

type importOutcome int

const (
	importCreated importOutcome = iota
	importOverwritten
	importSkipped
	importInvalid
)

// Import stores every valid record. Invalid records are reported and
// skipped; existing ids are skipped unless overwrite is set. The first store
// failure stops the run.
func (s *ImportServiceImpl) Import(parent context.Context, patients []*entities.Patient, overwrite bool) (ImportReport, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobChan := make(chan *entities.Patient)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		report   ImportReport
		firstErr error
	)

	worker := func(id int) {
		defer wg.Done()
		for p := range jobChan {
			outcome, detail, err := s.importOne(ctx, p, overwrite)

			mu.Lock()
			switch {
			case err != nil:
				if firstErr == nil {
					firstErr = err
					cancel()
				}
			case outcome == importCreated:
				report.Created++
			case outcome == importOverwritten:
				report.Overwritten++
			case outcome == importSkipped:
				report.Skipped = append(report.Skipped, p.ID)
			case outcome == importInvalid:
				report.Invalid = append(report.Invalid, detail)
			}
			mu.Unlock()
		}
		s.logger.Debug().Int("worker", id).Msg("import worker finished")
	}

	wg.Add(s.numWorkers)
	for i := 1; i <= s.numWorkers; i++ {
		go worker(i)
	}

send:
	for _, p := range patients {
		select {
		case jobChan <- p:
		case <-ctx.Done():
			break send
		}
	}
	close(jobChan)
	wg.Wait()

	sort.Strings(report.Skipped)
	sort.Strings(report.Invalid)
	if firstErr == nil {
		firstErr = parent.Err()
	}
	s.logger.Info().
		Int("created", report.Created).
		Int("overwritten", report.Overwritten).
		Int("skipped", len(report.Skipped)).
		Int("invalid", len(report.Invalid)).
		Msg("import finished")
	return report, firstErr
}

func (s *ImportServiceImpl) importOne(ctx context.Context, p *entities.Patient, overwrite bool) (importOutcome, string, error) {
	if err := s.validator.Struct(p); err != nil {
		return importInvalid, fmt.Sprintf("%s: %v", p.ID, err), nil
	}
	err := s.patientRepo.Create(ctx, p)
	switch {
	case err == nil:
		return importCreated, "", nil
	case !errors.Is(err, repositories.ErrConflict):
		return 0, "", err
	case !overwrite:
		return importSkipped, "", nil
	}
	if _, err := s.patientRepo.Update(ctx, p.ID, func(stored *entities.Patient) error {
		*stored = *p.Clone()
		return nil
	}); err != nil {
		return 0, "", err
	}
	return importOverwritten, "", nil
}
