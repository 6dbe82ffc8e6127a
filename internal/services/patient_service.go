package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"patient-management-service/internal/adapters"
	"patient-management-service/internal/domain/dtos"
	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/validation"
)

// PatientServiceImpl implements PatientServiceContract.
type PatientServiceImpl struct {
	patientRepo repositories.PatientRepositoryContract
	queue       adapters.QueueAdapter
	validator   *validation.Validator
	logger      zerolog.Logger
	now         func() time.Time
}

// NewPatientService creates a PatientServiceImpl. queue may be nil, in which
// case no change events are published.
func NewPatientService(repo repositories.PatientRepositoryContract, queue adapters.QueueAdapter, v *validation.Validator, logger zerolog.Logger) *PatientServiceImpl {
	return &PatientServiceImpl{
		patientRepo: repo,
		queue:       queue,
		validator:   v,
		logger:      logger.With().Str("component", "patient_service").Logger(),
		now:         time.Now,
	}
}

func (s *PatientServiceImpl) ListAll(ctx context.Context) (map[string]*entities.Patient, error) {
	list, err := s.patientRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entities.Patient, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (s *PatientServiceImpl) Get(ctx context.Context, id string) (*entities.Patient, error) {
	return s.patientRepo.GetByID(ctx, id)
}

func (s *PatientServiceImpl) Sort(ctx context.Context, sortBy, order string) ([]*entities.Patient, error) {
	field := strings.ToLower(strings.TrimSpace(sortBy))
	switch field {
	case SortByHeight, SortByWeight, SortByBMI:
	default:
		return nil, NewValidationError(fmt.Sprintf("Invalid field select from %s, %s, %s", SortByHeight, SortByWeight, SortByBMI))
	}
	dir := order
	if dir == "" {
		dir = OrderAsc
	}
	if dir != OrderAsc && dir != OrderDesc {
		return nil, NewValidationError(fmt.Sprintf("Invalid order select between %s and %s", OrderAsc, OrderDesc))
	}

	list, err := s.patientRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sortPatients(list, field, dir == OrderDesc)
	return list, nil
}

// sortPatients orders list in place by field. Undefined keys sort last and
// ties fall back to the id.
func sortPatients(list []*entities.Patient, field string, desc bool) {
	sort.SliceStable(list, func(i, j int) bool {
		ki, oki := sortKey(list[i], field)
		kj, okj := sortKey(list[j], field)
		switch {
		case oki != okj:
			return oki
		case !oki || ki == kj:
			return list[i].ID < list[j].ID
		case desc:
			return ki > kj
		default:
			return ki < kj
		}
	})
}

func sortKey(p *entities.Patient, field string) (float64, bool) {
	switch field {
	case SortByHeight:
		return p.Height, p.Height > 0
	case SortByWeight:
		return p.Weight, p.Weight > 0
	default:
		return p.BMI()
	}
}

func (s *PatientServiceImpl) Create(ctx context.Context, req dtos.CreatePatientRequest) (*entities.Patient, error) {
	req.ID = strings.TrimSpace(req.ID)
	if err := s.validator.Struct(req); err != nil {
		return nil, asValidationError("invalid patient", err)
	}
	patient := &entities.Patient{
		ID:     req.ID,
		Name:   req.Name,
		City:   req.City,
		Age:    req.Age,
		Gender: entities.Gender(req.Gender),
		Height: req.Height,
		Weight: req.Weight,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", patient.ID).Msg("patient created")
	s.publish(ctx, dtos.PatientCreated, patient.ID)
	return patient, nil
}

func (s *PatientServiceImpl) Update(ctx context.Context, id string, req dtos.UpdatePatientRequest) (*entities.Patient, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, asValidationError("invalid patient update", err)
	}
	if req.IsEmpty() {
		// Nothing to write and nothing to announce.
		return s.patientRepo.GetByID(ctx, id)
	}
	updated, err := s.patientRepo.Update(ctx, id, func(p *entities.Patient) error {
		applyUpdate(p, req)
		if err := s.validator.Struct(p); err != nil {
			return asValidationError("invalid patient update", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", id).Msg("patient updated")
	s.publish(ctx, dtos.PatientUpdated, id)
	return updated, nil
}

func applyUpdate(p *entities.Patient, req dtos.UpdatePatientRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.Gender != nil {
		p.Gender = entities.Gender(*req.Gender)
	}
	if req.Height != nil {
		p.Height = *req.Height
	}
	if req.Weight != nil {
		p.Weight = *req.Weight
	}
}

func (s *PatientServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.patientRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id).Msg("patient deleted")
	s.publish(ctx, dtos.PatientDeleted, id)
	return nil
}

func (s *PatientServiceImpl) Health(ctx context.Context) error {
	_, err := s.patientRepo.ListAll(ctx)
	return err
}

func (s *PatientServiceImpl) publish(ctx context.Context, typ dtos.PatientEventType, id string) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(dtos.PatientEvent{Type: typ, PatientID: id, At: s.now().UTC()})
	if err != nil {
		s.logger.Error().Err(err).Msg("encoding patient event")
		return
	}
	if err := s.queue.Publish(context.WithoutCancel(ctx), adapters.PatientEventsQueue, data); err != nil {
		s.logger.Warn().Err(err).Str("patient_id", id).Str("event", string(typ)).Msg("patient event not published")
	}
}
