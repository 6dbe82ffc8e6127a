package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/fhir/mappers"
)

// TransferServiceImpl implements TransferServiceContract.
type TransferServiceImpl struct {
	patientRepo repositories.PatientRepositoryContract
	logger      zerolog.Logger
}

// NewTransferService creates a TransferServiceImpl.
func NewTransferService(patientRepo repositories.PatientRepositoryContract, logger zerolog.Logger) *TransferServiceImpl {
	return &TransferServiceImpl{
		patientRepo: patientRepo,
		logger:      logger.With().Str("component", "transfer_service").Logger(),
	}
}

func (s *TransferServiceImpl) ExportFHIR(ctx context.Context, patientID string) (json.RawMessage, error) {
	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	bundle, err := mappers.MapPatientToFHIR(*patient)
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", patientID).Msg("FHIR mapping failed")
		return nil, fmt.Errorf("mapping patient %s to FHIR: %w", patientID, err)
	}
	s.logger.Debug().Str("patient_id", patientID).Int("bytes", len(bundle)).Msg("FHIR bundle built")
	return bundle, nil
}
