package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/fhir/mappers"
)

func TestTransferService_ExportFHIR(t *testing.T) {
	svc := NewTransferService(newMemoryRepository(seedPatients()...).asMock(), zerolog.Nop())

	raw, err := svc.ExportFHIR(context.Background(), "P002")
	require.NoError(t, err)

	var bundle mappers.FHIRBundle
	require.NoError(t, json.Unmarshal(raw, &bundle))
	assert.Equal(t, "Bundle", bundle.ResourceType)
	assert.Equal(t, "Patient/P002", bundle.Entry[0].FullURL)
}

func TestTransferService_ExportFHIRMissing(t *testing.T) {
	svc := NewTransferService(newMemoryRepository().asMock(), zerolog.Nop())
	_, err := svc.ExportFHIR(context.Background(), "nope")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
