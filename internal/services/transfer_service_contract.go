package services

import (
	"context"
	"encoding/json"
)

// TransferServiceContract exports patient records in an interchange format.
type TransferServiceContract interface {
	// ExportFHIR returns the record as a FHIR collection Bundle.
	ExportFHIR(ctx context.Context, patientID string) (json.RawMessage, error)
}
