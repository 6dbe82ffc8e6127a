package services

import (
	"context"

	"patient-management-service/internal/domain/dtos"
	"patient-management-service/internal/domain/entities"
)

// Sort fields and orders accepted by PatientServiceContract.Sort.
const (
	SortByHeight = "height"
	SortByWeight = "weight"
	SortByBMI    = "bmi"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// PatientServiceContract defines the operations on patient records.
type PatientServiceContract interface {
	// ListAll returns every record keyed by id.
	ListAll(ctx context.Context) (map[string]*entities.Patient, error)
	// Get returns one record or repositories.ErrNotFound.
	Get(ctx context.Context, id string) (*entities.Patient, error)
	// Sort orders every record by height, weight or bmi. Records without a
	// defined key come last in either order.
	Sort(ctx context.Context, sortBy, order string) ([]*entities.Patient, error)
	// Create validates and inserts a new record.
	Create(ctx context.Context, req dtos.CreatePatientRequest) (*entities.Patient, error)
	// Update applies the supplied fields over the stored record and
	// re-validates the result.
	Update(ctx context.Context, id string, req dtos.UpdatePatientRequest) (*entities.Patient, error)
	// Delete removes a record.
	Delete(ctx context.Context, id string) error
	// Health reports whether the store answers.
	Health(ctx context.Context) error
}
