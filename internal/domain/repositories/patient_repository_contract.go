package repositories

import (
	"context"
	"errors"

	"patient-management-service/internal/domain/entities"
)

var (
	// ErrNotFound is returned when no record exists for an identifier.
	ErrNotFound = errors.New("patient not found")
	// ErrConflict is returned when creating a record whose identifier already exists.
	ErrConflict = errors.New("patient already exists")
)

// MutateFunc edits a stored record in place. Returning an error aborts the
// update and leaves the stored record untouched.
type MutateFunc func(patient *entities.Patient) error

// PatientRepositoryContract is the keyed patient store.
type PatientRepositoryContract interface {
	Create(ctx context.Context, patient *entities.Patient) error
	GetByID(ctx context.Context, id string) (*entities.Patient, error)
	// Update runs mutate against the stored record as one atomic read-modify-write.
	Update(ctx context.Context, id string, mutate MutateFunc) (*entities.Patient, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*entities.Patient, error)
	Close() error
}
