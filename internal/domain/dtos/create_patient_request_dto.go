package dtos

// CreatePatientRequest defines the payload for creating a new patient.
type CreatePatientRequest struct {
	ID     string  `json:"id" validate:"required,max=64"`
	Name   string  `json:"name" validate:"required,min=1,max=50"`
	City   string  `json:"city" validate:"required"`
	Age    int     `json:"age" validate:"gt=0,lt=120"`
	Gender string  `json:"gender" validate:"required,oneof=male female others"`
	Height float64 `json:"height" validate:"gt=0"`
	Weight float64 `json:"weight" validate:"gt=0"`
}
