package dtos

// UpdatePatientRequest defines the payload for a partial update. Nil fields
// are left as stored.
type UpdatePatientRequest struct {
	Name   *string  `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	City   *string  `json:"city,omitempty" validate:"omitempty,min=1"`
	Age    *int     `json:"age,omitempty" validate:"omitempty,gt=0,lt=120"`
	Gender *string  `json:"gender,omitempty" validate:"omitempty,oneof=male female others"`
	Height *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
}

// IsEmpty reports whether no field was supplied.
func (r UpdatePatientRequest) IsEmpty() bool {
	return r.Name == nil && r.City == nil && r.Age == nil && r.Gender == nil && r.Height == nil && r.Weight == nil
}
