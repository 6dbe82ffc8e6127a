package dtos

import "patient-management-service/internal/domain/entities"

// PatientDTO represents patient data in API responses, with derived values
// computed at read time.
type PatientDTO struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	City    string   `json:"city"`
	Age     int      `json:"age"`
	Gender  string   `json:"gender"`
	Height  float64  `json:"height"`
	Weight  float64  `json:"weight"`
	BMI     *float64 `json:"bmi"`
	Verdict string   `json:"verdict,omitempty"`
}

// NewPatientDTO maps an entity to its response form.
func NewPatientDTO(p *entities.Patient) PatientDTO {
	dto := PatientDTO{
		ID:     p.ID,
		Name:   p.Name,
		City:   p.City,
		Age:    p.Age,
		Gender: string(p.Gender),
		Height: p.Height,
		Weight: p.Weight,
	}
	if bmi, ok := p.BMI(); ok {
		dto.BMI = &bmi
		dto.Verdict = string(entities.VerdictFor(bmi))
	}
	return dto
}
