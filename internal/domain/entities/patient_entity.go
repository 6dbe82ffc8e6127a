package entities

import "math"

// Gender is the administrative gender recorded for a patient.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOthers Gender = "others"
)

// Verdict is the BMI category of a patient.
type Verdict string

const (
	VerdictUnderweight Verdict = "Underweight"
	VerdictNormal      Verdict = "Normal"
	VerdictOverweight  Verdict = "Overweight"
	VerdictObese       Verdict = "Obese"
)

// BMI category upper bounds (exclusive).
const (
	UnderweightBelow = 18.5
	NormalBelow      = 25.0
	OverweightBelow  = 30.0
)

// Patient represents a patient record. ID is the store key and is never
// serialized inside the stored value.
type Patient struct {
	ID     string  `json:"-" gorm:"primaryKey;size:64" validate:"required,max=64"`
	Name   string  `json:"name" gorm:"not null" validate:"required,min=1,max=50"`
	City   string  `json:"city" gorm:"not null" validate:"required"`
	Age    int     `json:"age" gorm:"not null" validate:"gt=0,lt=120"`
	Gender Gender  `json:"gender" gorm:"size:16;not null" validate:"required,oneof=male female others"`
	Height float64 `json:"height" gorm:"not null" validate:"gt=0"`
	Weight float64 `json:"weight" gorm:"not null" validate:"gt=0"`
}

// BMI returns weight / height² rounded to two decimals. ok is false when the
// record has no usable height or weight.
func (p *Patient) BMI() (bmi float64, ok bool) {
	if p.Height <= 0 || p.Weight <= 0 {
		return 0, false
	}
	return math.Round(p.Weight/(p.Height*p.Height)*100) / 100, true
}

// Verdict returns the BMI category, or "" when BMI is undefined.
func (p *Patient) Verdict() Verdict {
	bmi, ok := p.BMI()
	if !ok {
		return ""
	}
	return VerdictFor(bmi)
}

// VerdictFor buckets a BMI value.
func VerdictFor(bmi float64) Verdict {
	switch {
	case bmi < UnderweightBelow:
		return VerdictUnderweight
	case bmi < NormalBelow:
		return VerdictNormal
	case bmi < OverweightBelow:
		return VerdictOverweight
	default:
		return VerdictObese
	}
}

// Clone returns a copy that shares no state with p.
func (p *Patient) Clone() *Patient {
	c := *p
	return &c
}
