package entities

import (
	"math"
	"strings"
)

// EmergencyContactAge is the age above which a user must list an emergency contact.
const EmergencyContactAge = 60

// Address is a postal address nested inside a User.
type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

// User is a contact profile validated and serialized by the /users endpoints.
type User struct {
	Name      string            `json:"name" validate:"required,min=1,max=50"`
	Age       int               `json:"age" validate:"gt=0,lt=120"`
	Email     string            `json:"email" validate:"required,email,email_domain"`
	LinkedIn  string            `json:"linkedin" validate:"required,url"`
	Weight    float64           `json:"weight" validate:"gt=0"`
	Height    *float64          `json:"height,omitempty" validate:"omitempty,gt=0"`
	Married   *bool             `json:"married"`
	Allergies []string          `json:"allergies"`
	Contact   map[string]string `json:"contact" validate:"required"`
	Address   *Address          `json:"address,omitempty" validate:"omitempty"`
}

// Normalize applies the field transforms that run after validation.
func (u *User) Normalize() {
	u.Name = strings.ToUpper(u.Name)
}

// NeedsEmergencyContact reports whether the model-level emergency contact rule is violated.
func (u *User) NeedsEmergencyContact() bool {
	if u.Age <= EmergencyContactAge {
		return false
	}
	_, ok := u.Contact["emergency"]
	return !ok
}

// BMI is computed from weight and height when height is known.
func (u *User) BMI() (float64, bool) {
	if u.Height == nil || *u.Height <= 0 {
		return 0, false
	}
	h := *u.Height
	return math.Round(u.Weight/(h*h)*100) / 100, true
}
