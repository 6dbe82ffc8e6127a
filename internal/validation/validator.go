// Package validation wraps go-playground/validator with the rules the patient
// and user models rely on.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"patient-management-service/internal/domain/entities"
)

// DefaultEmailDomains are accepted when no allow-list is configured.
var DefaultEmailDomains = []string{"hdfc.com", "icici.com"}

// Validator validates structs against their `validate` tags.
type Validator struct {
	validate     *validator.Validate
	emailDomains map[string]struct{}
}

// New builds a Validator. emailDomains restricts the `email_domain` rule; an
// empty list falls back to DefaultEmailDomains. New panics if a custom rule
// cannot be registered.
func New(emailDomains []string) *Validator {
	if len(emailDomains) == 0 {
		emailDomains = DefaultEmailDomains
	}
	v := &Validator{
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		emailDomains: make(map[string]struct{}, len(emailDomains)),
	}
	for _, d := range emailDomains {
		v.emailDomains[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := registerRules(v.validate, map[string]validator.Func{"email_domain": v.emailDomain}); err != nil {
		panic(err)
	}
	v.validate.RegisterStructValidation(emergencyContact, entities.User{})
	return v
}

func registerRules(validate *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %q rule: %w", tag, err)
		}
	}
	return nil
}

// Struct validates s and returns a *FieldErrors on failure.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &FieldErrors{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, describe(fe))
	}
	return out
}

// AllowedEmailDomains lists the accepted domains.
func (v *Validator) AllowedEmailDomains() []string {
	out := make([]string, 0, len(v.emailDomains))
	for d := range v.emailDomains {
		out = append(out, d)
	}
	return out
}

func (v *Validator) emailDomain(fl validator.FieldLevel) bool {
	email := fl.Field().String()
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	_, ok := v.emailDomains[strings.ToLower(email[at+1:])]
	return ok
}

func emergencyContact(sl validator.StructLevel) {
	u := sl.Current().Interface().(entities.User)
	if u.NeedsEmergencyContact() {
		sl.ReportError(u.Contact, "contact", "Contact", "emergency_contact", "")
	}
}

// FieldErrors lists human readable constraint violations.
type FieldErrors struct {
	Fields []string
}

func (e *FieldErrors) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "email_domain":
		return fmt.Sprintf("%s has a domain that is not allowed", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "emergency_contact":
		return fmt.Sprintf("emergency contact is required for users over %d", entities.EmergencyContactAge)
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
