package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/services"
	"patient-management-service/internal/validation"
)

// UserHandler validates user profiles and serialises them with field
// selection options.
type UserHandler struct {
	validator *validation.Validator
}

func NewUserHandler(v *validation.Validator) *UserHandler {
	return &UserHandler{validator: v}
}

// serializeOptions mirrors the include/exclude/exclude_unset query options.
type serializeOptions struct {
	include      map[string]bool
	exclude      map[string]bool
	excludeUnset bool
}

func parseFieldList(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	out := map[string]bool{}
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out[f] = true
		}
	}
	return out
}

func (h *UserHandler) Validate(c *fiber.Ctx) error {
	opts := serializeOptions{
		include: parseFieldList(c.Query("include")),
		exclude: parseFieldList(c.Query("exclude")),
	}
	if raw := c.Query("exclude_unset"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest("exclude_unset must be a boolean", err)
		}
		opts.excludeUnset = v
	}

	body := c.Body()
	var supplied map[string]json.RawMessage
	if err := json.Unmarshal(body, &supplied); err != nil {
		return badRequest("invalid request body", err)
	}
	var user entities.User
	if err := json.Unmarshal(body, &user); err != nil {
		return badRequest("invalid request body", err)
	}
	if err := h.validator.Struct(user); err != nil {
		return validationFailure("invalid user", err)
	}
	user.Normalize()

	out, err := serializeUser(user, supplied, opts)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// serializeUser renders user as a field map. Computed fields count as set.
func serializeUser(user entities.User, supplied map[string]json.RawMessage, opts serializeOptions) (map[string]any, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	computed := map[string]bool{}
	if bmi, ok := user.BMI(); ok {
		fields["bmi"] = bmi
		computed["bmi"] = true
	}

	for name := range fields {
		_, set := supplied[name]
		switch {
		case opts.excludeUnset && !set && !computed[name]:
			delete(fields, name)
		case opts.include != nil && !opts.include[name]:
			delete(fields, name)
		case opts.exclude[name]:
			delete(fields, name)
		}
	}
	return fields, nil
}

func validationFailure(message string, err error) error {
	var fe *validation.FieldErrors
	if errors.As(err, &fe) {
		return services.NewValidationError(message, fe.Fields...)
	}
	return err
}

func RegisterUserRoutes(router fiber.Router, uh *UserHandler) {
	router.Post("/users/validate", uh.Validate)
}
