package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"patient-management-service/internal/domain/dtos"
	"patient-management-service/internal/services"
)

type InfoHandler struct {
	patientService services.PatientServiceContract
}

func NewInfoHandler(ps services.PatientServiceContract) *InfoHandler {
	return &InfoHandler{patientService: ps}
}

func (h *InfoHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dtos.MessageResponse{Message: "Patient Management System API"})
}

func (h *InfoHandler) About(c *fiber.Ctx) error {
	return c.JSON(dtos.MessageResponse{Message: "A fully functional API to manage your patient records"})
}

// Health reports 503 when the store does not answer within two seconds.
func (h *InfoHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.patientService.Health(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func RegisterInfoRoutes(router fiber.Router, ih *InfoHandler) {
	router.Get("/", ih.Root)
	router.Get("/about", ih.About)
	router.Get("/health", ih.Health)
}
