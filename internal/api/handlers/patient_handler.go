package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"patient-management-service/internal/adapters"
	"patient-management-service/internal/domain/dtos"
	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/services"
)

type PatientHandler struct {
	patientService services.PatientServiceContract
	exporter       *adapters.ExcelExporter
	logger         zerolog.Logger
}

func NewPatientHandler(ps services.PatientServiceContract, exporter *adapters.ExcelExporter, logger zerolog.Logger) *PatientHandler {
	return &PatientHandler{
		patientService: ps,
		exporter:       exporter,
		logger:         logger,
	}
}

// View returns every record keyed by id.
func (h *PatientHandler) View(c *fiber.Ctx) error {
	all, err := h.patientService.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	out := make(map[string]dtos.PatientDTO, len(all))
	for id, p := range all {
		dto := dtos.NewPatientDTO(p)
		dto.ID = ""
		out[id] = dto
	}
	return c.JSON(out)
}

func (h *PatientHandler) Get(c *fiber.Ctx) error {
	p, err := h.patientService.Get(c.UserContext(), pathID(c))
	if err != nil {
		return err
	}
	return c.JSON(dtos.NewPatientDTO(p))
}

func (h *PatientHandler) Sort(c *fiber.Ctx) error {
	sortBy := c.Query("sort_by")
	if sortBy == "" {
		return badRequest("sort_by query parameter is required", nil)
	}
	list, err := h.patientService.Sort(c.UserContext(), sortBy, c.Query("order", services.OrderAsc))
	if err != nil {
		return err
	}
	out := make([]dtos.PatientDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dtos.NewPatientDTO(p))
	}
	return c.JSON(out)
}

func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var req dtos.CreatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body", err)
	}
	if _, err := h.patientService.Create(c.UserContext(), req); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dtos.MessageResponse{Message: "Patient created successfully"})
}

func (h *PatientHandler) Edit(c *fiber.Ctx) error {
	var req dtos.UpdatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body", err)
	}
	if _, err := h.patientService.Update(c.UserContext(), pathID(c), req); err != nil {
		return err
	}
	return c.JSON(dtos.MessageResponse{Message: "Patient updated successfully"})
}

func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	if err := h.patientService.Delete(c.UserContext(), pathID(c)); err != nil {
		return err
	}
	return c.JSON(dtos.MessageResponse{Message: "Patient deleted successfully"})
}

// ExportXLSX streams every record as a spreadsheet.
func (h *PatientHandler) ExportXLSX(c *fiber.Ctx) error {
	all, err := h.patientService.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	list := make([]*entities.Patient, 0, len(all))
	for _, p := range all {
		list = append(list, p)
	}
	c.Set(fiber.HeaderContentType, h.exporter.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "patients.xlsx"))
	if err := h.exporter.Export(c, list); err != nil {
		return err
	}
	h.logger.Debug().Int("patients", len(list)).Msg("spreadsheet exported")
	return nil
}

// pathID copies the :id parameter out of fiber's pooled request buffer so it
// can outlive the handler.
func pathID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func RegisterPatientRoutes(router fiber.Router, ph *PatientHandler, guard fiber.Handler) {
	router.Get("/view", ph.View)
	router.Get("/view/:id", ph.Get)
	router.Get("/patient/:id", ph.Get)
	router.Get("/sort", ph.Sort)
	router.Get("/export.xlsx", ph.ExportXLSX)

	router.Post("/create", guard, ph.Create)
	router.Put("/edit/:id", guard, ph.Edit)
	router.Delete("/delete/:id", guard, ph.Delete)
}
