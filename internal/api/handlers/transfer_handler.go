package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"patient-management-service/internal/services"
)

// FHIRContentType is the media type of FHIR JSON resources.
const FHIRContentType = "application/fhir+json"

type TransferHandler struct {
	transferService services.TransferServiceContract
	logger          zerolog.Logger
	timeout         time.Duration
}

func NewTransferHandler(ts services.TransferServiceContract, logger zerolog.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: ts,
		logger:          logger,
		timeout:         30 * time.Second,
	}
}

// ExportFHIR returns one record as a FHIR Bundle.
func (h *TransferHandler) ExportFHIR(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	id := pathID(c)
	bundle, err := h.transferService.ExportFHIR(ctx, id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn().Str("patient_id", id).Dur("timeout", h.timeout).Msg("fhir export timed out")
		}
		return err
	}
	h.logger.Debug().Str("patient_id", id).Int("bytes", len(bundle)).Msg("fhir bundle exported")
	c.Set(fiber.HeaderContentType, FHIRContentType)
	return c.Send(bundle)
}

func RegisterTransferRoutes(router fiber.Router, th *TransferHandler) {
	router.Get("/patient/:id/fhir", th.ExportFHIR)
}
