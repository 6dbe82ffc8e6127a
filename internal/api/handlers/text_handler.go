package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"patient-management-service/internal/domain/dtos"
)

// maxSquareOperand keeps n*n inside int64.
const maxSquareOperand = 3037000499

// TextHandler serves the small greeting and text utilities.
type TextHandler struct{}

func NewTextHandler() *TextHandler {
	return &TextHandler{}
}

func greeting(name string) dtos.MessageResponse {
	return dtos.MessageResponse{Message: fmt.Sprintf("Hello, %s!", name)}
}

func (h *TextHandler) HelloPath(c *fiber.Ctx) error {
	return c.JSON(greeting(c.Params("name")))
}

func (h *TextHandler) HelloQuery(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return badRequest("name query parameter is required", nil)
	}
	return c.JSON(greeting(name))
}

func (h *TextHandler) Square(c *fiber.Ctx) error {
	n, err := strconv.ParseInt(c.Params("number"), 10, 64)
	if err != nil {
		return badRequest("number must be an integer", err)
	}
	if n > maxSquareOperand || n < -maxSquareOperand {
		return badRequest("number is too large", nil)
	}
	return c.JSON(dtos.SquareResponse{Number: n, Square: n * n})
}

func (h *TextHandler) ProcessText(c *fiber.Ctx) error {
	var req dtos.TextRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body", err)
	}
	if req.Text == "" {
		return badRequest("Text cannot be empty", nil)
	}
	processed := req.Text
	if req.Uppercase {
		processed = strings.ToUpper(processed)
	}
	return c.JSON(dtos.TextResponse{Processed: processed, Length: utf8.RuneCountInString(processed)})
}

func RegisterTextRoutes(router fiber.Router, th *TextHandler) {
	router.Get("/hello", th.HelloQuery)
	router.Get("/hello/:name", th.HelloPath)
	router.Get("/square/:number", th.Square)
	router.Post("/process_text", th.ProcessText)
}
