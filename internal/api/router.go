// Package api assembles the fiber application.
package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"patient-management-service/internal/adapters"
	"patient-management-service/internal/api/handlers"
	"patient-management-service/internal/api/middleware"
	"patient-management-service/internal/services"
	"patient-management-service/internal/validation"
)

// Dependencies are the services the HTTP layer is built from. Auth may be
// nil, which leaves mutating routes open and omits /login.
type Dependencies struct {
	Patients    services.PatientServiceContract
	Transfers   services.TransferServiceContract
	Events      services.EventServiceContract
	Auth        services.AuthServiceContract
	Exporter    *adapters.ExcelExporter
	Validator   *validation.Validator
	Logger      zerolog.Logger
	CORSOrigins string
}

// NewApp builds the fiber app with every route registered.
func NewApp(deps Dependencies) *fiber.App {
	logger := deps.Logger.With().Str("component", "http").Logger()

	app := fiber.New(fiber.Config{
		AppName:               "patient-management-service",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          handlers.ErrorHandler(logger),
	})

	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: middleware.RequestIDKey,
	}))
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(cors.New(cors.Config{AllowOrigins: corsOrigins(deps.CORSOrigins)}))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool { return c.Path() == "/events" },
	}))

	guard := middleware.RequireJWT(deps.Auth)

	handlers.RegisterInfoRoutes(app, handlers.NewInfoHandler(deps.Patients))
	handlers.RegisterPatientRoutes(app, handlers.NewPatientHandler(deps.Patients, deps.Exporter, logger), guard)
	handlers.RegisterTransferRoutes(app, handlers.NewTransferHandler(deps.Transfers, logger))
	handlers.RegisterTextRoutes(app, handlers.NewTextHandler())
	handlers.RegisterUserRoutes(app, handlers.NewUserHandler(deps.Validator))
	if deps.Events != nil {
		handlers.RegisterEventRoutes(app, handlers.NewEventsHandler(deps.Events, logger))
	}
	if deps.Auth != nil {
		handlers.RegisterAuthRoutes(app, handlers.NewAuthHandler(deps.Auth, deps.Validator))
	}
	return app
}

func corsOrigins(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "*"
	}
	return raw
}
