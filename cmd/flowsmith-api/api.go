// Package main provides the Flowsmith API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/flowsmith/flowsmith/pkg/services"
	"github.com/flowsmith/flowsmith/pkg/web"
)

type API struct {
	logger            *slog.Logger
	generationService *services.Generation
	validate          *validator.Validate
}

func NewAPI(logger *slog.Logger, generationService *services.Generation) *API {
	return &API{
		logger:            logger,
		generationService: generationService,
		validate:          validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.generationService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowsmith API")
	})

	w := app.Group("/workflows")
	w.Post("/generate", handlers.GenerateWorkflow)
	w.Post("/validate", handlers.ValidateWorkflow)
	w.Post("/repair", handlers.RepairWorkflow)
	w.Get("/:id", handlers.GetWorkflow)

	app.Get("/templates", handlers.ListTemplates)
	app.Post("/features/detect", handlers.DetectFeatures)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
