package main

import (
	"context"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"

	"github.com/flowsmith/flowsmith/pkg/catalog"
	pkgcmd "github.com/flowsmith/flowsmith/pkg/cmd"
	"github.com/flowsmith/flowsmith/pkg/features"
	"github.com/flowsmith/flowsmith/pkg/llm"
	"github.com/flowsmith/flowsmith/pkg/log"
	"github.com/flowsmith/flowsmith/pkg/otelhelper"
	"github.com/flowsmith/flowsmith/pkg/services"
)

const defaultPort = 9092

func main() {
	logger := log.WithModule("api")

	cmd := &cli.Command{
		Name:                  "flowsmith-api",
		Usage:                 "Generate automation workflows from natural-language descriptions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "store-url",
				Usage:   "Workflow store URL (redis://... or empty for in-memory)",
				Sources: cli.EnvVars("STORE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, memory)",
				Value:   "memory",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "OpenAI API key; when set, generation tries the LLM collaborator first",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-model",
				Usage:   "OpenAI model for the LLM collaborator",
				Sources: cli.EnvVars("OPENAI_MODEL"),
			},
			&cli.DurationFlag{
				Name:    "llm-timeout",
				Usage:   "Timeout for the LLM collaborator before falling back",
				Value:   20 * time.Second,
				Sources: cli.EnvVars("LLM_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Flowsmith API")

			library, err := catalog.Load()
			if err != nil {
				return err
			}

			detector, err := features.NewDetector()
			if err != nil {
				return err
			}

			workflowStore := pkgcmd.NewStore(command.String("store-url"), logger)
			defer func() {
				if err := workflowStore.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close workflow store", "error", err)
				}
			}()

			eventBus := pkgcmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			var llmGenerator llm.Generator
			if apiKey := command.String("openai-api-key"); apiKey != "" {
				llmGenerator = llm.NewOpenAIGenerator(
					apiKey,
					command.String("openai-model"),
					command.Duration("llm-timeout"),
					log.WithModule("llm"),
				)

				logger.InfoContext(ctx, "LLM collaborator enabled")
			}

			tracer := otel.Tracer("flowsmith-api")

			if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
				exportingTracer, err := otelhelper.NewTracer(ctx, "flowsmith-api")
				if err != nil {
					logger.WarnContext(ctx, "Failed to initialize tracer, continuing without export", "error", err)
				} else {
					tracer = exportingTracer
				}
			}

			generationService := services.NewGeneration(
				library,
				detector,
				llmGenerator,
				workflowStore,
				eventBus,
				tracer,
				logger,
			)

			api := NewAPI(logger, generationService)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
