package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/studio-api/internal/api"
	apimiddleware "github.com/phrazzld/studio-api/internal/api/middleware"
	"github.com/phrazzld/studio-api/internal/config"
	"github.com/phrazzld/studio-api/internal/events"
	"github.com/phrazzld/studio-api/internal/generation"
	"github.com/phrazzld/studio-api/internal/platform/gemini"
	"github.com/phrazzld/studio-api/internal/platform/openai"
	"github.com/phrazzld/studio-api/internal/platform/postgres"
	"github.com/phrazzld/studio-api/internal/service"
	"github.com/phrazzld/studio-api/internal/service/auth"
	"github.com/phrazzld/studio-api/internal/task"
)

// textProvider is the set of language-model interfaces the configured
// backend must serve. Image generation is separate: it always goes
// through the OpenAI-compatible images endpoint regardless of which
// backend handles text.
type textProvider interface {
	generation.BriefParser
	generation.CopyGenerator
	generation.ComplianceReviewer
	generation.ChatResponder
}

// application holds the assembled dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskRunner *task.TaskRunner

	authHandler    *api.AuthHandler
	briefHandler   *api.BriefHandler
	productHandler *api.ProductHandler
	contentHandler *api.ContentHandler
	chatHandler    *api.ChatHandler
	authMiddleware *apimiddleware.AuthMiddleware
}

// newApplication wires up every layer of the server: stores, generation
// providers, services, background task processing, and HTTP handlers.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	// Stores
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	briefStore := postgres.NewPostgresBriefStore(db, logger)
	productStore := postgres.NewPostgresProductStore(db, logger)
	contentStore := postgres.NewPostgresContentStore(db, logger)
	violationStore := postgres.NewPostgresViolationStore(db, logger)
	conversationStore := postgres.NewPostgresConversationStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	// Generation providers. The OpenAI provider is always constructed
	// because it is the only image backend; when it also handles text
	// the same instance serves both roles.
	openaiProvider, err := openai.NewProvider(logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai provider: %w", err)
	}

	var text textProvider
	switch cfg.LLM.Provider {
	case "gemini":
		geminiProvider, err := gemini.NewProvider(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		text = geminiProvider
	case "openai":
		text = openaiProvider
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLM.Provider)
	}

	// Auth
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier()

	// Events and background task processing
	emitter := events.NewInMemoryEventEmitter(logger)

	taskRunner := task.NewTaskRunner(taskStore, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)

	// Services
	userService := service.NewUserService(userStore, jwtService, passwordVerifier, logger)
	briefService := service.NewBriefService(briefStore, text, logger)
	productService := service.NewProductService(productStore, logger)
	contentService := service.NewContentService(db, contentStore, violationStore,
		briefStore, productStore, emitter, logger)
	chatService := service.NewChatService(conversationStore, text, logger)
	complianceAdapter := service.NewComplianceAdapter(text, logger)

	// Task factories: the event handler routes each task request event
	// to the factory registered for its type, and rehydrates recovered
	// tasks the same way. Factories must be registered before the
	// runner starts so recovery can rebuild execution functions.
	eventHandler := task.NewTaskFactoryEventHandler(taskRunner, logger)
	eventHandler.RegisterFactory(task.TaskTypeContentGeneration,
		task.NewContentGenerationTaskFactory(contentService, contentService, text, complianceAdapter, logger))
	eventHandler.RegisterFactory(task.TaskTypeImageGeneration,
		task.NewImageGenerationTaskFactory(contentService, openaiProvider, logger))
	taskRunner.SetTaskRehydrator(eventHandler.RehydrateTask)
	emitter.RegisterHandler(eventHandler)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		taskRunner:     taskRunner,
		authHandler:    api.NewAuthHandler(userService),
		briefHandler:   api.NewBriefHandler(briefService),
		productHandler: api.NewProductHandler(productService),
		contentHandler: api.NewContentHandler(contentService),
		chatHandler:    api.NewChatHandler(chatService),
		authMiddleware: apimiddleware.NewAuthMiddleware(jwtService),
	}, nil
}

// cleanup releases the application's long-lived resources. Safe to call
// once after the HTTP server has stopped accepting requests.
func (app *application) cleanup() {
	app.logger.Info("stopping task runner")
	app.taskRunner.Stop()

	app.logger.Info("closing database connection")
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
