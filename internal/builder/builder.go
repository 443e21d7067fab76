package builder

import (
	"fmt"
	"net/http"

	"github.com/futig/docchat-backend/internal/api"
	chatapi "github.com/futig/docchat-backend/internal/api/chat"
	documentapi "github.com/futig/docchat-backend/internal/api/document"
	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/pkg/chunker"
	"github.com/futig/docchat-backend/internal/pkg/validator"
	"github.com/futig/docchat-backend/internal/prompt"
	"github.com/futig/docchat-backend/internal/repository"
	"github.com/futig/docchat-backend/internal/usecase/chat"
	"github.com/futig/docchat-backend/internal/usecase/document"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	return build(cfg, logger)
}

func build(cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize external service connectors (with mock support)
	generationClient, generationErr := newGenerationClient(cfg, logger)
	extractor, extractionErr := newExtractor(cfg, logger)
	newEmbedder, err := newEmbedderFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup embedder: %w", err)
	}

	// Initialize repositories
	documentRepo := repository.NewDocumentCache(
		cfg.StoreCfg.DocumentIdleTTL,
		cfg.StoreCfg.CleanupInterval,
		repository.RemoveStoredFile(logger),
	)
	sessionRepo := repository.NewSessionCache(
		cfg.StoreCfg.SessionIdleTTL,
		cfg.StoreCfg.CleanupInterval,
		generationClient,
		cfg.MemoryCfg.MaxTokens,
	)
	logger.Info("Repositories initialized",
		zap.Duration("session_idle_ttl", cfg.StoreCfg.SessionIdleTTL),
		zap.Duration("document_idle_ttl", cfg.StoreCfg.DocumentIdleTTL),
	)

	// Initialize use cases
	documentUC := document.NewUsecase(
		documentRepo,
		extractor,
		chunker.New(
			chunker.WithChunkSize(cfg.ChunkerCfg.Size),
			chunker.WithOverlap(cfg.ChunkerCfg.Overlap),
		),
		newEmbedder,
		cfg.FileUploadCfg.Dir,
		logger,
	)

	chatUC := chat.NewUsecase(
		sessionRepo,
		documentRepo,
		prompt.NewComposer(cfg.Prompts, cfg.MemoryCfg.HistoryTurns),
		generationClient,
		chat.Options{
			ChatTopK:     cfg.RetrievalCfg.ChatTopK,
			AskTopK:      cfg.RetrievalCfg.AskTopK,
			HistoryTurns: cfg.MemoryCfg.HistoryTurns,
		},
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	chatHandler := chatapi.NewHandler(chatUC)
	documentHandler := documentapi.NewHandler(documentUC, cfg.FileUploadCfg, fileValidator)
	healthHandler := api.NewHealthHandler(chatUC, generationErr, extractionErr)

	router := api.SetupRouter(chatHandler, documentHandler, healthHandler, cfg.ServerCfg.RequestTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ServerCfg.ReadTimeout,
		WriteTimeout: cfg.ServerCfg.WriteTimeout,
		IdleTimeout:  cfg.ServerCfg.IdleTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.Bool("generation_configured", generationErr == nil),
		zap.Bool("extraction_configured", extractionErr == nil),
	)

	return &App{
		server:          server,
		documents:       documentUC,
		logger:          logger,
		shutdownTimeout: cfg.ServerCfg.ShutdownTimeout,
	}, nil
}
