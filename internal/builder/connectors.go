package builder

import (
	"fmt"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/integration/embedding"
	"github.com/futig/docchat-backend/internal/integration/extraction"
	"github.com/futig/docchat-backend/internal/integration/generation"
	"github.com/futig/docchat-backend/internal/repository"
	"github.com/futig/docchat-backend/internal/usecase/document"
	"github.com/futig/docchat-backend/internal/vectorindex"
	"go.uber.org/zap"
)

// newGenerationClient picks the mock, the real connector, or a stand-in that
// fails every call when settings are missing. The returned error is the
// configuration problem, if any.
func newGenerationClient(cfg *config.Config, logger *zap.Logger) (repository.GenerationClient, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock generation connector")
		return generation.NewMockConnector(logger), nil
	}

	if err := cfg.GenerationCfg.Validate(); err != nil {
		logger.Warn("Generation service is not configured, chat will fail until it is", zap.Error(err))
		return generation.NewUnconfiguredConnector(err), fmt.Errorf("%w: %w", entity.ErrConfiguration, err)
	}

	logger.Info("Using real generation connector",
		zap.String("url", cfg.GenerationCfg.Url),
		zap.String("stream_url", cfg.GenerationCfg.StreamURL),
	)
	return generation.NewConnector(cfg.GenerationCfg, logger), nil
}

// newExtractor falls back to the local reader without a service URL. The
// returned error describes that limitation for /health.
func newExtractor(cfg *config.Config, logger *zap.Logger) (document.TextExtractor, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock extraction connector")
		return extraction.NewMockConnector(logger), nil
	}

	if cfg.ExtractionCfg.Url == "" {
		logger.Warn("Extraction service is not configured, only uncompressed PDFs can be read")
		return extraction.NewLocalConnector(logger),
			fmt.Errorf("%w: EXTRACTION_SERVICE_URL is not set, only uncompressed PDFs can be read", entity.ErrConfiguration)
	}

	logger.Info("Using real extraction connector", zap.String("url", cfg.ExtractionCfg.Url))
	return extraction.NewConnector(cfg.ExtractionCfg, logger), nil
}

// newEmbedderFactory returns a factory for the configured provider. TF-IDF
// instances are fitted per document, so the local factory builds a new one
// on every call.
func newEmbedderFactory(cfg *config.Config, logger *zap.Logger) (document.EmbedderFactory, error) {
	switch cfg.EmbeddingCfg.Provider {
	case "", "local":
		logger.Info("Using local TF-IDF embedder")
		return func() vectorindex.Embedder { return embedding.NewTFIDF() }, nil
	case "openai":
		logger.Info("Using OpenAI-compatible embedder",
			zap.String("model", cfg.EmbeddingCfg.Model),
			zap.String("base_url", cfg.EmbeddingCfg.BaseURL),
		)
		client := embedding.NewOpenAI(cfg.EmbeddingCfg, logger)
		return func() vectorindex.Embedder { return client }, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingCfg.Provider)
	}
}
