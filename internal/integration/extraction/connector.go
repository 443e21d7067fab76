package extraction

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/integration/common"
	pkghttp "github.com/futig/docchat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.ExtractionConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ExtractionConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Extract sends a PDF to the extraction service and returns its pages
// POST {extract_endpoint} with multipart/form-data field "file"
func (c *Connector) Extract(ctx context.Context, file entity.FileData) (*entity.ExtractionResponse, error) {
	ctxzap.Info(ctx, "extracting text via extraction service", zap.Int("file_size", len(file.Content)))

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile("file", file.Filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp entity.ExtractionResponse
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.ExtractEndpoint, prepareBody, &resp)
	if err != nil {
		ctxzap.Error(ctx, "failed to extract text", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entity.ErrExtraction, err)
	}

	ctxzap.Info(ctx, "text extracted successfully", zap.Int("page_count", len(resp.Pages)))
	return &resp, nil
}
