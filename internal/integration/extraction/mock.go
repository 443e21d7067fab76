package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is used with ENABLE_MOCKS. It reads uncompressed text-show
// operators like LocalConnector but falls back to a placeholder page.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Extract(ctx context.Context, file entity.FileData) (*entity.ExtractionResponse, error) {
	ctxzap.Info(ctx, "[MOCK] extracting text",
		zap.String("filename", file.Filename),
		zap.Int("file_size", len(file.Content)),
	)

	if len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", entity.ErrExtraction)
	}

	lines := textOperators(file.Content)
	if len(lines) == 0 {
		return &entity.ExtractionResponse{
			Pages: []entity.ExtractionPage{{
				Number: 1,
				Text:   fmt.Sprintf("Mock content of %s. The document text could not be read locally.", file.Filename),
			}},
		}, nil
	}

	ctxzap.Debug(ctx, "[MOCK] text operators found", zap.Int("operators", len(lines)))

	return &entity.ExtractionResponse{
		Pages: []entity.ExtractionPage{{Number: 1, Text: strings.Join(lines, "\n")}},
	}, nil
}
