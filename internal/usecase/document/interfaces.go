package document

import (
	"context"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/vectorindex"
)

type TextExtractor interface {
	Extract(ctx context.Context, file entity.FileData) (*entity.ExtractionResponse, error)
}

type Chunker interface {
	Split(text string) []string
}

// EmbedderFactory returns a fresh embedder for every document
type EmbedderFactory func() vectorindex.Embedder
