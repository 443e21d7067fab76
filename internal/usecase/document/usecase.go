package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/repository"
	"github.com/futig/docchat-backend/internal/vectorindex"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentUsecase implements the upload lifecycle
type DocumentUsecase struct {
	docRepo     repository.DocumentRepository
	extractor   TextExtractor
	chunker     Chunker
	newEmbedder EmbedderFactory
	uploadDir   string
	logger      *zap.Logger
}

// NewUsecase creates a new document use case
func NewUsecase(
	docRepo repository.DocumentRepository,
	extractor TextExtractor,
	chunker Chunker,
	newEmbedder EmbedderFactory,
	uploadDir string,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		docRepo:     docRepo,
		extractor:   extractor,
		chunker:     chunker,
		newEmbedder: newEmbedder,
		uploadDir:   uploadDir,
		logger:      logger,
	}
}

// Upload stores the file, extracts and indexes its text, then registers it.
// Nothing is registered and the stored file is removed if any step fails.
func (uc *DocumentUsecase) Upload(ctx context.Context, file entity.FileData) (*entity.Document, error) {
	filename := filepath.Base(file.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: filename", entity.ErrMissingField)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("%w: %q (allowed: pdf)", entity.ErrInvalidExtension, filepath.Ext(filename))
	}
	if len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrEmptyFile, filename)
	}

	path, err := uc.store(file.Content)
	if err != nil {
		return nil, err
	}

	doc, err := uc.index(ctx, filename, file.Content)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			ctxzap.Warn(ctx, "failed to remove stored file after error", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	doc.Path = path
	doc.Size = int64(len(file.Content))
	doc.UploadedAt = time.Now()

	uc.docRepo.Put(doc)

	ctxzap.Info(ctx, "document uploaded",
		zap.String("filename", filename),
		zap.Int64("size", doc.Size),
		zap.Int("chunks", doc.Chunks),
	)

	return doc, nil
}

func (uc *DocumentUsecase) store(content []byte) (string, error) {
	if err := os.MkdirAll(uc.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(uc.uploadDir, uuid.New().String()+".pdf")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}

func (uc *DocumentUsecase) index(ctx context.Context, filename string, content []byte) (*entity.Document, error) {
	extracted, err := uc.extractor.Extract(ctx, entity.FileData{Filename: filename, Content: content})
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	chunks := make([]string, 0)
	for _, page := range extracted.Pages {
		chunks = append(chunks, uc.chunker.Split(page.Text)...)
	}

	ctxzap.Debug(ctx, "document split into chunks",
		zap.Int("pages", len(extracted.Pages)),
		zap.Int("chunks", len(chunks)),
	)

	embedder := uc.newEmbedder()
	idx, err := vectorindex.Build(ctx, chunks, embedder)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &entity.Document{
		Filename: filename,
		Chunks:   idx.Len(),
		Index:    idx,
	}, nil
}

// Delete removes the document and its stored file; false when unknown
func (uc *DocumentUsecase) Delete(ctx context.Context, filename string) bool {
	deleted := uc.docRepo.Delete(filename)
	ctxzap.Info(ctx, "document delete requested",
		zap.String("filename", filename),
		zap.Bool("deleted", deleted),
	)
	return deleted
}

func (uc *DocumentUsecase) Count() int {
	return uc.docRepo.Count()
}

// Close releases every document and removes the upload directory
func (uc *DocumentUsecase) Close() error {
	uc.docRepo.Close()

	if err := os.RemoveAll(uc.uploadDir); err != nil {
		return fmt.Errorf("remove upload dir: %w", err)
	}
	uc.logger.Info("upload directory cleaned up", zap.String("dir", uc.uploadDir))
	return nil
}
