package document

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// UploadFile reads a multipart upload and passes it to Upload
func (uc *DocumentUsecase) UploadFile(ctx context.Context, fh *multipart.FileHeader) (*entity.Document, error) {
	file, err := prepareFileData(ctx, fh)
	if err != nil {
		return nil, err
	}
	return uc.Upload(ctx, file)
}

// prepareFileData reads the uploaded file contents
func prepareFileData(ctx context.Context, fh *multipart.FileHeader) (entity.FileData, error) {
	src, err := fh.Open()
	if err != nil {
		return entity.FileData{}, fmt.Errorf("open file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return entity.FileData{}, fmt.Errorf("read file %s: %w", fh.Filename, err)
	}

	ctxzap.Debug(ctx, "file read",
		zap.String("filename", fh.Filename),
		zap.Int64("size", fh.Size),
	)

	return entity.FileData{
		Filename: fh.Filename,
		Content:  content,
	}, nil
}
