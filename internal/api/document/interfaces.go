package document

import (
	"context"
	"mime/multipart"

	"github.com/futig/docchat-backend/internal/entity"
)

type DocumentUsecase interface {
	UploadFile(ctx context.Context, fh *multipart.FileHeader) (*entity.Document, error)
	Delete(ctx context.Context, filename string) bool
}
