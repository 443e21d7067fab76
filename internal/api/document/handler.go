package document

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/pkg/logger"
	"github.com/futig/docchat-backend/internal/pkg/response"
	"github.com/futig/docchat-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const formFileField = "file"

type Handler struct {
	usecase   DocumentUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(
	usecase DocumentUsecase,
	cfg config.FileUploadConfig,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// Upload handles POST /upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File[formFileField]
	if len(files) == 0 {
		h.respondError(ctx, w, http.StatusBadRequest, "file is required", entity.ErrMissingField)
		return
	}
	fh := files[0]

	if err := h.validator.ValidateDocument(fh); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(logger.WithDocument(ctx, fh.Filename), zap.Int64("size", fh.Size))
	ctxzap.Info(ctx, "uploading document")

	doc, err := h.usecase.UploadFile(ctx, fh)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.UploadResponse{
		Success:  true,
		Message:  fmt.Sprintf("PDF '%s' uploaded and processed successfully", doc.Filename),
		Filename: doc.Filename,
	})
}

// DeleteFile handles DELETE /delete_file?filename=
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteFile")

	filename := r.URL.Query().Get("filename")
	if err := validator.ValidateFilename(filename); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "filename is required", err)
		return
	}

	if !h.usecase.Delete(ctx, filename) {
		response.Success(w, entity.SuccessResponse{Success: false, Message: "File not found"})
		return
	}

	response.Success(w, entity.SuccessResponse{Success: true})
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message, err)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidExtension):
		h.respondError(ctx, w, http.StatusBadRequest, "Only PDF files are allowed", err)
	case errors.Is(err, entity.ErrFileTooLarge) || errors.Is(err, entity.ErrEmptyFile) || errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "Error processing PDF", err)
	}
}
