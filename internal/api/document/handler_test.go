package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	uploadErr error
	uploaded  []string
	known     map[string]bool
}

func (f *fakeUsecase) UploadFile(_ context.Context, fh *multipart.FileHeader) (*entity.Document, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploaded = append(f.uploaded, fh.Filename)
	return &entity.Document{Filename: fh.Filename, Size: fh.Size}, nil
}

func (f *fakeUsecase) Delete(_ context.Context, filename string) bool {
	if f.known[filename] {
		delete(f.known, filename)
		return true
	}
	return false
}

func newRouter(uc DocumentUsecase) http.Handler {
	cfg := config.FileUploadConfig{MaxFileSize: 1024, MaxUploadSize: 4096}
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, cfg, validator.NewFileValidator(cfg)))
	return r
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) entity.ErrorResponse {
	t.Helper()
	var body entity.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUpload(t *testing.T) {
	uc := &fakeUsecase{}
	rec := httptest.NewRecorder()

	newRouter(uc).ServeHTTP(rec, uploadRequest(t, "file", "report.pdf", []byte("%PDF-1.4")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"message": "PDF 'report.pdf' uploaded and processed successfully",
		"filename": "report.pdf"
	}`, rec.Body.String())
	assert.Equal(t, []string{"report.pdf"}, uc.uploaded)
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		message  string
		uploaded bool
	}{
		{
			name:    "not a pdf",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "notes.txt", []byte("hello")) },
			message: "Only PDF files are allowed",
		},
		{
			name:    "wrong field",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "document", "report.pdf", []byte("%PDF")) },
			message: "file is required",
		},
		{
			name:    "empty file",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "report.pdf", nil) },
			message: "invalid file",
		},
		{
			name:    "too large",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "report.pdf", bytes.Repeat([]byte("a"), 2048)) },
			message: "invalid file",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(`{}`))
			},
			message: "invalid form data or size too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUsecase{}
			rec := httptest.NewRecorder()

			newRouter(uc).ServeHTTP(rec, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec).Message)
			assert.Empty(t, uc.uploaded)
		})
	}
}

func TestUpload_ProcessingFailure(t *testing.T) {
	uc := &fakeUsecase{uploadErr: fmt.Errorf("build index: %w", entity.ErrIndexBuild)}
	rec := httptest.NewRecorder()

	newRouter(uc).ServeHTTP(rec, uploadRequest(t, "file", "report.pdf", []byte("%PDF-1.4")))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Error processing PDF", body.Message)
	assert.Contains(t, body.Detail, "index build failed")
}

func TestDeleteFile(t *testing.T) {
	uc := &fakeUsecase{known: map[string]bool{"report.pdf": true}}
	router := newRouter(uc)

	do := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, target, nil))
		return rec
	}

	rec := do("/delete_file?filename=report.pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do("/delete_file?filename=report.pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"File not found"}`, rec.Body.String())

	rec = do("/delete_file")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
