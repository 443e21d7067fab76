package validator

import (
	"mime/multipart"
	"testing"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestValidateDocument(t *testing.T) {
	v := NewFileValidator(config.FileUploadConfig{MaxFileSize: 1024, MaxUploadSize: 2048})

	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr error
	}{
		{name: "pdf", file: &multipart.FileHeader{Filename: "report.pdf", Size: 10}},
		{name: "upper case extension", file: &multipart.FileHeader{Filename: "REPORT.PDF", Size: 10}},
		{name: "text file", file: &multipart.FileHeader{Filename: "notes.txt", Size: 10}, wantErr: entity.ErrInvalidExtension},
		{name: "no extension", file: &multipart.FileHeader{Filename: "report", Size: 10}, wantErr: entity.ErrInvalidExtension},
		{name: "empty", file: &multipart.FileHeader{Filename: "report.pdf"}, wantErr: entity.ErrEmptyFile},
		{name: "too large", file: &multipart.FileHeader{Filename: "report.pdf", Size: 4096}, wantErr: entity.ErrFileTooLarge},
		{name: "missing", file: nil, wantErr: entity.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDocument(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateFilename(t *testing.T) {
	assert.ErrorIs(t, ValidateFilename("  "), entity.ErrMissingField)
	assert.NoError(t, ValidateFilename("a.pdf"))
}

func TestValidateChatRequest(t *testing.T) {
	assert.NoError(t, ValidateChatRequest(&entity.ChatRequest{Message: "hi", SessionID: "s1"}))
	assert.ErrorIs(t, ValidateChatRequest(&entity.ChatRequest{Message: " ", SessionID: "s1"}), entity.ErrMissingField)
	assert.ErrorIs(t, ValidateChatRequest(&entity.ChatRequest{Message: "hi"}), entity.ErrMissingField)
}
