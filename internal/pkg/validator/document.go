package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".pdf": true,
}

// Validator validates file uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateDocument checks a single uploaded document
func (v *Validator) ValidateDocument(fh *multipart.FileHeader) error {
	if fh == nil || fh.Filename == "" {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: %q (allowed: pdf)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size == 0 {
		return fmt.Errorf("%w: %s", entity.ErrEmptyFile, fh.Filename)
	}

	if fh.Size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
	}

	return nil
}

// ValidateFilename checks a filename given as a request parameter
func ValidateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: filename", entity.ErrMissingField)
	}
	return nil
}
