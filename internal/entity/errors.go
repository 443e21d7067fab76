package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Configuration errors
	ErrConfiguration = errors.New("service is not configured")

	// Lookup errors
	ErrNotFound         = errors.New("not found")
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
	ErrSessionNotFound  = fmt.Errorf("session %w", ErrNotFound)

	// Upstream errors
	ErrUpstream          = errors.New("upstream generation error")
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrUpstream)

	// Document errors
	ErrIndexBuild       = errors.New("index build failed")
	ErrExtraction       = errors.New("text extraction failed")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrFileTooLarge     = errors.New("file too large")
	ErrEmptyFile        = errors.New("empty file")

	// Validation errors
	ErrMissingField = errors.New("required field is missing")
)
