package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var (
	showText  = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*Tj`)
	unescaper = strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\n`, "\n", `\r`, "", `\t`, "\t")
)

// textOperators returns the strings shown by uncompressed Tj operators
func textOperators(content []byte) []string {
	matches := showText.FindAllSubmatch(content, -1)
	lines := make([]string, 0, len(matches))
	for _, match := range matches {
		lines = append(lines, unescaper.Replace(string(match[1])))
	}
	return lines
}

// LocalConnector reads text in-process when no extraction service is configured.
// Compressed or scanned PDFs fail with ErrExtraction.
type LocalConnector struct {
	logger *zap.Logger
}

func NewLocalConnector(logger *zap.Logger) *LocalConnector {
	return &LocalConnector{
		logger: logger,
	}
}

func (l *LocalConnector) Extract(ctx context.Context, file entity.FileData) (*entity.ExtractionResponse, error) {
	if len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", entity.ErrExtraction)
	}

	lines := textOperators(file.Content)
	if len(lines) == 0 {
		ctxzap.Warn(ctx, "no readable text found locally",
			zap.String("filename", file.Filename),
			zap.Int("file_size", len(file.Content)),
		)
		return nil, fmt.Errorf("%w: no readable text in %s (set EXTRACTION_SERVICE_URL)", entity.ErrExtraction, file.Filename)
	}

	ctxzap.Debug(ctx, "text extracted locally",
		zap.String("filename", file.Filename),
		zap.Int("operators", len(lines)),
	)

	return &entity.ExtractionResponse{
		Pages: []entity.ExtractionPage{{Number: 1, Text: strings.Join(lines, "\n")}},
	}, nil
}
