package api

import (
	"net/http"
	"strings"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/pkg/response"
)

type StatsProvider interface {
	Stats() entity.Stats
}

// HealthHandler reports counters and which upstream services are configured.
// Both errors are startup results; nil means configured.
type HealthHandler struct {
	stats         StatsProvider
	generationErr error
	extractionErr error
}

func NewHealthHandler(stats StatsProvider, generationErr, extractionErr error) *HealthHandler {
	return &HealthHandler{
		stats:         stats,
		generationErr: generationErr,
		extractionErr: extractionErr,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.stats.Stats()

	resp := entity.HealthResponse{
		Status:                      "healthy",
		UploadedFiles:               stats.Documents,
		ActiveSessions:              stats.Sessions,
		AIServiceConfigured:         h.generationErr == nil,
		ExtractionServiceConfigured: h.extractionErr == nil,
	}

	var problems []string
	for _, err := range []error{h.generationErr, h.extractionErr} {
		if err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		resp.Status = "degraded"
		resp.Error = strings.Join(problems, "; ")
	}

	response.Success(w, resp)
}
