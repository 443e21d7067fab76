package api

import (
	"net/http"
	"time"

	chatapi "github.com/futig/docchat-backend/internal/api/chat"
	"github.com/futig/docchat-backend/internal/api/docs"
	documentapi "github.com/futig/docchat-backend/internal/api/document"
	"github.com/futig/docchat-backend/internal/api/middleware"
	"github.com/futig/docchat-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	chatHandler *chatapi.Handler,
	documentHandler *documentapi.Handler,
	healthHandler *HealthHandler,
	requestTimeout time.Duration,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{
			"message": "AI Chat API is running",
			"status":  "healthy",
		})
	})
	r.Get("/health", healthHandler.Health)

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Streams run for as long as the client stays connected
	chatapi.RegisterStreamRoutes(r, chatHandler)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))

		chatapi.RegisterRoutes(r, chatHandler)
		documentapi.RegisterRoutes(r, documentHandler)
	})

	return r
}
