package response

import (
	"encoding/json"
	"net/http"

	"github.com/futig/docchat-backend/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point
			return
		}
	}
}

// Error writes an error response. detail carries err's text when err is set.
func Error(w http.ResponseWriter, status int, message string, err error) {
	body := entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}
	if err != nil {
		body.Detail = err.Error()
	}
	JSON(w, status, body)
}

// Success writes a 200 response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}
