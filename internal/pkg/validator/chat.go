package validator

import (
	"fmt"
	"strings"

	"github.com/futig/docchat-backend/internal/entity"
)

// ValidateChatRequest checks the fields a chat turn cannot do without
func ValidateChatRequest(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return fmt.Errorf("%w: session_id", entity.ErrMissingField)
	}
	return nil
}
