package chat

import (
	"time"

	"github.com/futig/docchat-backend/internal/entity"
)

func toChatResponse(res *entity.ChatResult) entity.ChatResponse {
	sources := res.Sources
	if sources == nil {
		sources = []string{}
	}
	return entity.ChatResponse{
		Content:   res.Content,
		Sources:   sources,
		SessionID: res.SessionID,
		Success:   true,
	}
}

// toStreamError is the in-band failure event; it carries no sources
func toStreamError(sessionID string, err error) map[string]any {
	return map[string]any{
		"content":    "Error: " + err.Error(),
		"session_id": sessionID,
		"success":    false,
	}
}

func toHistoryResponse(turns []entity.Turn) entity.HistoryResponse {
	messages := make([]entity.HistoryMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, entity.HistoryMessage{
			Role:      string(t.Role),
			Content:   t.Text,
			Timestamp: t.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return entity.HistoryResponse{Messages: messages}
}
