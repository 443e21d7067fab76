package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/memory"
)

// GenerationClient produces answers for prompts
type GenerationClient interface {
	Complete(ctx context.Context, req *entity.GenerationRequest) (string, error)
	StreamComplete(ctx context.Context, req *entity.GenerationRequest) (<-chan string, <-chan error)
}

// Session is one caller-identified conversation
type Session struct {
	ID        string
	Memory    *memory.Conversation
	Client    GenerationClient
	CreatedAt time.Time

	messageCount atomic.Int64
}

// RecordExchange stores a completed exchange and counts it
func (s *Session) RecordExchange(userText, assistantText string) {
	s.Memory.AppendExchange(userText, assistantText)
	s.messageCount.Add(1)
}

// MessageCount is the number of completed exchanges
func (s *Session) MessageCount() int64 {
	return s.messageCount.Load()
}
