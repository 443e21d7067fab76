package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers locally without calling the generation service.
// The streamed fragments concatenate to exactly the blocking answer.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) answer(prompt string) string {
	lastLine := prompt
	if idx := strings.LastIndex(prompt, "User: "); idx >= 0 {
		lastLine = prompt[idx+len("User: "):]
	} else if idx := strings.LastIndex(prompt, "Question: "); idx >= 0 {
		lastLine = prompt[idx+len("Question: "):]
	}
	if idx := strings.Index(lastLine, "\n"); idx >= 0 {
		lastLine = lastLine[:idx]
	}
	return fmt.Sprintf("[mock] You said: %s", strings.TrimSpace(lastLine))
}

func (m *MockConnector) Complete(ctx context.Context, req *entity.GenerationRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] completing prompt", zap.Int("prompt_length", len(req.Prompt)))
	return m.answer(req.Prompt), nil
}

// StreamComplete emits the mock answer word by word; each fragment after the
// first keeps its leading space
func (m *MockConnector) StreamComplete(ctx context.Context, req *entity.GenerationRequest) (<-chan string, <-chan error) {
	ctxzap.Info(ctx, "[MOCK] streaming prompt", zap.Int("prompt_length", len(req.Prompt)))

	fragments := make(chan string)
	errCh := make(chan error, 1)

	words := strings.SplitAfter(m.answer(req.Prompt), " ")

	go func() {
		defer close(errCh)
		defer close(fragments)

		for i, w := range words {
			if w == "" {
				continue
			}
			fragment := strings.TrimSuffix(w, " ")
			if i > 0 {
				fragment = " " + fragment
			}
			select {
			case fragments <- fragment:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return fragments, errCh
}
