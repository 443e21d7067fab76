package chat

import (
	"github.com/futig/docchat-backend/internal/entity"
)

type PromptComposer interface {
	Compose(message string, chunks []string, history []entity.Turn) string
	ComposeQuestion(question string, chunks []string) string
}

// FragmentFunc receives streamed fragments in order. Returning an error
// stops the generation.
type FragmentFunc func(fragment string) error
