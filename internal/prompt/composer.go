// Package prompt renders the text sent to the generation service.
package prompt

import (
	"strings"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
)

const DefaultHistoryTurns = 4

// Composer is stateless; its output depends only on its arguments and the
// configured templates.
type Composer struct {
	prompts      config.Prompts
	historyTurns int
}

func NewComposer(prompts config.Prompts, historyTurns int) *Composer {
	if historyTurns < 0 {
		historyTurns = DefaultHistoryTurns
	}
	return &Composer{
		prompts:      prompts,
		historyTurns: historyTurns,
	}
}

// Compose builds a chat prompt from retrieved chunks (rank order), prior
// turns (oldest first) and the new user message. Only the last
// historyTurns turns are rendered.
func (c *Composer) Compose(message string, chunks []string, history []entity.Turn) string {
	var b strings.Builder

	if len(chunks) > 0 {
		b.WriteString(c.prompts.ContextPreamble)
		b.WriteString("\n\nDocument Context:\n")
		b.WriteString(strings.Join(chunks, "\n\n"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(c.prompts.PlainPreamble)
		b.WriteString("\n\n")
	}

	if len(history) > c.historyTurns {
		history = history[len(history)-c.historyTurns:]
	}
	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, turn := range history {
			b.WriteString(turn.Role.Label())
			b.WriteString(": ")
			b.WriteString(turn.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("User: ")
	b.WriteString(message)
	b.WriteString("\n\nAssistant:")

	return b.String()
}

// ComposeQuestion builds the stateless question-answering prompt with every
// retrieved chunk stuffed into the context slot
func (c *Composer) ComposeQuestion(question string, chunks []string) string {
	return strings.NewReplacer(
		"{context}", strings.Join(chunks, "\n\n"),
		"{question}", question,
	).Replace(c.prompts.QuestionTemplate)
}
