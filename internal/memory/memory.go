// Package memory keeps the bounded turn log of one conversation.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/futig/docchat-backend/internal/entity"
)

const DefaultMaxTokens = 2000

// Conversation is an ordered log of alternating user/assistant turns.
// When the serialized history exceeds maxTokens the oldest exchanges are
// dropped; the latest exchange is always kept.
type Conversation struct {
	mu        sync.RWMutex
	turns     []entity.Turn
	maxTokens int
	now       func() time.Time
}

func New(maxTokens int) *Conversation {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Conversation{
		maxTokens: maxTokens,
		now:       time.Now,
	}
}

// AppendExchange records a user message and the assistant reply as one unit
func (c *Conversation) AppendExchange(userText, assistantText string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now()
	c.turns = append(c.turns,
		entity.Turn{Role: entity.RoleUser, Text: userText, Timestamp: ts},
		entity.Turn{Role: entity.RoleAssistant, Text: assistantText, Timestamp: ts},
	)

	for len(c.turns) > 2 && CountTokens(c.turns) > c.maxTokens {
		c.turns = c.turns[2:]
	}
}

// Turns returns a copy of the whole log, oldest first
func (c *Conversation) Turns() []entity.Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Recent returns a copy of the last n turns, oldest first
func (c *Conversation) Recent(n int) []entity.Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n <= 0 {
		return []entity.Turn{}
	}
	start := max(len(c.turns)-n, 0)
	out := make([]entity.Turn, len(c.turns)-start)
	copy(out, c.turns[start:])
	return out
}

func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Tokens is the current size of the serialized history
func (c *Conversation) Tokens() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CountTokens(c.turns)
}

// CountTokens approximates the token count of turns serialized as
// "<Role>: <text>" lines by counting whitespace-separated words
func CountTokens(turns []entity.Turn) int {
	total := 0
	for _, t := range turns {
		total += 1 + len(strings.Fields(t.Text))
	}
	return total
}
