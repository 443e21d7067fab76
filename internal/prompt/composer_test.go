package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func newComposer() *Composer {
	return NewComposer(config.DefaultPrompts(), DefaultHistoryTurns)
}

func history(pairs int) []entity.Turn {
	var turns []entity.Turn
	for i := 0; i < pairs; i++ {
		turns = append(turns,
			entity.Turn{Role: entity.RoleUser, Text: fmt.Sprintf("question %d", i)},
			entity.Turn{Role: entity.RoleAssistant, Text: fmt.Sprintf("answer %d", i)},
		)
	}
	return turns
}

func TestCompose_MessageOnly(t *testing.T) {
	got := newComposer().Compose("Hi", nil, nil)

	want := config.DefaultPrompts().PlainPreamble + "\n\nUser: Hi\n\nAssistant:"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "Document Context:")
	assert.NotContains(t, got, "Previous conversation:")
}

func TestCompose_ContextBlock(t *testing.T) {
	got := newComposer().Compose("Where?", []string{"first chunk", "second chunk"}, nil)

	assert.True(t, strings.HasPrefix(got, config.DefaultPrompts().ContextPreamble))
	assert.Contains(t, got, "Document Context:\nfirst chunk\n\nsecond chunk\n\n")
	assert.Less(t, strings.Index(got, "first chunk"), strings.Index(got, "second chunk"))
	assert.NotContains(t, got, "Previous conversation:")
	assert.True(t, strings.HasSuffix(got, "User: Where?\n\nAssistant:"))
}

func TestCompose_HistoryKeepsLastFourTurns(t *testing.T) {
	got := newComposer().Compose("next", nil, history(3))

	assert.Contains(t, got, "Previous conversation:\nUser: question 1\nAssistant: answer 1\nUser: question 2\nAssistant: answer 2\n\n")
	assert.NotContains(t, got, "question 0")
	assert.NotContains(t, got, "answer 0")
}

func TestCompose_FullLayout(t *testing.T) {
	got := newComposer().Compose("And then?", []string{"ctx"}, history(1))

	want := config.DefaultPrompts().ContextPreamble +
		"\n\nDocument Context:\nctx\n\n" +
		"Previous conversation:\nUser: question 0\nAssistant: answer 0\n\n" +
		"User: And then?\n\nAssistant:"
	assert.Equal(t, want, got)
}

func TestCompose_IsPure(t *testing.T) {
	c := newComposer()
	turns := history(2)

	first := c.Compose("m", []string{"a"}, turns)
	second := c.Compose("m", []string{"a"}, turns)

	assert.Equal(t, first, second)
	assert.Len(t, turns, 4)
}

func TestComposeQuestion(t *testing.T) {
	got := newComposer().ComposeQuestion("Who wrote it?", []string{"one", "two"})

	assert.Contains(t, got, "one\n\ntwo")
	assert.True(t, strings.HasSuffix(got, "Question: Who wrote it?\nHelpful Answer:"))
	assert.NotContains(t, got, "{context}")
	assert.NotContains(t, got, "{question}")
}

func TestComposeQuestion_CustomTemplate(t *testing.T) {
	c := NewComposer(config.Prompts{QuestionTemplate: "Q={question} C={context}"}, DefaultHistoryTurns)

	assert.Equal(t, "Q=why C=a\n\nb", c.ComposeQuestion("why", []string{"a", "b"}))
}
