package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompts holds the fixed instruction texts placed in front of every prompt
type Prompts struct {
	// ContextPreamble is used when document excerpts are included
	ContextPreamble string `yaml:"context_preamble"`
	// PlainPreamble is used for general conversation
	PlainPreamble string `yaml:"plain_preamble"`
	// QuestionTemplate is the stateless question-answering template.
	// It must contain the {context} and {question} placeholders.
	QuestionTemplate string `yaml:"question_template"`
}

func DefaultPrompts() Prompts {
	return Prompts{
		ContextPreamble: "You are an intelligent AI assistant with access to document context. " +
			"Use the following information to provide helpful, accurate responses.",
		PlainPreamble: "You are an intelligent AI assistant. Provide helpful, accurate, and engaging responses.",
		QuestionTemplate: "Use the following pieces of context to answer the question at the end. " +
			"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n\n" +
			"{context}\n\nQuestion: {question}\nHelpful Answer:",
	}
}

// LoadPrompts reads prompt overrides from a YAML file.
// A missing file yields the defaults; empty keys keep their default value.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Warning: prompts file not found at %s, using default prompts\n", path)
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, fmt.Errorf("read prompts file: %w", err)
	}

	var loaded Prompts
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Prompts{}, fmt.Errorf("parse prompts YAML: %w", err)
	}

	if loaded.ContextPreamble != "" {
		prompts.ContextPreamble = loaded.ContextPreamble
	}
	if loaded.PlainPreamble != "" {
		prompts.PlainPreamble = loaded.PlainPreamble
	}
	if loaded.QuestionTemplate != "" {
		prompts.QuestionTemplate = loaded.QuestionTemplate
	}

	return prompts, nil
}
