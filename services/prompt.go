package services

import (
	"fmt"
	"strings"

	"github/itish2003/docquery/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
)

const userPromptTemplate = `Context: {{.context}}

Question: {{.question}}

Please provide a detailed answer based on the context above.`

// Prompt is a rendered system + user message pair.
type Prompt struct {
	System string
	User   string
}

// PromptBuilder renders retrieved chunks and a question into a Prompt.
type PromptBuilder struct {
	tmpl prompts.ChatPromptTemplate
}

// NewPromptBuilder creates the chat template used for every query.
func NewPromptBuilder() PromptBuilder {
	return PromptBuilder{
		tmpl: prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
			prompts.NewSystemMessagePromptTemplate("{{.system}}", []string{"system"}),
			prompts.NewHumanMessagePromptTemplate(userPromptTemplate, []string{"context", "question"}),
		}),
	}
}

// Build joins the chunk texts with newlines as context and formats the template.
func (b PromptBuilder) Build(system string, docs []models.SourceDocument, question string) (Prompt, error) {
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		texts = append(texts, d.Text)
	}

	messages, err := b.tmpl.FormatMessages(map[string]any{
		"system":   system,
		"context":  strings.Join(texts, "\n"),
		"question": question,
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to format prompt: %w", err)
	}

	var p Prompt
	for _, m := range messages {
		switch m.GetType() {
		case llms.ChatMessageTypeSystem:
			p.System = m.GetContent()
		case llms.ChatMessageTypeHuman:
			p.User = m.GetContent()
		}
	}
	return p, nil
}
