package services

import (
	"context"
	"fmt"
	"strings"

	"github/itish2003/docquery/models"

	"google.golang.org/genai"
)

// Generation is a model answer and what it cost in tokens.
type Generation struct {
	Text  string
	Usage models.UsageStats
}

// Generator produces an answer for a rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (*Generation, error)
}

// GeminiGenerator answers prompts with a Gemini model.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	counter     TokenCounter
}

// NewGeminiGenerator creates a generator. counter is used only when the API
// response has no usage metadata; it may be nil.
func NewGeminiGenerator(client *genai.Client, model string, temperature float64, counter TokenCounter) *GeminiGenerator {
	return &GeminiGenerator{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		counter:     counter,
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt Prompt) (*Generation, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: systemContent(prompt.System),
			Temperature:       genai.Ptr(g.temperature),
		})
	if err != nil {
		return nil, fmt.Errorf("gemini api call failed: %w", err)
	}

	text := "I'm sorry, I couldn't generate a response."
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, p := range result.Candidates[0].Content.Parts {
			if p.Text != "" {
				sb.WriteString(p.Text)
			}
		}
		if sb.Len() > 0 {
			text = sb.String()
		}
	}

	return &Generation{
		Text:  text,
		Usage: usageFrom(result.UsageMetadata, prompt, text, g.counter),
	}, nil
}

// usageFrom prefers the counts reported by the API and falls back to local
// counting when they are missing.
func usageFrom(meta *genai.GenerateContentResponseUsageMetadata, prompt Prompt, answer string, counter TokenCounter) models.UsageStats {
	if meta != nil && meta.TotalTokenCount > 0 {
		u := models.UsageStats{
			PromptTokens:     int(meta.PromptTokenCount),
			CompletionTokens: int(meta.CandidatesTokenCount),
			TotalTokens:      int(meta.TotalTokenCount),
		}
		return u
	}
	if counter == nil {
		return models.UsageStats{}
	}
	in := counter.Count(prompt.System) + counter.Count(prompt.User)
	out := counter.Count(answer)
	return models.UsageStats{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out}
}
