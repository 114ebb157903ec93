package client

import (
	"fmt"
	"html"
	"strings"

	"github/itish2003/docquery/models"
)

// Renderer turns a query result into region content.
type Renderer interface {
	Answer(text string) string
	Sources(items []models.SourceItem) string
	Stats(tokens models.UsageStats, cost float64) string
	Error(message string) string
}

// HTMLRenderer produces the page's markup. Server-supplied strings are
// interpolated as-is unless Escape is set.
type HTMLRenderer struct {
	Escape bool
}

func (r HTMLRenderer) text(s string) string {
	if r.Escape {
		return html.EscapeString(s)
	}
	return s
}

func (r HTMLRenderer) Answer(text string) string {
	return fmt.Sprintf("\n<div class=\"response-text\">%s</div>\n", r.text(text))
}

func (r HTMLRenderer) Sources(items []models.SourceItem) string {
	var sb strings.Builder
	for i, item := range items {
		fmt.Fprintf(&sb, "\n<div class=\"source-item\">\n"+
			"    <strong>Source %d:</strong><br>\n"+
			"    Content: %s<br>\n"+
			"    Source: %s<br>\n"+
			"    Page: %s\n"+
			"</div>\n",
			i+1, r.text(item.Content), r.text(item.Source), r.text(item.Page.String()))
	}
	return sb.String()
}

func (r HTMLRenderer) Stats(tokens models.UsageStats, cost float64) string {
	return fmt.Sprintf("\n<div class=\"stats-item\">\n"+
		"    Prompt Tokens: %d<br>\n"+
		"    Completion Tokens: %d<br>\n"+
		"    Total Tokens: %d<br>\n"+
		"    Cost: %s\n"+
		"</div>\n",
		tokens.PromptTokens, tokens.CompletionTokens, tokens.TotalTokens, FormatCost(cost))
}

func (r HTMLRenderer) Error(message string) string {
	return fmt.Sprintf("\n<div class=\"alert alert-danger\">%s</div>\n", r.text(message))
}

// TextRenderer produces plain text for terminals.
type TextRenderer struct{}

func (TextRenderer) Answer(text string) string { return text }

func (TextRenderer) Sources(items []models.SourceItem) string {
	blocks := make([]string, 0, len(items))
	for i, item := range items {
		blocks = append(blocks, fmt.Sprintf("Source %d:\nContent: %s\nSource: %s\nPage: %s",
			i+1, item.Content, item.Source, item.Page))
	}
	return strings.Join(blocks, "\n\n")
}

func (TextRenderer) Stats(tokens models.UsageStats, cost float64) string {
	return fmt.Sprintf("Prompt Tokens: %d\nCompletion Tokens: %d\nTotal Tokens: %d\nCost: %s",
		tokens.PromptTokens, tokens.CompletionTokens, tokens.TotalTokens, FormatCost(cost))
}

func (TextRenderer) Error(message string) string { return "Error: " + message }

// FormatCost prints a dollar amount fixed to four decimals.
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.4f", cost)
}
