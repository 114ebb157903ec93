package services

import "github/itish2003/docquery/models"

// Pricing is the model price in USD per million tokens.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Cost returns the USD cost of one query.
func (p Pricing) Cost(u models.UsageStats) float64 {
	return (float64(u.PromptTokens)*p.InputPerMillion + float64(u.CompletionTokens)*p.OutputPerMillion) / 1_000_000
}
