package models

// QueryResponse is what POST /query returns. On failure only Error is set.
type QueryResponse struct {
	Response string       `json:"response"`
	Sources  []SourceItem `json:"sources"`
	Tokens   UsageStats   `json:"tokens"`
	Cost     float64      `json:"cost"`
	Error    string       `json:"error,omitempty"`
}

// SourceItem is one citation backing an answer.
type SourceItem struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Page    PageRef `json:"page"`
}

// UsageStats is the token accounting for a single query.
type UsageStats struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModeResponse is what POST /switch-mode returns.
type ModeResponse struct {
	Success bool   `json:"success,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UsageSummary aggregates the usage ledger.
type UsageSummary struct {
	Queries          int     `json:"queries"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	TotalCost        float64 `json:"total_cost"`

	// Recent is filled only when GET /usage asks for it.
	Recent []UsageRecord `json:"recent,omitempty"`
}
