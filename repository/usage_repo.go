package repository

import (
	"context"
	"fmt"
	"time"

	"github/itish2003/docquery/models"

	"github.com/google/uuid"
)

// UsageRepository persists one row per answered query.
type UsageRepository struct {
	db *DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Record stores rec, assigning an ID and timestamp when they are missing.
func (r *UsageRepository) Record(ctx context.Context, rec models.UsageRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO queries (id, question, mode, prompt_tokens, completion_tokens, total_tokens, cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Question, rec.Mode,
		rec.Tokens.PromptTokens, rec.Tokens.CompletionTokens, rec.Tokens.TotalTokens,
		rec.Cost, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Summary totals every recorded query.
func (r *UsageRepository) Summary(ctx context.Context) (models.UsageSummary, error) {
	var s models.UsageSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			COALESCE(SUM(total_tokens), 0),
			COALESCE(SUM(cost), 0)
		FROM queries
	`).Scan(&s.Queries, &s.PromptTokens, &s.CompletionTokens, &s.TotalTokens, &s.TotalCost)
	if err != nil {
		return s, fmt.Errorf("failed to summarise usage: %w", err)
	}
	return s, nil
}

// Recent returns the latest limit records, newest first. It backs
// GET /usage?recent=N.
func (r *UsageRepository) Recent(ctx context.Context, limit int) ([]models.UsageRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question, mode, prompt_tokens, completion_tokens, total_tokens, cost, created_at
		FROM queries ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent usage: %w", err)
	}
	defer rows.Close()

	var out []models.UsageRecord
	for rows.Next() {
		var rec models.UsageRecord
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Mode,
			&rec.Tokens.PromptTokens, &rec.Tokens.CompletionTokens, &rec.Tokens.TotalTokens,
			&rec.Cost, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to read usage row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list recent usage: %w", err)
	}
	return out, nil
}
