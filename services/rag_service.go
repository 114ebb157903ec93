package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github/itish2003/docquery/models"

	"go.uber.org/zap"
)

// ErrEmptyQuestion is returned for a blank question.
var ErrEmptyQuestion = errors.New("question must not be empty")

// UsageLedger records answered queries and aggregates them.
type UsageLedger interface {
	Record(ctx context.Context, rec models.UsageRecord) error
	Summary(ctx context.Context) (models.UsageSummary, error)
	Recent(ctx context.Context, limit int) ([]models.UsageRecord, error)
}

// RAGService interface defines methods for RAG operations
type RAGService interface {
	Query(ctx context.Context, question string) (*models.QueryResponse, error)
	SwitchMode(ctx context.Context, mode string) (*models.ModeResponse, error)
	Mode() string
	ListDocuments(ctx context.Context) (*models.ListDocumentsResponse, error)
	UsageSummary(ctx context.Context) (*models.UsageSummary, error)
	RecentUsage(ctx context.Context, limit int) ([]models.UsageRecord, error)
}

// RAGOptions tunes retrieval and source rendering.
type RAGOptions struct {
	TopK       int
	ExcerptLen int
	Pricing    Pricing
}

// ragServiceImpl holds the dependencies it needs to do its job
type ragServiceImpl struct {
	store     VectorStore
	embedder  Embedder
	generator Generator
	prompts   PromptBuilder
	ledger    UsageLedger
	opts      RAGOptions
	logger    *zap.Logger

	mu            sync.RWMutex
	mode          string
	systemMessage string
}

// NewRAGService creates a new RAG service instance in technical mode.
// ledger may be nil, in which case usage is not recorded.
func NewRAGService(store VectorStore, embedder Embedder, generator Generator, ledger UsageLedger, opts RAGOptions, logger *zap.Logger) RAGService {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	message, _ := SystemMessageFor(ModeTechnical)
	return &ragServiceImpl{
		store:         store,
		embedder:      embedder,
		generator:     generator,
		prompts:       NewPromptBuilder(),
		ledger:        ledger,
		opts:          opts,
		logger:        logger,
		mode:          ModeTechnical,
		systemMessage: message,
	}
}

// Query implements RAGService
func (r *ragServiceImpl) Query(c context.Context, question string) (*models.QueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	r.mu.RLock()
	mode, system := r.mode, r.systemMessage
	r.mu.RUnlock()

	log := r.logger.With(zap.String("mode", mode))
	log.Info("service: querying", zap.String("question", question))

	embedding, err := r.embedder.Embed(c, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	docs, err := r.store.Search(c, embedding, r.opts.TopK)
	if err != nil {
		return nil, err
	}
	log.Info("service: retrieved documents", zap.Int("count", len(docs)))

	prompt, err := r.prompts.Build(system, docs, question)
	if err != nil {
		return nil, err
	}

	gen, err := r.generator.Generate(c, prompt)
	if err != nil {
		return nil, fmt.Errorf("could not generate response: %w", err)
	}

	response := &models.QueryResponse{
		Response: gen.Text,
		Sources:  toSourceItems(docs, r.opts.ExcerptLen),
		Tokens:   gen.Usage,
		Cost:     r.opts.Pricing.Cost(gen.Usage),
	}
	log.Info("service: answered",
		zap.Int("total_tokens", response.Tokens.TotalTokens),
		zap.Float64("cost", response.Cost),
	)

	if r.ledger != nil {
		rec := models.UsageRecord{
			Question:  question,
			Mode:      mode,
			Tokens:    response.Tokens,
			Cost:      response.Cost,
			CreatedAt: time.Now().UTC(),
		}
		if err := r.ledger.Record(c, rec); err != nil {
			log.Warn("service: failed to record usage", zap.Error(err))
		}
	}
	return response, nil
}

// SwitchMode implements RAGService. Unknown modes are accepted and leave the
// current system message in place.
func (r *ragServiceImpl) SwitchMode(_ context.Context, mode string) (*models.ModeResponse, error) {
	mode = strings.TrimSpace(mode)
	message, ok := SystemMessageFor(mode)
	if !ok {
		r.logger.Warn("service: unknown mode, system message unchanged", zap.String("mode", mode))
		return &models.ModeResponse{Success: true, Mode: mode}, nil
	}

	r.mu.Lock()
	r.mode = mode
	r.systemMessage = message
	r.mu.Unlock()

	r.logger.Info("service: system message updated", zap.String("mode", mode))
	return &models.ModeResponse{Success: true, Mode: mode}, nil
}

// Mode returns the mode whose system message is in effect.
func (r *ragServiceImpl) Mode() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// ListDocuments implements RAGService
func (r *ragServiceImpl) ListDocuments(c context.Context) (*models.ListDocumentsResponse, error) {
	docs, err := r.store.Documents(c)
	if err != nil {
		return nil, err
	}
	out := make([]models.IndexedDocument, 0, len(docs))
	for _, d := range docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return &models.ListDocumentsResponse{Count: len(out), Documents: out}, nil
}

// UsageSummary implements RAGService
func (r *ragServiceImpl) UsageSummary(c context.Context) (*models.UsageSummary, error) {
	if r.ledger == nil {
		return &models.UsageSummary{}, nil
	}
	summary, err := r.ledger.Summary(c)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// RecentUsage implements RAGService
func (r *ragServiceImpl) RecentUsage(c context.Context, limit int) ([]models.UsageRecord, error) {
	if r.ledger == nil || limit <= 0 {
		return []models.UsageRecord{}, nil
	}
	return r.ledger.Recent(c, limit)
}

// toSourceItems maps retrieved chunks to citations: an excerpt of the text
// with "..." appended, the source path and the page, "Unknown" when missing.
func toSourceItems(docs []models.SourceDocument, excerptLen int) []models.SourceItem {
	items := make([]models.SourceItem, 0, len(docs))
	for _, d := range docs {
		item := models.SourceItem{
			Content: excerpt(d.Text, excerptLen) + "...",
			Source:  models.Unknown,
			Page:    models.PageLabel(models.Unknown),
		}
		if src, ok := d.Metadata[metaSource].(string); ok && src != "" {
			item.Source = src
		}
		switch page := d.Metadata[metaPage].(type) {
		case float64:
			item.Page = models.PageNumber(int(page))
		case int64:
			item.Page = models.PageNumber(int(page))
		case int:
			item.Page = models.PageNumber(page)
		}
		items = append(items, item)
	}
	return items
}

func excerpt(text string, n int) string {
	if n <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
