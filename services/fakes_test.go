package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github/itish2003/docquery/models"
)

var errFake = errors.New("fake failure")

type fakeStore struct {
	mu        sync.Mutex
	chunks    []Chunk
	results   []models.SourceDocument
	searchK   int
	deleted   []string
	searchErr error
}

func (s *fakeStore) Add(_ context.Context, chunks []Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *fakeStore) Search(_ context.Context, _ []float32, k int) ([]models.SourceDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchK = k
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func (s *fakeStore) DeleteBySource(_ context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, source)
	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if c.Source != source {
			kept = append(kept, c)
		}
	}
	s.chunks = kept
	return nil
}

func (s *fakeStore) Documents(_ context.Context) (map[string]models.IndexedDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := map[string]models.IndexedDocument{}
	for _, c := range s.chunks {
		d := docs[c.Source]
		d.Source = c.Source
		d.Hash = c.Hash
		d.Chunks++
		docs[c.Source] = d
	}
	return docs, nil
}

func (s *fakeStore) ChunksOf(source string) []Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Chunk
	for _, c := range s.chunks {
		if c.Source == source {
			out = append(out, c)
		}
	}
	return out
}

type fakeEmbedder struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 1}, nil
}

type fakeGenerator struct {
	answer  string
	usage   models.UsageStats
	err     error
	prompts []Prompt
}

func (g *fakeGenerator) Generate(_ context.Context, p Prompt) (*Generation, error) {
	g.prompts = append(g.prompts, p)
	if g.err != nil {
		return nil, g.err
	}
	return &Generation{Text: g.answer, Usage: g.usage}, nil
}

type fakeLedger struct {
	records []models.UsageRecord
	err     error
}

func (l *fakeLedger) Record(_ context.Context, rec models.UsageRecord) error {
	if l.err != nil {
		return l.err
	}
	l.records = append(l.records, rec)
	return nil
}

func (l *fakeLedger) Summary(_ context.Context) (models.UsageSummary, error) {
	var s models.UsageSummary
	for _, r := range l.records {
		s.Queries++
		s.TotalTokens += r.Tokens.TotalTokens
		s.TotalCost += r.Cost
	}
	return s, nil
}

func (l *fakeLedger) Recent(_ context.Context, limit int) ([]models.UsageRecord, error) {
	var out []models.UsageRecord
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

// wordCounter counts whitespace-separated words.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }
