package client

import (
	"context"
	"strings"
	"sync"

	"github/itish2003/docquery/models"
)

type recordingIndicator struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingIndicator) Show() { r.record("show") }
func (r *recordingIndicator) Hide() { r.record("hide") }

func (r *recordingIndicator) record(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordingIndicator) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type recordingAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *recordingAlerter) Alert(message string) {
	a.mu.Lock()
	a.messages = append(a.messages, message)
	a.mu.Unlock()
}

func (a *recordingAlerter) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

// gatedQuerier answers each question from a table, optionally waiting on a
// per-question gate so tests can control resolution order.
type gatedQuerier struct {
	mu      sync.Mutex
	answers map[string]*models.QueryResponse
	gates   map[string]chan struct{}
	started chan string
	calls   int
}

func newGatedQuerier() *gatedQuerier {
	return &gatedQuerier{
		answers: map[string]*models.QueryResponse{},
		gates:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

func (g *gatedQuerier) Query(ctx context.Context, question string) (*models.QueryResponse, error) {
	g.mu.Lock()
	g.calls++
	gate := g.gates[question]
	answer := g.answers[question]
	g.mu.Unlock()

	g.started <- question
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if answer == nil {
		return nil, &ServerError{Message: "no answer for " + question}
	}
	return answer, nil
}

func (g *gatedQuerier) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type panickyRenderer struct{ HTMLRenderer }

func (panickyRenderer) Sources([]models.SourceItem) string { panic("boom") }

func newTestPage() (Page, *recordingIndicator, *MemoryRegion, *MemoryRegion, *MemoryRegion) {
	ind := &recordingIndicator{}
	resp, src, stats := &MemoryRegion{}, &MemoryRegion{}, &MemoryRegion{}
	return Page{Loading: ind, Response: resp, Sources: src, Stats: stats}, ind, resp, src, stats
}

func sampleResponse(answer string) *models.QueryResponse {
	return &models.QueryResponse{
		Response: answer,
		Sources: []models.SourceItem{
			{Content: "c1", Source: "s1", Page: models.PageNumber(1)},
		},
		Tokens: models.UsageStats{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		Cost:   0.00123,
	}
}

// stallingRegion blocks the first write containing match until release is
// closed, signalling entered when it starts waiting.
type stallingRegion struct {
	MemoryRegion
	match   string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newStallingRegion(match string) *stallingRegion {
	return &stallingRegion{match: match, entered: make(chan struct{}), release: make(chan struct{})}
}

func (r *stallingRegion) Set(content string) {
	if strings.Contains(content, r.match) {
		stall := false
		r.once.Do(func() { stall = true })
		if stall {
			close(r.entered)
			<-r.release
		}
	}
	r.MemoryRegion.Set(content)
}

type panickyRegion struct{}

func (panickyRegion) Set(string) { panic("region gone") }

// flagSlot is an in-memory Visibility.
type flagSlot struct {
	mu      sync.Mutex
	visible bool
}

func (f *flagSlot) SetVisible(visible bool) {
	f.mu.Lock()
	f.visible = visible
	f.mu.Unlock()
}

func (f *flagSlot) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}
