package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github/itish2003/docquery/models"
)

// Result is the outcome of one submission: exactly one of Response and Err
// is set, unless Skipped.
type Result struct {
	Response *models.QueryResponse
	Err      error
	Skipped  bool
}

// OK reports whether the submission produced a rendered answer.
func (r Result) OK() bool { return r.Response != nil && r.Err == nil }

// QuerySubmitter sends questions and renders the answer, sources and usage
// into a Page. Failures are rendered inline into the response region.
// Requests run concurrently but each render is applied as a whole.
type QuerySubmitter struct {
	api    Querier
	page   Page
	render Renderer

	paintMu sync.Mutex
}

// NewQuerySubmitter wires a submitter to its endpoint, slots and renderer.
func NewQuerySubmitter(api Querier, page Page, render Renderer) *QuerySubmitter {
	return &QuerySubmitter{api: api, page: page, render: render}
}

// Submit runs one request/render cycle for input. Whitespace-only input is
// ignored without touching any slot. The loading slot is released on every
// exit path, including a panic while rendering.
func (s *QuerySubmitter) Submit(ctx context.Context, input string) Result {
	question := strings.TrimSpace(input)
	if question == "" {
		return Result{Skipped: true}
	}

	release := Hold(s.page.Loading)
	defer release()

	resp, err := s.api.Query(ctx, question)
	if err != nil {
		if perr := s.paint(func() { s.page.Response.Set(s.render.Error(err.Error())) }); perr != nil {
			return Result{Err: perr}
		}
		return Result{Err: err}
	}

	err = s.paint(func() {
		s.page.Response.Set(s.render.Answer(resp.Response))
		s.page.Sources.Set(s.render.Sources(resp.Sources))
		s.page.Stats.Set(s.render.Stats(resp.Tokens, resp.Cost))
	})
	if err != nil {
		return Result{Err: err}
	}
	return Result{Response: resp}
}

// paint applies draw while no other render of this submitter is in progress.
// A panic in draw is reported in the response region and returned.
func (s *QuerySubmitter) paint(draw func()) (err error) {
	s.paintMu.Lock()
	defer s.paintMu.Unlock()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render failed: %v", p)
			s.showPanic(err)
		}
	}()
	draw()
	return nil
}

// showPanic writes err to the response region. A region that panics again
// is left as it is; the error still reaches the caller.
func (s *QuerySubmitter) showPanic(err error) {
	defer func() { _ = recover() }()
	s.page.Response.Set(s.render.Error(err.Error()))
}

// SubmitAsync starts Submit in its own goroutine. Overlapping calls are not
// ordered; whichever resolves last owns the regions.
func (s *QuerySubmitter) SubmitAsync(ctx context.Context, input string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		out <- s.Submit(ctx, input)
	}()
	return out
}
