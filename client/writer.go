package client

import (
	"fmt"
	"io"
	"sync"
)

// WriterRegion prints every write to w under a heading. It backs the
// one-shot command line mode, where regions are streamed rather than redrawn.
type WriterRegion struct {
	mu    sync.Mutex
	w     io.Writer
	title string
}

// NewWriterRegion returns a region printing to w. An empty title prints bare content.
func NewWriterRegion(w io.Writer, title string) *WriterRegion {
	return &WriterRegion{w: w, title: title}
}

func (r *WriterRegion) Set(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if content == "" {
		return
	}
	if r.title != "" {
		fmt.Fprintf(r.w, "== %s ==\n", r.title)
	}
	fmt.Fprintln(r.w, content)
}

// WriterAlerter prints alerts to w.
type WriterAlerter struct {
	W io.Writer
}

func (a WriterAlerter) Alert(message string) {
	fmt.Fprintln(a.W, message)
}

// NopIndicator ignores loading changes.
type NopIndicator struct{}

func (NopIndicator) Show() {}
func (NopIndicator) Hide() {}
