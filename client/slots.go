package client

import "sync"

// Indicator is the busy-state slot ("loading").
type Indicator interface {
	Show()
	Hide()
}

// Region is an output slot whose whole content is replaced on every write.
type Region interface {
	Set(content string)
}

// Alerter shows a blocking, user-facing message.
type Alerter interface {
	Alert(message string)
}

// Page holds the slots a QuerySubmitter renders into. They correspond to the
// loading, response-container, sources-container and stats-container
// elements of the hosting page.
type Page struct {
	Loading  Indicator
	Response Region
	Sources  Region
	Stats    Region
}

// MemoryRegion is a Region kept in memory. Writes are atomic and the last one wins.
type MemoryRegion struct {
	mu      sync.Mutex
	content string
	writes  int
}

func (r *MemoryRegion) Set(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = content
	r.writes++
}

// Content returns the current content.
func (r *MemoryRegion) Content() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.content
}

// Writes returns how many times the region was written.
func (r *MemoryRegion) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
