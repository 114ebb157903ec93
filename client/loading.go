package client

import "sync"

// Visibility is a slot that can be toggled on and off, like an element's
// d-none class.
type Visibility interface {
	SetVisible(visible bool)
}

// LoadingIndicator drives a Visibility slot. Show and Hide are idempotent;
// there is no counting, so overlapping actions share one flag.
type LoadingIndicator struct {
	slot Visibility
}

// NewLoadingIndicator wraps slot.
func NewLoadingIndicator(slot Visibility) *LoadingIndicator {
	return &LoadingIndicator{slot: slot}
}

func (l *LoadingIndicator) Show() { l.slot.SetVisible(true) }

func (l *LoadingIndicator) Hide() { l.slot.SetVisible(false) }

// Hold shows the indicator and returns a release func that hides it exactly
// once, however many times it is called.
func Hold(ind Indicator) (release func()) {
	ind.Show()
	var once sync.Once
	return func() { once.Do(ind.Hide) }
}
