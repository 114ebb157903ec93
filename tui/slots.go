package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github/itish2003/docquery/client"
)

type regionID int

const (
	responseRegion regionID = iota
	sourcesRegion
	statsRegion
)

type regionMsg struct {
	id      regionID
	content string
}

type loadingMsg struct{ visible bool }

// alertMsg is dismissed by closing done.
type alertMsg struct {
	message string
	done    chan struct{}
}

// eventSlot forwards slot writes from action goroutines to the program's
// event loop. Sends are dropped once ctx is done.
type eventSlot struct {
	ctx    context.Context
	events chan<- tea.Msg
}

func (s eventSlot) send(msg tea.Msg) bool {
	select {
	case s.events <- msg:
		return true
	case <-s.ctx.Done():
		return false
	}
}

type region struct {
	eventSlot
	id regionID
}

func (r region) Set(content string) { r.send(regionMsg{id: r.id, content: content}) }

type visibilitySlot struct{ eventSlot }

func (v visibilitySlot) SetVisible(visible bool) { v.send(loadingMsg{visible: visible}) }

// alertSlot blocks the calling action until the user dismisses the alert.
type alertSlot struct{ eventSlot }

func (a alertSlot) Alert(message string) {
	done := make(chan struct{})
	if !a.send(alertMsg{message: message, done: done}) {
		return
	}
	select {
	case <-done:
	case <-a.ctx.Done():
	}
}

// newPage builds the client slots writing to events.
func newPage(ctx context.Context, events chan<- tea.Msg) (client.Page, client.Alerter) {
	base := eventSlot{ctx: ctx, events: events}
	return client.Page{
		Loading:  client.NewLoadingIndicator(visibilitySlot{base}),
		Response: region{base, responseRegion},
		Sources:  region{base, sourcesRegion},
		Stats:    region{base, statsRegion},
	}, alertSlot{base}
}
