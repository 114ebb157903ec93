// Package tui hosts the query client in a terminal. Client slots are backed
// by bubbles components and a modal stands in for the browser alert.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github/itish2003/docquery/client"
)

// Backend is the server API the terminal page talks to.
type Backend interface {
	client.Querier
	client.ModeChanger
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
	spinStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("196")).Padding(1, 2)
	regionStyle = lipgloss.NewStyle().PaddingLeft(2)
)

type modeSwitchedMsg struct {
	mode string
	err  error
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx       context.Context
	events    chan tea.Msg
	submitter *client.QuerySubmitter
	switcher  *client.ModeSwitcher

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	loading  bool
	regions  [3]string
	alerts   []alertMsg
	mode     string
	width    int
	height   int
	quitting bool
}

// New creates the model. Actions stop delivering slot updates once ctx is done.
func New(ctx context.Context, api Backend) Model {
	events := make(chan tea.Msg, 64)
	page, alert := newPage(ctx, events)

	in := textinput.New()
	in.Placeholder = "Ask a question about your documents"
	in.Prompt = "? "
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinStyle

	return Model{
		ctx:       ctx,
		events:    events,
		submitter: client.NewQuerySubmitter(api, page, client.TextRenderer{}),
		switcher:  client.NewModeSwitcher(api, page.Loading, alert),
		input:     in,
		spinner:   s,
		viewport:  viewport.New(80, 20),
	}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEvent(m.events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 4
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 3)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case regionMsg:
		m.regions[msg.id] = msg.content
		m.refresh()
		return m, waitForEvent(m.events)

	case loadingMsg:
		m.loading = msg.visible
		return m, waitForEvent(m.events)

	case alertMsg:
		m.alerts = append(m.alerts, msg)
		return m, waitForEvent(m.events)

	case modeSwitchedMsg:
		if msg.err == nil {
			m.mode = msg.mode
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// The alert is modal: nothing else reacts until it is dismissed.
	if len(m.alerts) > 0 {
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			close(m.alerts[0].done)
			m.alerts = m.alerts[1:]
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m, m.submit(m.input.Value())
	case tea.KeyF2:
		return m, m.switchMode("technical")
	case tea.KeyF3:
		return m, m.switchMode("summary")
	case tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the query off the event loop; its results arrive as slot events.
func (m Model) submit(question string) tea.Cmd {
	submitter, ctx := m.submitter, m.ctx
	return func() tea.Msg {
		submitter.Submit(ctx, question)
		return nil
	}
}

func (m Model) switchMode(mode string) tea.Cmd {
	switcher, ctx := m.switcher, m.ctx
	return func() tea.Msg {
		return modeSwitchedMsg{mode: mode, err: switcher.Switch(ctx, mode)}
	}
}

func (m *Model) refresh() {
	var sb strings.Builder
	sections := []struct {
		title string
		id    regionID
	}{{"Answer", responseRegion}, {"Sources", sourcesRegion}, {"Usage", statsRegion}}
	for _, s := range sections {
		content := m.regions[s.id]
		if content == "" {
			continue
		}
		if s.id == responseRegion && strings.HasPrefix(content, "Error: ") {
			content = errorStyle.Render(content)
		}
		sb.WriteString(headStyle.Render(s.title) + "\n")
		sb.WriteString(regionStyle.Render(content) + "\n\n")
	}
	m.viewport.SetContent(sb.String())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.alerts) > 0 {
		box := modalStyle.Render(m.alerts[0].message + "\n\n" + hintStyle.Render("enter/esc to dismiss"))
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
		}
		return box
	}

	header := titleStyle.Render("docquery")
	if m.mode != "" {
		header += hintStyle.Render("  mode: " + m.mode)
	}
	status := " "
	if m.loading {
		status = m.spinner.View() + " working..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.input.View(),
		status,
		m.viewport.View(),
		hintStyle.Render("enter ask • f2 technical • f3 summary • pgup/pgdn scroll • esc quit"),
	)
}

// Run starts the terminal page and blocks until the user quits.
func Run(ctx context.Context, api Backend) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	_, err := tea.NewProgram(New(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
