// Package ui renders the time clock as a Bubble Tea terminal application.
// It is a pure consumer of the session tracker: every state change goes
// through tracker actions, and the view re-reads a snapshot on every tick.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clockwise-hq/clockwise/internal/session"
)

const statusLinger = 5 * time.Second

// Options configure the UI.
type Options struct {
	Context context.Context
	Tracker *session.Tracker
}

// tickMsg drives the once-per-second clock redraw.
type tickMsg time.Time

// actionMsg carries the result of a tracker action run off the update loop.
type actionMsg struct {
	verb   string
	worked time.Duration
	err    error
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	tracker *session.Tracker
	keys    keyMap

	snap   session.Snapshot
	width  int
	height int

	// busy disables action keys while a remote append is in flight. This is
	// the duplicate-submission guard; the tracker itself does not dedupe.
	busy bool

	status      string
	statusErr   bool
	statusUntil time.Time
}

// New builds the model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{
		ctx:     ctx,
		tracker: opts.Tracker,
		keys:    defaultKeyMap(),
		snap:    opts.Tracker.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.snap = m.tracker.Snapshot()
		if m.status != "" && time.Now().After(m.statusUntil) {
			m.status = ""
		}
		return m, tick()

	case actionMsg:
		m.busy = false
		m.snap = m.tracker.Snapshot()
		switch {
		case msg.err != nil:
			m.setStatus("Error "+msg.verb+": "+msg.err.Error(), true)
		case msg.verb == "clocking out":
			m.setStatus("Shift complete, worked "+session.FormatDuration(msg.worked), false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Start):
		return m.runAction("clocking in", func(ctx context.Context) (time.Duration, error) {
			return 0, m.tracker.Start(ctx)
		})
	case key.Matches(msg, m.keys.Pause):
		return m.runAction("starting break", func(ctx context.Context) (time.Duration, error) {
			return 0, m.tracker.Pause(ctx)
		})
	case key.Matches(msg, m.keys.Resume):
		return m.runAction("ending break", func(ctx context.Context) (time.Duration, error) {
			return 0, m.tracker.Resume(ctx)
		})
	case key.Matches(msg, m.keys.End):
		return m.runAction("clocking out", func(ctx context.Context) (time.Duration, error) {
			return m.tracker.End(ctx)
		})
	case key.Matches(msg, m.keys.Sync):
		return m.runAction("syncing", func(ctx context.Context) (time.Duration, error) {
			return 0, m.tracker.ForceSync(ctx)
		})
	}
	return m, nil
}

func (m Model) runAction(verb string, fn func(context.Context) (time.Duration, error)) (tea.Model, tea.Cmd) {
	m.busy = true
	ctx := m.ctx
	return m, func() tea.Msg {
		worked, err := fn(ctx)
		return actionMsg{verb: verb, worked: worked, err: err}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	m.statusUntil = time.Now().Add(statusLinger)
}
