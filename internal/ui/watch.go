package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/zipp/internal/zipp"
)

// DefaultWatchInterval is how often the watch view re-reads the snapshot
const DefaultWatchInterval = 250 * time.Millisecond

// SnapshotSource is anything that can report a speaker snapshot.
// *zipp.Session satisfies it.
type SnapshotSource interface {
	Snapshot() zipp.Snapshot
}

type pollMsg time.Time

// WatchModel is a Bubble Tea model that shows a live speaker snapshot until
// the user quits.
type WatchModel struct {
	source   SnapshotSource
	interval time.Duration
	spinner  spinner.Model
	view     *SnapshotView
	snap     zipp.Snapshot
	quitting bool
}

// NewWatchModel creates a watch model polling source every interval
func NewWatchModel(source SnapshotSource, interval time.Duration) WatchModel {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return WatchModel{
		source:   source,
		interval: interval,
		spinner:  s,
		view:     NewSnapshotView(),
		snap:     source.Snapshot(),
	}
}

func (m WatchModel) poll() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.view.SetWidth(msg.Width)
		return m, nil

	case pollMsg:
		m.snap = m.source.Snapshot()
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}
	footer := FooterStyle.Render(m.spinner.View() + " watching  ·  q to quit")
	return m.view.Render(m.snap) + "\n\n" + footer + "\n"
}

// Snapshot returns the last snapshot the model rendered
func (m WatchModel) Snapshot() zipp.Snapshot {
	return m.snap
}

// Watch runs the live view until the user quits or ctx is cancelled.
func Watch(ctx context.Context, source SnapshotSource, interval time.Duration) error {
	p := tea.NewProgram(NewWatchModel(source, interval), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
