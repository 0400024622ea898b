package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/egemenh/salestracker/internal/application"
)

type tickMsg time.Time

// Model polls the session snapshot once per second and renders it. All
// state mutation stays inside the session service; the model is a pure
// reader plus two key bindings.
type Model struct {
	ctx      context.Context
	session  *application.SessionService
	snapshot application.Snapshot
	spinner  spinner.Model
	styles   styles
}

func NewModel(ctx context.Context, session *application.SessionService) Model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return Model{
		ctx:      ctx,
		session:  session,
		snapshot: session.Snapshot(),
		spinner:  s,
		styles:   newStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snapshot = m.session.Snapshot()
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			// A pass already in flight rejects the refresh; nothing to report.
			go func() { _ = m.session.Refresh(m.ctx) }()
			return m, nil
		}
	}
	return m, nil
}

func (m Model) View() string {
	lines := []string{renderView(m.snapshot, RenderOptions{}, m.styles)}
	if m.snapshot.Loading {
		text := m.snapshot.StatusText
		if text == "" {
			text = "Syncing..."
		}
		lines = append(lines, fmt.Sprintf("%s %s", m.spinner.View(), m.styles.status.Render(text)))
	}
	lines = append(lines, m.styles.help.Render("r refresh · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run drives the live dashboard until the user quits or the context is
// cancelled.
func Run(ctx context.Context, session *application.SessionService) error {
	p := tea.NewProgram(
		NewModel(ctx, session),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
