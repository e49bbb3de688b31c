package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/tiling"
)

// Client is the daemon connection the dashboard drives.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	Action(name string) (*dispatch.Result, error)
}

const refreshInterval = time.Second

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type resultMsg struct {
	result *dispatch.Result
	err    error
}

type tickMsg time.Time

// model is the root bubbletea model of the dashboard.
type model struct {
	client Client
	keys   keyMap
	help   help.Model

	status *ipc.StatusData
	err    error
	last   string

	width  int
	height int
}

func newModel(client Client) model {
	return model{client: client, keys: newKeyMap(), help: help.New()}
}

func (m model) fetchStatus() tea.Msg {
	status, err := m.client.GetStatus()
	return statusMsg{status: status, err: err}
}

func (m model) run(name string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Action(name)
		return resultMsg{result: res, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus, tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if name, ok := m.keys.action(msg); ok {
			return m, m.run(name)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		return m, tea.Batch(m.fetchStatus, tick())

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}

	case resultMsg:
		m.last = describeResult(msg.result, msg.err)
		// Show the effect right away instead of on the next tick.
		return m, m.fetchStatus
	}
	return m, nil
}

func describeResult(res *dispatch.Result, err error) string {
	switch {
	case err != nil:
		return err.Error()
	case res.Error != "":
		return fmt.Sprintf("%s failed: %s", res.Action, res.Error)
	case res.Floating != nil:
		return fmt.Sprintf("%s: floating=%v", res.Action, *res.Floating)
	case res.Skip != "":
		return fmt.Sprintf("%s skipped: %s", res.Action, res.Skip)
	case res.Transition != "":
		return fmt.Sprintf("%s: %s", res.Action, res.Transition)
	default:
		return res.Action + ": ok"
	}
}

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	screenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			MarginRight(1)

	titleStyle    = lipgloss.NewStyle().Bold(true)
	mainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	focusedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	connectedDot  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	offlineDot    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
)

const screenWidth = 28

// View implements tea.Model.
func (m model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	sections := []string{m.renderStatusBar(width)}
	if m.status != nil {
		sections = append(sections, m.renderScreens(), m.renderFloating())
	}
	if m.last != "" {
		sections = append(sections, dimStyle.Render(m.last))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderStatusBar(width int) string {
	var status string
	switch {
	case m.err != nil:
		status = offlineDot + " " + errorStyle.Render(m.err.Error())
	case m.status == nil:
		status = offlineDot + " connecting..."
	default:
		st := m.status.Tiling
		status = fmt.Sprintf("%s space %d/%d  layout:%s  up %ds",
			connectedDot, st.Space+1, st.SpaceCount, st.Layout, m.status.UptimeSeconds)
	}
	return barStyle.Width(width).Render(status)
}

func (m model) renderScreens() string {
	st := m.status.Tiling
	boxes := make([]string, 0, len(st.Screens))
	for _, s := range st.Screens {
		lines := []string{titleStyle.Render(fmt.Sprintf("%d %s", s.Index+1, s.ID))}
		if len(s.Windows) == 0 {
			lines = append(lines, dimStyle.Render("(empty)"))
		}
		for i, w := range s.Windows {
			lines = append(lines, renderWindow(w, i == 0, w.ID == st.Focused))
		}
		boxes = append(boxes, screenStyle.Width(screenWidth).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m model) renderFloating() string {
	st := m.status.Tiling
	if len(st.Floating) == 0 {
		return ""
	}
	lines := []string{titleStyle.Render("floating")}
	for _, w := range st.Floating {
		lines = append(lines, renderWindow(w, false, w.ID == st.Focused))
	}
	return strings.Join(lines, "\n")
}

func renderWindow(w tiling.WindowStatus, main, focused bool) string {
	name := w.Class
	if name == "" {
		name = fmt.Sprintf("0x%x", w.ID)
	}
	label := name
	if w.Title != "" && w.Title != w.Class {
		label += " " + dimStyle.Render(w.Title)
	}
	switch {
	case focused:
		return focusedStyle.Render("> " + name)
	case main:
		return mainStyle.Render("* ") + label
	default:
		return "  " + label
	}
}
