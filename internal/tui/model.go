// Package tui renders a breathing session in the terminal. The model polls
// the session controller every frame and never mutates the session itself
// other than through controller commands.
package tui

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/breath-sync/internal/logic"
	"github.com/sweeney/breath-sync/internal/status"
)

const (
	frameInterval  = 50 * time.Millisecond
	commandTimeout = 2 * time.Second

	fieldWidth  = 41
	fieldHeight = 15
	gaugeWidth  = 30
)

var errThemeWhileRunning = errors.New("theme can change only while idle")

// Controller is the subset of the session controller the TUI drives.
type Controller interface {
	State() logic.State
	Configure(ctx context.Context, sel logic.Selection, theme logic.Theme) error
	Toggle(ctx context.Context) error
}

type frameMsg time.Time

type resultMsg struct{ err error }

// Model is the root Bubble Tea model.
type Model struct {
	ctrl Controller
	keys KeyMap

	state         logic.State
	customMinutes int
	err           error

	spring   harmonica.Spring
	gauge    float64
	gaugeVel float64
}

// New creates the root model.
func New(ctrl Controller) Model {
	return Model{
		ctrl:          ctrl,
		keys:          DefaultKeyMap(),
		state:         ctrl.State(),
		customMinutes: 10,
		spring:        harmonica.NewSpring(harmonica.FPS(int(time.Second/frameInterval)), 2.0, 1.0),
	}
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.state = m.ctrl.State()
		m.gauge, m.gaugeVel = m.spring.Update(m.gauge, m.gaugeVel, breathLevel(m.state))
		return m, frame()

	case resultMsg:
		m.err = msg.err
		m.state = m.ctrl.State()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	theme := m.state.Config.Theme

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.OneMinute):
		return m, m.configure(logic.Preset(logic.Presets[0]), theme)

	case key.Matches(msg, m.keys.TwoMinutes):
		return m, m.configure(logic.Preset(logic.Presets[1]), theme)

	case key.Matches(msg, m.keys.FiveMinutes):
		return m, m.configure(logic.Preset(logic.Presets[2]), theme)

	case key.Matches(msg, m.keys.More):
		if m.customMinutes < logic.MaxMinutes {
			m.customMinutes++
		}
		return m, nil

	case key.Matches(msg, m.keys.Less):
		if m.customMinutes > logic.MinMinutes {
			m.customMinutes--
		}
		return m, nil

	case key.Matches(msg, m.keys.Custom):
		return m, m.configure(logic.Custom(m.customMinutes), theme)

	case key.Matches(msg, m.keys.Theme):
		// A preset while running cancels the session.
		if m.state.Status != logic.StatusIdle {
			m.err = errThemeWhileRunning
			return m, nil
		}
		next := logic.ThemeNight
		if theme == logic.ThemeNight {
			next = logic.ThemeDay
		}
		return m, m.configure(logic.Preset(m.state.Config.DurationSeconds), next)

	case key.Matches(msg, m.keys.Toggle):
		ctrl := m.ctrl
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()
			return resultMsg{err: ctrl.Toggle(ctx)}
		}
	}
	return m, nil
}

func (m Model) configure(sel logic.Selection, theme logic.Theme) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return resultMsg{err: ctrl.Configure(ctx, sel, theme)}
	}
}

// breathLevel is the gauge target: full while the lungs are full.
func breathLevel(s logic.State) float64 {
	if s.Status != logic.StatusActive {
		return 0
	}
	switch s.Phase {
	case logic.PhaseInhale, logic.PhaseHoldAfterInhale:
		return 1
	default:
		return 0
	}
}

// View renders the model.
func (m Model) View() string {
	st := newStyles(PaletteFor(m.state.Config.Theme))

	var b strings.Builder
	b.WriteString(st.title.Render("BreathSync"))
	b.WriteString("  ")
	b.WriteString(st.help.Render(m.sessionLine()))
	b.WriteString("\n\n")
	b.WriteString(st.frame.Render(m.field(st)))
	b.WriteString("\n")
	b.WriteString(m.statusLine(st))
	b.WriteString("\n")
	b.WriteString(m.gaugeBar(st))
	b.WriteString("\n\n")
	b.WriteString(st.help.Render(m.helpLine()))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(st.err.Render(m.err.Error()))
	}
	return b.String()
}

func (m Model) sessionLine() string {
	return status.FormatRemaining(m.state.Config.DurationSeconds) + " session, custom " +
		status.FormatRemaining(m.customMinutes*60) + ", " + string(m.state.Config.Theme)
}

func (m Model) field(st styles) string {
	col, row := cell(m.state.Current)
	lines := make([]string, fieldHeight)
	dot := st.field.Render("·")
	for r := 0; r < fieldHeight; r++ {
		var line strings.Builder
		for c := 0; c < fieldWidth; c++ {
			if r == row && c == col {
				line.WriteString(st.target.Render("●"))
				continue
			}
			if c%4 == 0 && r%2 == 0 {
				line.WriteString(dot)
			} else {
				line.WriteByte(' ')
			}
		}
		lines[r] = line.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// cell maps a percentage position to a field cell.
func cell(p logic.Point) (col, row int) {
	col = int(math.Round(p.X / 100 * float64(fieldWidth-1)))
	row = int(math.Round(p.Y / 100 * float64(fieldHeight-1)))
	return clamp(col, 0, fieldWidth-1), clamp(row, 0, fieldHeight-1)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (m Model) statusLine(st styles) string {
	switch m.state.Status {
	case logic.StatusCountdown:
		return st.countdown.Render("Starting in " + strconv.Itoa(m.state.CountdownValue))
	case logic.StatusActive:
		return st.instruction.Render(status.Instruction(m.state.Phase)) + "   " +
			st.remaining.Render(status.FormatRemaining(m.state.RemainingSeconds))
	default:
		return st.instruction.Render("Ready")
	}
}

func (m Model) gaugeBar(st styles) string {
	filled := int(math.Round(m.gauge * gaugeWidth))
	filled = clamp(filled, 0, gaugeWidth)
	return st.gauge.Render(strings.Repeat("█", filled)) +
		st.gaugeEmpty.Render(strings.Repeat("░", gaugeWidth-filled))
}

func (m Model) helpLine() string {
	parts := make([]string, 0, 9)
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, ctrl Controller) error {
	_, err := tea.NewProgram(New(ctrl), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
