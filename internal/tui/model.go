// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pomo/internal/model"
	"github.com/verte-zerg/pomo/internal/pomodoro"
)

const (
	tickInterval   = time.Second
	maxGoalBarWide = 40
	maxBeanWidth   = 32
	bellHold       = 200 * time.Millisecond
)

type tickMsg struct{ id uint64 }

type autoStartMsg struct{ gen uint64 }

type celebrationMsg struct{ gen uint64 }

// BellMsg asks the timer to ring the terminal bell through its own output.
type BellMsg struct{}

type bellDoneMsg struct{}

// Model implements the Bubble Tea timer UI.
type Model struct {
	session *pomodoro.Session
	config  model.Config
	log     *slog.Logger

	keys    keyMap
	help    help.Model
	task    textinput.Model
	goalBar progress.Model
	steam   spinner.Model

	editing      bool
	showSettings bool
	ringing      bool

	// tickID identifies the live tick chain; ticks from older chains are dropped.
	tickID  uint64
	ticking bool

	width  int
	height int
}

var (
	modeColors = map[model.Mode]lipgloss.Color{
		model.Focus:      lipgloss.Color("#E4572E"),
		model.ShortBreak: lipgloss.Color("#29A86B"),
		model.LongBreak:  lipgloss.Color("#3A86C8"),
	}
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	ringDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	clockStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	steamStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	stateStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	celebrateStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	beanDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	beanTodoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6E6E6E")).Padding(0, 1)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

var steamFrames = spinner.Spinner{
	Frames: []string{" ( ( ( ", "  ) ) )", " ) ) ) ", "( ( (  "},
	FPS:    time.Second / 3,
}

// NewModel constructs the timer TUI around session.
func NewModel(session *pomodoro.Session, cfg model.Config, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	task := textinput.New()
	task.Placeholder = "What are you working on?"
	task.CharLimit = 80
	task.Width = 32
	task.Prompt = "Task: "
	task.SetValue(session.Stats().CurrentTask)

	return &Model{
		session: session,
		config:  cfg,
		log:     logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		task:    task,
		goalBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxGoalBarWide), progress.WithoutPercentage()),
		steam:   spinner.New(spinner.WithSpinner(steamFrames), spinner.WithStyle(steamStyle)),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.syncTick()}
	if m.config.Steam {
		cmds = append(cmds, m.steam.Tick)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.goalBar.Width = min(maxGoalBarWide, max(msg.Width/2, 10))
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case autoStartMsg:
		if m.session.FireAutoStart(msg.gen) {
			return m, m.syncTick()
		}
		return m, nil
	case celebrationMsg:
		m.session.ClearCelebration(msg.gen)
		return m, nil
	case BellMsg:
		m.ringing = true
		return m, tea.Tick(bellHold, func(time.Time) tea.Msg {
			return bellDoneMsg{}
		})
	case bellDoneMsg:
		m.ringing = false
		return m, nil
	case spinner.TickMsg:
		if !m.config.Steam {
			return m, nil
		}
		var cmd tea.Cmd
		m.steam, cmd = m.steam.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.editing {
			return m, m.handleTaskKey(msg)
		}
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.session.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
	case key.Matches(msg, m.keys.Focus):
		m.session.SetMode(model.Focus)
	case key.Matches(msg, m.keys.Short):
		m.session.SetMode(model.ShortBreak)
	case key.Matches(msg, m.keys.Long):
		m.session.SetMode(model.LongBreak)
	case key.Matches(msg, m.keys.NextMode):
		m.session.SetMode(cycleMode(m.session.State().Mode, 1))
	case key.Matches(msg, m.keys.PrevMode):
		m.session.SetMode(cycleMode(m.session.State().Mode, -1))
	case key.Matches(msg, m.keys.Settings):
		m.showSettings = !m.showSettings
		return nil
	case key.Matches(msg, m.keys.AutoStart):
		m.session.ToggleAutoStart()
		return nil
	case key.Matches(msg, m.keys.Sound):
		m.session.ToggleSound()
		return nil
	case key.Matches(msg, m.keys.GoalUp):
		m.session.AdjustGoal(1)
		return nil
	case key.Matches(msg, m.keys.GoalDown):
		m.session.AdjustGoal(-1)
		return nil
	case key.Matches(msg, m.keys.ResetDay):
		m.session.ResetDailyCount()
		return nil
	case key.Matches(msg, m.keys.Task):
		m.editing = true
		m.task.SetValue(m.session.Stats().CurrentTask)
		m.task.CursorEnd()
		return m.task.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	default:
		return nil
	}
	return m.syncTick()
}

func (m *Model) handleTaskKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEnter:
		m.session.SetTask(m.task.Value())
		m.stopEditing()
		return nil
	case tea.KeyEsc:
		m.stopEditing()
		return nil
	}
	var cmd tea.Cmd
	m.task, cmd = m.task.Update(msg)
	return cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.task.Blur()
	m.task.SetValue(m.session.Stats().CurrentTask)
}

// syncTick starts a tick chain when the countdown runs without one and
// retires the chain when it stopped.
func (m *Model) syncTick() tea.Cmd {
	running := m.session.State().Running
	switch {
	case running && !m.ticking:
		m.tickID++
		m.ticking = true
		return tickCmd(m.tickID)
	case !running && m.ticking:
		m.tickID++
		m.ticking = false
	}
	return nil
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.id != m.tickID || !m.ticking {
		return nil
	}
	if !m.session.State().Running {
		m.ticking = false
		return nil
	}
	done := m.session.Tick()
	if done == nil {
		return tickCmd(m.tickID)
	}
	m.ticking = false
	m.log.Info("countdown completed", "mode", done.Mode.String(), "completed", m.session.Stats().CompletedSessions)

	var cmds []tea.Cmd
	if done.Celebrate {
		gen := done.CelebrationGen
		cmds = append(cmds, tea.Tick(pomodoro.CelebrationWindow, func(time.Time) tea.Msg {
			return celebrationMsg{gen: gen}
		}))
	}
	if done.AutoStart {
		gen := done.Generation
		cmds = append(cmds, tea.Tick(pomodoro.AutoStartDelay, func(time.Time) tea.Msg {
			return autoStartMsg{gen: gen}
		}))
	}
	return tea.Batch(cmds...)
}

func tickCmd(id uint64) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

func cycleMode(mode model.Mode, step int) model.Mode {
	n := len(model.Modes)
	idx := (int(mode) + step + n) % n
	return model.Modes[idx]
}

// View implements tea.Model. A pending bell is emitted as BEL at the end of
// the frame.
func (m *Model) View() string {
	view := m.render()
	if m.ringing {
		view += "\a"
	}
	return view
}

func (m *Model) render() string {
	state := m.session.State()
	stats := m.session.Stats()

	sections := []string{m.renderTabs(state.Mode)}
	if m.config.Steam {
		steam := ""
		if state.Running {
			steam = m.steam.View()
		}
		sections = append(sections, lipgloss.PlaceHorizontal(4*ringRadius+1, lipgloss.Center, steam))
	}
	ringStyle := lipgloss.NewStyle().Foreground(modeColors[state.Mode])
	sections = append(sections,
		renderRing(pomodoro.Progress(state), ringStyle, []string{pomodoro.Clock(state.SecondsRemaining), state.Mode.Label()}, clockStyle),
		m.renderState(state),
		m.renderTask(stats),
		m.renderGoal(stats),
		renderBeans(pomodoro.Beans(stats), m.beanWidth()),
	)
	if m.showSettings {
		sections = append(sections, m.renderSettings(stats))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTabs(active model.Mode) string {
	tabs := make([]string, 0, len(model.Modes))
	for _, mode := range model.Modes {
		if mode == active {
			tabs = append(tabs, activeTabStyle.Background(modeColors[mode]).Render(mode.Label()))
			continue
		}
		tabs = append(tabs, inactiveTabStyle.Render(mode.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderState(state model.TimerState) string {
	if m.session.Celebrating() {
		return celebrateStyle.Render("Focus complete! Take a breath.")
	}
	if next, ok := m.session.PendingAutoStart(); ok {
		return stateStyle.Render("Up next: " + next.Label())
	}
	switch {
	case state.Running:
		return stateStyle.Render("Running")
	case state.SecondsRemaining == 0:
		return stateStyle.Render("Done")
	case state.SecondsRemaining < state.Mode.Duration():
		return stateStyle.Render("Paused")
	default:
		return stateStyle.Render("Ready")
	}
}

func (m *Model) renderTask(stats model.SessionStats) string {
	if m.editing {
		return m.task.View()
	}
	if stats.CurrentTask == "" {
		return labelStyle.Render("No task set (t to edit)")
	}
	return labelStyle.Render("Task: " + stats.CurrentTask)
}

func (m *Model) renderGoal(stats model.SessionStats) string {
	ratio := 0.0
	if stats.DailyGoal > 0 {
		ratio = min(1, float64(stats.CompletedSessions)/float64(stats.DailyGoal))
	}
	title := labelStyle.Render(fmt.Sprintf("Today's Sessions %d/%d", stats.CompletedSessions, stats.DailyGoal))
	return lipgloss.JoinVertical(lipgloss.Center, title, m.goalBar.ViewAs(ratio))
}

func (m *Model) renderSettings(stats model.SessionStats) string {
	lines := []string{
		fmt.Sprintf("Auto-start   [a]  %s", onOff(stats.AutoStart)),
		fmt.Sprintf("Sound        [m]  %s", onOff(stats.SoundEnabled)),
		fmt.Sprintf("Daily goal   [+/-] %d", stats.DailyGoal),
		"Reset count  [x]",
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	return footerStyle.Render(m.help.View(m.keys))
}

func (m *Model) beanWidth() int {
	if m.width <= 0 {
		return maxBeanWidth
	}
	return min(maxBeanWidth, m.width)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
