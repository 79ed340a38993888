package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle    key.Binding
	Reset     key.Binding
	Focus     key.Binding
	Short     key.Binding
	Long      key.Binding
	NextMode  key.Binding
	PrevMode  key.Binding
	Settings  key.Binding
	AutoStart key.Binding
	Sound     key.Binding
	GoalUp    key.Binding
	GoalDown  key.Binding
	ResetDay  key.Binding
	Task      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Focus:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "focus")),
		Short:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "short break")),
		Long:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "long break")),
		NextMode:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next mode")),
		PrevMode:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev mode")),
		Settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		AutoStart: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-start")),
		Sound:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sound")),
		GoalUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "goal up")),
		GoalDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "goal down")),
		ResetDay:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset count")),
		Task:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "task")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.NextMode, k.Task, k.Settings, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Task},
		{k.Focus, k.Short, k.Long, k.NextMode, k.PrevMode},
		{k.Settings, k.AutoStart, k.Sound},
		{k.GoalUp, k.GoalDown, k.ResetDay},
		{k.Help, k.Quit},
	}
}
