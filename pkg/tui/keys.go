package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Lesson    key.Binding
	Start     key.Binding
	Pause     key.Binding
	Stop      key.Binding
	Skip      key.Binding
	Restart   key.Binding
	NextVoice key.Binding
	PrevVoice key.Binding
	Faster    key.Binding
	Slower    key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Lesson: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "select lesson"),
		),
		Start: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause/resume"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Skip: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next question"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		NextVoice: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "next voice"),
		),
		PrevVoice: key.NewBinding(
			key.WithKeys("V"),
			key.WithHelp("V", "previous voice"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		Reload: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "reload lessons"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

func (this keyMap) ShortHelp() []key.Binding {
	return []key.Binding{this.Lesson, this.Start, this.Pause, this.Stop, this.Help, this.Quit}
}

func (this keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{this.Lesson, this.Start, this.Pause, this.Stop},
		{this.Skip, this.Restart, this.Reload},
		{this.NextVoice, this.PrevVoice, this.Faster, this.Slower},
		{this.Help, this.Quit},
	}
}
