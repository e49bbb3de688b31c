package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/tilewm/internal/action"
)

// throwKeys are the shifted digits; position i throws to screen i+1.
const throwKeys = "!@#"

type keyMap struct {
	Main       key.Binding
	SwapCW     key.Binding
	SwapCCW    key.Binding
	ScreenCW   key.Binding
	ScreenCCW  key.Binding
	SpaceLeft  key.Binding
	SpaceRight key.Binding
	Space      key.Binding
	Throw      key.Binding
	Float      key.Binding
	Retile     key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	digits := make([]string, action.MaxIndexed)
	for i := range digits {
		digits[i] = fmt.Sprint(i + 1)
	}
	return keyMap{
		Main:       key.NewBinding(key.WithKeys("enter", "m"), key.WithHelp("m", "main")),
		SwapCW:     key.NewBinding(key.WithKeys("j"), key.WithHelp("j/k", "swap")),
		SwapCCW:    key.NewBinding(key.WithKeys("k")),
		ScreenCW:   key.NewBinding(key.WithKeys("l"), key.WithHelp("h/l", "screen")),
		ScreenCCW:  key.NewBinding(key.WithKeys("h")),
		SpaceLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "space")),
		SpaceRight: key.NewBinding(key.WithKeys("]")),
		Space:      key.NewBinding(key.WithKeys(digits...), key.WithHelp("1-9", "to space")),
		Throw:      key.NewBinding(key.WithKeys(strings.Split(throwKeys, "")...), key.WithHelp(throwKeys, "throw")),
		Float:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "float")),
		Retile:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retile")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap. Bindings sharing a help entry with
// their counterpart are left out.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Main, k.SwapCW, k.ScreenCW, k.Throw, k.Space, k.SpaceLeft, k.Float, k.Retile, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Main, k.SwapCW, k.ScreenCW},
		{k.Throw, k.Space, k.SpaceLeft},
		{k.Float, k.Retile, k.Quit},
	}
}

// action resolves a key press to the action it runs.
func (k keyMap) action(msg tea.KeyMsg) (string, bool) {
	switch {
	case key.Matches(msg, k.Main):
		return "swap-main", true
	case key.Matches(msg, k.SwapCW):
		return "swap-cw", true
	case key.Matches(msg, k.SwapCCW):
		return "swap-ccw", true
	case key.Matches(msg, k.ScreenCW):
		return "screen-cw", true
	case key.Matches(msg, k.ScreenCCW):
		return "screen-ccw", true
	case key.Matches(msg, k.SpaceLeft):
		return "push-space-left", true
	case key.Matches(msg, k.SpaceRight):
		return "push-space-right", true
	case key.Matches(msg, k.Space):
		return "push-space-" + msg.String(), true
	case key.Matches(msg, k.Throw):
		return fmt.Sprintf("throw-screen-%d", strings.Index(throwKeys, msg.String())+1), true
	case key.Matches(msg, k.Float):
		return action.ToggleFloat, true
	case key.Matches(msg, k.Retile):
		return action.Retile, true
	}
	return "", false
}
