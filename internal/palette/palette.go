// Package palette shows the window actions in an external dmenu-style
// launcher (rofi, fuzzel, wofi or dmenu), or in the terminal, and returns
// the chosen one.
package palette

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// Item is a single row in the launcher.
type Item struct {
	Label    string
	Action   string // empty for headers
	Icon     string
	IsHeader bool
}

// Backend shows items and returns the selected one.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
	Name() string
}

// launchers lists supported commands in detection order.
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range launchers {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(launchers, ", "))
}

// NewBackend creates a backend by name. "auto" and "" detect a launcher,
// falling back to the terminal when stdin is one.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return terminalBackend{}, nil
			}
			return nil, err
		}
		name = detected
	}
	if name == terminalName {
		return terminalBackend{}, nil
	}

	b, ok := newLauncher(name)
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s, %s)",
			name, strings.Join(launchers, ", "), terminalName)
	}
	if _, err := exec.LookPath(b.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	return b, nil
}
