package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

type launcher struct {
	command string
	// byIndex launchers print the selected row number instead of its text.
	byIndex bool
	markup  bool
	icons   bool
	// rofi row properties (icons, nonselectable headers)
	rowProps bool
}

func newLauncher(name string) (*launcher, bool) {
	switch name {
	case "rofi":
		return &launcher{command: "rofi", byIndex: true, markup: true, icons: true, rowProps: true}, true
	case "fuzzel":
		return &launcher{command: "fuzzel", byIndex: true, icons: true}, true
	case "wofi":
		return &launcher{command: "wofi", markup: true}, true
	case "dmenu":
		return &launcher{command: "dmenu"}, true
	default:
		return nil, false
	}
}

func (l *launcher) Name() string {
	return l.command
}

func (l *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	if !l.rowProps {
		// Without nonselectable rows headers would be pickable.
		items = withoutHeaders(items)
	}

	cmd := exec.Command(l.command, l.args(prompt)...)
	cmd.Stdin = strings.NewReader(l.input(items))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return l.parse(selection, items)
}

func (l *launcher) args(prompt string) []string {
	switch l.command {
	case "rofi":
		args := []string{"-dmenu", "-i", "-no-custom", "-format", "i", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	case "fuzzel":
		args := []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		return args
	case "wofi":
		args := []string{"--dmenu", "--allow-markup"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		return args
	default:
		args := []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}
}

func (l *launcher) input(items []Item) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = l.row(item)
	}
	return strings.Join(lines, "\n")
}

func (l *launcher) row(item Item) string {
	display := sanitize(item.Label)
	if l.markup {
		display = html.EscapeString(display)
		if item.IsHeader {
			display = "<b>" + display + "</b>"
		}
	}
	if !l.rowProps {
		return display
	}

	// rofi reads row properties after a single NUL, as \x1f separated pairs.
	var props []string
	if item.IsHeader {
		props = append(props, "nonselectable", "true")
	}
	if item.Icon != "" && l.icons {
		props = append(props, "icon", sanitize(item.Icon))
	}
	if item.Action != "" {
		props = append(props, "meta", sanitize(item.Action))
	}
	if len(props) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(props, "\x1f")
}

func (l *launcher) parse(selection string, items []Item) (Item, error) {
	if l.byIndex {
		idx, err := strconv.Atoi(selection)
		if err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, item := range items {
		if sanitize(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func withoutHeaders(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.IsHeader {
			out = append(out, item)
		}
	}
	return out
}

func sanitize(s string) string {
	s = strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// 1 is "no selection", 130 is Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
