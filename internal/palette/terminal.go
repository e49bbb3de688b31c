package palette

import (
	"errors"

	"github.com/charmbracelet/huh"
)

const terminalName = "terminal"

// terminalBackend draws the menu in the controlling terminal. It needs no
// launcher and is the fallback when none is installed.
type terminalBackend struct{}

func (terminalBackend) Name() string { return terminalName }

func (terminalBackend) Show(prompt string, items []Item) (Item, error) {
	selectable := withoutHeaders(items)
	if len(selectable) == 0 {
		return Item{}, ErrCancelled
	}

	var chosen int
	err := huh.NewSelect[int]().
		Title(prompt).
		Options(selectOptions(selectable)...).
		Filtering(true).
		Height(min(len(selectable)+2, 20)).
		Value(&chosen).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return Item{}, ErrCancelled
	}
	if err != nil {
		return Item{}, err
	}
	return selectable[chosen], nil
}

// selectOptions keys each option by its index in items.
func selectOptions(items []Item) []huh.Option[int] {
	options := make([]huh.Option[int], len(items))
	for i, item := range items {
		options[i] = huh.NewOption(item.Label, i)
	}
	return options
}
