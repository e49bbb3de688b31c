package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tilewm/internal/action"
)

type group struct {
	title string
	icon  string
	match func(name string) bool
}

var groups = []group{
	{title: "Windows", icon: "view-grid", match: func(name string) bool {
		return strings.HasPrefix(name, "swap-") || name == action.ToggleFloat || name == action.Retile
	}},
	{title: "Screens", icon: "video-display", match: func(name string) bool {
		return strings.HasPrefix(name, "screen-") || strings.HasPrefix(name, "throw-screen-")
	}},
	{title: "Spaces", icon: "preferences-desktop", match: func(name string) bool {
		return strings.HasPrefix(name, "push-space")
	}},
}

// ActionItems lists every action under a header per group. Labels carry
// the bound key, if any.
func ActionItems(bindings map[string]string) []Item {
	names := action.Names()
	var items []Item
	for _, g := range groups {
		items = append(items, Item{Label: g.title, IsHeader: true})
		for _, name := range names {
			if !g.match(name) {
				continue
			}
			label := name
			if key := bindings[name]; key != "" {
				label = fmt.Sprintf("%s    %s", name, key)
			}
			items = append(items, Item{Label: label, Action: name, Icon: g.icon})
		}
	}
	return items
}
