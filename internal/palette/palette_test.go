package palette

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/action"
)

func TestActionItemsCoverEveryAction(t *testing.T) {
	items := ActionItems(nil)

	var actions []string
	var headers []string
	for _, item := range items {
		if item.IsHeader {
			headers = append(headers, item.Label)
			continue
		}
		actions = append(actions, item.Action)
	}
	assert.Equal(t, []string{"Windows", "Screens", "Spaces"}, headers)
	assert.ElementsMatch(t, action.Names(), actions)
}

func TestActionItemsShowBindings(t *testing.T) {
	items := ActionItems(map[string]string{"swap-main": "Mod4-Shift-Return"})

	require.Equal(t, "Windows", items[0].Label)
	assert.Equal(t, "swap-main    Mod4-Shift-Return", items[1].Label)
	assert.Equal(t, "swap-main", items[1].Action)
	assert.Equal(t, "swap-ccw", items[2].Label)
}

func TestRofiRowProperties(t *testing.T) {
	l, ok := newLauncher("rofi")
	require.True(t, ok)

	header := l.row(Item{Label: "Screens", IsHeader: true})
	assert.Equal(t, "<b>Screens</b>\x00nonselectable\x1ftrue", header)

	row := l.row(Item{Label: "swap-main <Return>", Action: "swap-main", Icon: "view-grid"})
	assert.Equal(t, 1, strings.Count(row, "\x00"))
	assert.True(t, strings.HasPrefix(row, "swap-main &lt;Return&gt;\x00"))
	assert.Contains(t, row, "icon\x1fview-grid")
	assert.Contains(t, row, "meta\x1fswap-main")
}

func TestDmenuRowsArePlain(t *testing.T) {
	l, ok := newLauncher("dmenu")
	require.True(t, ok)

	assert.Equal(t, "swap-cw", l.row(Item{Label: "swap-cw\n", Action: "swap-cw"}))
	assert.Equal(t, []string{"-i", "-p", "tilewm"}, l.args("tilewm"))
}

func TestParseSelection(t *testing.T) {
	items := []Item{
		{Label: "Windows", IsHeader: true},
		{Label: "swap-main", Action: "swap-main"},
		{Label: "retile", Action: "retile"},
	}

	rofi, _ := newLauncher("rofi")
	got, err := rofi.parse("2", items)
	require.NoError(t, err)
	assert.Equal(t, "retile", got.Action)

	_, err = rofi.parse("7", items)
	assert.Error(t, err)

	dmenu, _ := newLauncher("dmenu")
	got, err = dmenu.parse("swap-main", items)
	require.NoError(t, err)
	assert.Equal(t, "swap-main", got.Action)

	_, err = dmenu.parse("swap-sideways", items)
	assert.Error(t, err)
}

func TestNewBackendUnknown(t *testing.T) {
	_, err := NewBackend("zenity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown palette backend")
}

func TestWithoutHeaders(t *testing.T) {
	items := withoutHeaders(ActionItems(nil))
	for _, item := range items {
		assert.False(t, item.IsHeader)
	}
	assert.Len(t, items, len(action.Names()))
}

func TestNewBackendTerminal(t *testing.T) {
	b, err := NewBackend(" Terminal ")
	require.NoError(t, err)
	assert.Equal(t, "terminal", b.Name())
}

func TestSelectOptionsKeepOrder(t *testing.T) {
	items := withoutHeaders(ActionItems(nil))
	options := selectOptions(items)
	require.Len(t, options, len(items))
	assert.Equal(t, items[0].Label, options[0].Key)
	assert.Equal(t, 0, options[0].Value)
	assert.Equal(t, len(items)-1, options[len(options)-1].Value)
}
