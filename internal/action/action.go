// Package action names the operations that bindings, IPC clients and MCP
// tools can request from the daemon.
package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tilewm/internal/transition"
)

const (
	ToggleFloat = "toggle-float"
	Retile      = "retile"
)

// MaxIndexed bounds the N in throw-screen-N and push-space-N.
const MaxIndexed = 9

// Action is a parsed action name.
type Action struct {
	Name string
	// Op is empty for actions handled outside the coordinator.
	Op transition.Op
	// Index is the zero-based screen or space index of indexed actions.
	Index int
}

// Indexed reports whether the action carries a screen or space index.
func (a Action) Indexed() bool {
	return a.Op == transition.OpThrowToScreen || a.Op == transition.OpPushToSpace
}

func (a Action) String() string {
	return a.Name
}

var fixed = map[string]transition.Op{
	string(transition.OpSwapToMain):             transition.OpSwapToMain,
	string(transition.OpSwapCounterClockwise):   transition.OpSwapCounterClockwise,
	string(transition.OpSwapClockwise):          transition.OpSwapClockwise,
	string(transition.OpScreenClockwise):        transition.OpScreenClockwise,
	string(transition.OpScreenCounterClockwise): transition.OpScreenCounterClockwise,
	string(transition.OpPushToSpaceLeft):        transition.OpPushToSpaceLeft,
	string(transition.OpPushToSpaceRight):       transition.OpPushToSpaceRight,
	ToggleFloat:                                 "",
	Retile:                                      "",
}

// Parse resolves an action name. Indexed names are one-based:
// "throw-screen-1" targets the first screen.
func Parse(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Action{}, fmt.Errorf("action name is required")
	}
	if op, ok := fixed[name]; ok {
		return Action{Name: name, Op: op}, nil
	}

	for _, op := range []transition.Op{transition.OpThrowToScreen, transition.OpPushToSpace} {
		prefix := string(op) + "-"
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
		if err != nil {
			return Action{}, fmt.Errorf("unknown action %q", name)
		}
		if n < 1 || n > MaxIndexed {
			return Action{}, fmt.Errorf("action %q: index must be between 1 and %d", name, MaxIndexed)
		}
		return Action{Name: name, Op: op, Index: n - 1}, nil
	}

	return Action{}, fmt.Errorf("unknown action %q", name)
}

// Names lists every accepted action name, indexed actions expanded up to
// MaxIndexed.
func Names() []string {
	names := []string{
		string(transition.OpSwapToMain),
		string(transition.OpSwapCounterClockwise),
		string(transition.OpSwapClockwise),
		string(transition.OpScreenClockwise),
		string(transition.OpScreenCounterClockwise),
	}
	for i := 1; i <= MaxIndexed; i++ {
		names = append(names, fmt.Sprintf("%s-%d", transition.OpThrowToScreen, i))
	}
	names = append(names,
		string(transition.OpPushToSpaceLeft),
		string(transition.OpPushToSpaceRight),
	)
	for i := 1; i <= MaxIndexed; i++ {
		names = append(names, fmt.Sprintf("%s-%d", transition.OpPushToSpace, i))
	}
	return append(names, ToggleFloat, Retile)
}
