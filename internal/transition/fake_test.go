package transition

import "errors"

type fakeScreen struct {
	id string
}

func (s *fakeScreen) ScreenID() string { return s.id }

type fakeWindow struct {
	id     WindowID
	screen *fakeScreen
	target *fakeTarget
}

func (w *fakeWindow) ID() WindowID { return w.id }

func (w *fakeWindow) Screen() (Screen, bool) {
	if w.screen == nil {
		return nil, false
	}
	return w.screen, true
}

func (w *fakeWindow) Focus() error {
	w.target.focusRequests = append(w.target.focusRequests, w.id)
	if w.target.focusErr != nil {
		return w.target.focusErr
	}
	w.target.focused = w
	return nil
}

// fakeTarget is an in-memory Target. Switch transitions are applied to the
// window lists so sequences of operations can be observed.
type fakeTarget struct {
	screens       []*fakeScreen
	windows       map[string][]Window
	focused       *fakeWindow
	floating      map[WindowID]bool
	lastMain      *fakeWindow
	layout        string
	executed      []Transition
	focusRequests []WindowID
	execErr       error
	focusErr      error
	// ring, when set, replaces both screen ring lookups.
	ring func(from Screen) int
}

func newFakeTarget(screenIDs ...string) *fakeTarget {
	t := &fakeTarget{
		windows:  make(map[string][]Window),
		floating: make(map[WindowID]bool),
		layout:   "master-stack",
	}
	for _, id := range screenIDs {
		t.screens = append(t.screens, &fakeScreen{id: id})
	}
	return t
}

// addWindows appends windows with the given ids to screen index si.
func (t *fakeTarget) addWindows(si int, ids ...WindowID) []*fakeWindow {
	screen := t.screens[si]
	out := make([]*fakeWindow, 0, len(ids))
	for _, id := range ids {
		w := &fakeWindow{id: id, screen: screen, target: t}
		t.windows[screen.id] = append(t.windows[screen.id], w)
		out = append(out, w)
	}
	return out
}

func (t *fakeTarget) order(si int) []WindowID {
	var ids []WindowID
	for _, w := range t.windows[t.screens[si].id] {
		ids = append(ids, w.ID())
	}
	return ids
}

func (t *fakeTarget) ExecuteTransition(tr Transition) error {
	t.executed = append(t.executed, tr)
	if t.execErr != nil {
		return t.execErr
	}
	if tr.Kind == KindSwitchWindows {
		for _, list := range t.windows {
			ai, bi := -1, -1
			for i, w := range list {
				if SameWindow(w, tr.Window) {
					ai = i
				}
				if SameWindow(w, tr.Other) {
					bi = i
				}
			}
			if ai >= 0 && bi >= 0 {
				list[ai], list[bi] = list[bi], list[ai]
			}
		}
	}
	return nil
}

func (t *fakeTarget) FocusedWindow() (Window, bool) {
	if t.focused == nil {
		return nil, false
	}
	return t.focused, true
}

func (t *fakeTarget) IsWindowFloating(w Window) bool {
	return t.floating[w.ID()]
}

func (t *fakeTarget) CurrentLayout() (string, bool) {
	return t.layout, t.layout != ""
}

func (t *fakeTarget) Screen(index int) (Screen, bool) {
	if index < 0 || index >= len(t.screens) {
		return nil, false
	}
	return t.screens[index], true
}

func (t *fakeTarget) ActiveWindows(screen Screen) []Window {
	return t.windows[screen.ScreenID()]
}

func (t *fakeTarget) screenIndex(screen Screen) int {
	for i, s := range t.screens {
		if s.id == screen.ScreenID() {
			return i
		}
	}
	return -1
}

func (t *fakeTarget) NextScreenIndexClockwise(from Screen) int {
	if t.ring != nil {
		return t.ring(from)
	}
	return (t.screenIndex(from) + 1) % len(t.screens)
}

func (t *fakeTarget) NextScreenIndexCounterClockwise(from Screen) int {
	if t.ring != nil {
		return t.ring(from)
	}
	n := len(t.screens)
	return (t.screenIndex(from) - 1 + n) % n
}

func (t *fakeTarget) LastMainWindowForCurrentSpace() (Window, bool) {
	if t.lastMain == nil {
		return nil, false
	}
	return t.lastMain, true
}

type fakeSpaces struct {
	current    SpaceID
	hasCurrent bool
	spaces     []SpaceID
}

func (s *fakeSpaces) CurrentFocusedSpace() (SpaceID, bool) {
	return s.current, s.hasCurrent
}

func (s *fakeSpaces) SpacesForAllScreens() ([]SpaceID, bool) {
	return s.spaces, s.spaces != nil
}

var errFake = errors.New("fake failure")
