package tiling

import (
	"errors"

	"github.com/1broseidon/tilewm/internal/platform"
)

var errBackend = errors.New("backend failure")

// fakeBackend is an in-memory window system. MoveResize, Focus and
// SetWindowDesktop update its state like a cooperative window manager.
type fakeBackend struct {
	displays     []platform.Display
	windows      []platform.Window
	active       platform.WindowID
	desktop      int
	desktopCount int

	moves      map[platform.WindowID]platform.Rect
	moveCount  int
	focusCalls []platform.WindowID
	focusErr   error
	desktopErr error
}

func newFakeBackend() *fakeBackend {
	left := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	return &fakeBackend{
		// Listed right first; the engine orders screens by position.
		displays: []platform.Display{
			{ID: 0, Name: "DP-1", Bounds: right, Usable: right},
			{ID: 1, Name: "HDMI-1", Bounds: left, Usable: left},
		},
		desktopCount: 3,
		moves:        make(map[platform.WindowID]platform.Rect),
	}
}

func (f *fakeBackend) addWindow(id platform.WindowID, class string, x, desktop int) {
	f.windows = append(f.windows, platform.Window{
		ID:      id,
		AppID:   class,
		Title:   class,
		Bounds:  platform.Rect{X: x, Y: 100, Width: 400, Height: 300},
		Desktop: desktop,
	})
}

func (f *fakeBackend) closeWindow(id platform.WindowID) {
	kept := f.windows[:0]
	for _, w := range f.windows {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	f.windows = kept
}

func (f *fakeBackend) window(id platform.WindowID) (platform.Window, bool) {
	for _, w := range f.windows {
		if w.ID == id {
			return w, true
		}
	}
	return platform.Window{}, false
}

func (f *fakeBackend) Displays() ([]platform.Display, error) {
	return f.displays, nil
}

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	if f.active == 0 {
		return 0, errors.New("no active window")
	}
	return f.active, nil
}

func (f *fakeBackend) ListWindows() ([]platform.Window, error) {
	out := make([]platform.Window, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	f.moveCount++
	f.moves[id] = bounds
	for i := range f.windows {
		if f.windows[i].ID == id {
			f.windows[i].Bounds = bounds
		}
	}
	return nil
}

func (f *fakeBackend) Focus(id platform.WindowID) error {
	f.focusCalls = append(f.focusCalls, id)
	if f.focusErr != nil {
		return f.focusErr
	}
	f.active = id
	return nil
}

func (f *fakeBackend) CurrentDesktop() (int, error) {
	return f.desktop, nil
}

func (f *fakeBackend) DesktopCount() (int, error) {
	return f.desktopCount, nil
}

func (f *fakeBackend) SetWindowDesktop(id platform.WindowID, desktop int) error {
	if f.desktopErr != nil {
		return f.desktopErr
	}
	for i := range f.windows {
		if f.windows[i].ID == id {
			f.windows[i].Desktop = desktop
		}
	}
	return nil
}
