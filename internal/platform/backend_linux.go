//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/tilewm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

var errNoConnection = errors.New("x11 backend is not connected")

// LinuxBackend drives an EWMH window manager over X11.
type LinuxBackend struct {
	x *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay connects to $DISPLAY.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{x: conn}, nil
}

func (b *LinuxBackend) connected() bool {
	return b != nil && b.x != nil
}

// Disconnect closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b.connected() {
		b.x.Close()
	}
}

// EventLoop dispatches X events, including key presses, until Quit.
func (b *LinuxBackend) EventLoop() {
	if b.connected() {
		b.x.EventLoop()
	}
}

func (b *LinuxBackend) Quit() {
	if b.connected() {
		b.x.Quit()
	}
}

// XUtil exposes the connection to the hotkey handler.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if !b.connected() {
		return nil
	}
	return b.x.XUtil
}

func (b *LinuxBackend) RootWindow() xproto.Window {
	if !b.connected() {
		return 0
	}
	return b.x.Root
}

// Displays lists active monitors by CRTC index, with the usable area
// excluding dock struts.
func (b *LinuxBackend) Displays() ([]Display, error) {
	if !b.connected() {
		return nil, errNoConnection
	}
	monitors, err := b.x.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, len(monitors))
	for i, m := range monitors {
		u := b.x.UsableArea(m)
		displays[i] = Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Usable: Rect{X: u.X, Y: u.Y, Width: u.Width, Height: u.Height},
		}
	}
	sort.Slice(displays, func(i, j int) bool { return displays[i].ID < displays[j].ID })
	return displays, nil
}

func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	if !b.connected() {
		return 0, errNoConnection
	}
	id, err := b.x.GetActiveWindow()
	return WindowID(id), err
}

// ListWindows returns managed windows in mapping order. Hidden, fullscreen
// and non-normal windows are left out; windows without a desktop are
// reported as sticky.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	if !b.connected() {
		return nil, errNoConnection
	}
	clients, err := b.x.ClientList()
	if err != nil {
		return nil, err
	}

	var windows []Window
	for _, id := range clients {
		if !b.x.IsNormalWindow(id) || b.x.IsHiddenOrFullscreen(id) {
			continue
		}
		geom, err := b.x.WindowGeometry(id)
		if err != nil {
			continue
		}
		desktop, err := b.x.GetWindowDesktop(id)
		if err != nil {
			desktop = StickyDesktop
		}
		windows = append(windows, Window{
			ID:      WindowID(id),
			AppID:   b.x.WindowClass(id),
			Title:   b.x.WindowTitle(id),
			Bounds:  Rect{X: geom.X, Y: geom.Y, Width: geom.Width, Height: geom.Height},
			Desktop: desktop,
		})
	}
	return windows, nil
}

func (b *LinuxBackend) MoveResize(id WindowID, r Rect) error {
	if !b.connected() {
		return errNoConnection
	}
	return b.x.MoveResizeWindow(xproto.Window(id), r.X, r.Y, r.Width, r.Height)
}

func (b *LinuxBackend) Focus(id WindowID) error {
	if !b.connected() {
		return errNoConnection
	}
	return b.x.FocusWindow(xproto.Window(id))
}

func (b *LinuxBackend) CurrentDesktop() (int, error) {
	if !b.connected() {
		return 0, errNoConnection
	}
	return b.x.GetCurrentDesktop()
}

func (b *LinuxBackend) DesktopCount() (int, error) {
	if !b.connected() {
		return 0, errNoConnection
	}
	return b.x.GetDesktopCount()
}

func (b *LinuxBackend) SetWindowDesktop(id WindowID, desktop int) error {
	if !b.connected() {
		return errNoConnection
	}
	return b.x.SetWindowDesktop(xproto.Window(id), desktop)
}
