package tiling

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/transition"
	"go.uber.org/zap"
)

// ErrNoFocusedWindow is returned by operations that act on the focused window.
var ErrNoFocusedWindow = errors.New("no focused window")

// Engine keeps the tiling order of every desktop and applies it through a
// platform backend. It is the window arrangement the transition
// coordinator drives.
type Engine struct {
	mu      sync.Mutex
	backend platform.Backend
	config  *config.Config
	logger  *zap.Logger

	screens      []*Screen
	windows      map[platform.WindowID]platform.Window
	order        []platform.WindowID // backend mapping order
	focused      platform.WindowID
	desktop      int
	desktopCount int
	refreshed    bool

	spaces map[int]*space
	// floatToggle overrides the configured floating classes per window.
	floatToggle map[platform.WindowID]bool
}

var (
	_ transition.Target    = (*Engine)(nil)
	_ transition.SpaceInfo = (*Engine)(nil)
)

// NewEngine creates an engine. Call Refresh before handing it to a coordinator.
func NewEngine(backend platform.Backend, cfg *config.Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		backend:     backend,
		config:      cfg,
		logger:      logger,
		windows:     make(map[platform.WindowID]platform.Window),
		spaces:      make(map[int]*space),
		floatToggle: make(map[platform.WindowID]bool),
	}
}

// Refresh snapshots displays, desktops and windows from the backend,
// adopts new windows, forgets vanished ones and retiles screens whose
// window lists changed.
func (e *Engine) Refresh() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	displays, err := e.backend.Displays()
	if err != nil {
		return fmt.Errorf("failed to list displays: %w", err)
	}
	desktop, err := e.backend.CurrentDesktop()
	if err != nil {
		return fmt.Errorf("failed to get current desktop: %w", err)
	}
	count, err := e.backend.DesktopCount()
	if err != nil {
		return fmt.Errorf("failed to get desktop count: %w", err)
	}
	windows, err := e.backend.ListWindows()
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}
	focused, err := e.backend.ActiveWindow()
	if err != nil {
		// No active window is a normal state.
		focused = 0
	}

	e.screens = orderScreens(displays)
	e.desktop = desktop
	e.desktopCount = count
	e.focused = focused
	e.windows = make(map[platform.WindowID]platform.Window, len(windows))
	e.order = e.order[:0]
	for _, w := range windows {
		e.windows[w.ID] = w
		e.order = append(e.order, w.ID)
	}
	for id := range e.floatToggle {
		if _, ok := e.windows[id]; !ok {
			delete(e.floatToggle, id)
		}
	}
	for d, sp := range e.spaces {
		if d == desktop {
			continue
		}
		if d >= count {
			delete(e.spaces, d)
			continue
		}
		sp.prune(func(id platform.WindowID) bool {
			w, ok := e.windows[id]
			return ok && w.Desktop == d
		})
	}
	e.refreshed = true

	return e.syncLocked()
}

// syncLocked reconciles the current space with the window snapshot and
// retiles what changed.
func (e *Engine) syncLocked() error {
	sp := e.spaceLocked(e.desktop)

	valid := make(map[string]bool, len(e.screens))
	for _, s := range e.screens {
		valid[s.ScreenID()] = true
	}

	assigned := make(map[platform.WindowID]bool)
	for screenID, ids := range sp.lists {
		if !valid[screenID] {
			// Screen unplugged; its windows are adopted again below.
			sp.forgetScreen(screenID)
			continue
		}
		kept := make([]platform.WindowID, 0, len(ids))
		for _, id := range ids {
			w, ok := e.windows[id]
			if !ok || w.Desktop != e.desktop || e.floatingLocked(w) {
				sp.dirty[screenID] = true
				continue
			}
			kept = append(kept, id)
			assigned[id] = true
		}
		sp.lists[screenID] = kept
	}

	for _, id := range e.order {
		w := e.windows[id]
		if assigned[id] || w.Desktop != e.desktop || e.floatingLocked(w) {
			continue
		}
		s := e.screenForLocked(w.Bounds)
		if s == nil {
			continue
		}
		sp.push(s.ScreenID(), id)
		sp.dirty[s.ScreenID()] = true
		assigned[id] = true
		e.logger.Debug("adopted window",
			zap.Uint32("window", uint32(id)),
			zap.String("class", w.AppID),
			zap.String("screen", s.ScreenID()),
		)
	}

	sp.trackMains(e.screenIDsLocked())

	var errs []error
	for _, s := range e.screens {
		if !sp.dirty[s.ScreenID()] {
			continue
		}
		if err := e.retileLocked(sp, s); err != nil {
			errs = append(errs, err)
		}
	}
	sp.dirty = make(map[string]bool)
	return errors.Join(errs...)
}

func (e *Engine) spaceLocked(desktop int) *space {
	sp, ok := e.spaces[desktop]
	if !ok {
		sp = newSpace()
		e.spaces[desktop] = sp
	}
	return sp
}

func (e *Engine) screenIDsLocked() []string {
	ids := make([]string, len(e.screens))
	for i, s := range e.screens {
		ids[i] = s.ScreenID()
	}
	return ids
}

func (e *Engine) screenByIDLocked(id string) *Screen {
	for _, s := range e.screens {
		if s.ScreenID() == id {
			return s
		}
	}
	return nil
}

// screenForLocked picks the screen containing the center of bounds, or
// the screen whose center is nearest.
func (e *Engine) screenForLocked(bounds platform.Rect) *Screen {
	cx, cy := bounds.Center()
	var nearest *Screen
	best := -1
	for _, s := range e.screens {
		if s.display.Bounds.Contains(cx, cy) {
			return s
		}
		sx, sy := s.display.Bounds.Center()
		d := abs(sx-cx) + abs(sy-cy)
		if best < 0 || d < best {
			nearest, best = s, d
		}
	}
	return nearest
}

func (e *Engine) floatingLocked(w platform.Window) bool {
	if w.Desktop == platform.StickyDesktop {
		return true
	}
	if floating, ok := e.floatToggle[w.ID]; ok {
		return floating
	}
	return e.config.IsFloatingClass(w.AppID)
}

// windowLocked wraps info for the coordinator. Tiled windows report the
// screen whose list holds them; others the screen under their center.
func (e *Engine) windowLocked(sp *space, info platform.Window) *Window {
	w := &Window{info: info, backend: e.backend}
	if screenID, _, ok := sp.locate(info.ID); ok {
		w.screen = e.screenByIDLocked(screenID)
	}
	if w.screen == nil {
		w.screen = e.screenForLocked(info.Bounds)
	}
	return w
}

func (e *Engine) retileLocked(sp *space, s *Screen) error {
	ids := sp.lists[s.ScreenID()]
	if len(ids) == 0 {
		return nil
	}

	layout, err := e.config.GetDefaultLayout()
	if err != nil {
		return err
	}
	area, err := ApplyPadding(s.tileArea(), e.config.ScreenPadding)
	if err != nil {
		return err
	}
	area = ApplyRegion(area, layout.TileRegion)

	positions, err := TileSlots(len(ids), area, layout, e.config.GapSize)
	if err != nil {
		return fmt.Errorf("screen %s: %w", s.ScreenID(), err)
	}

	var errs []error
	for i, id := range ids {
		if i >= len(positions) {
			e.logger.Debug("window exceeds layout capacity",
				zap.Uint32("window", uint32(id)),
				zap.Int("slot", i),
			)
			continue
		}
		if err := e.backend.MoveResize(id, positions[i]); err != nil {
			e.logger.Warn("failed to tile window", zap.Uint32("window", uint32(id)), zap.Error(err))
			errs = append(errs, fmt.Errorf("window %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) retileScreensLocked(sp *space, screenIDs ...string) error {
	var errs []error
	seen := make(map[string]bool, len(screenIDs))
	for _, id := range screenIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s := e.screenByIDLocked(id); s != nil {
			if err := e.retileLocked(sp, s); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RetileAll reapplies the layout to every screen of the current desktop.
func (e *Engine) RetileAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sp := e.spaceLocked(e.desktop)
	return e.retileScreensLocked(sp, e.screenIDsLocked()...)
}

// ToggleFloating flips the floating state of the focused window and
// reports the new state.
func (e *Engine) ToggleFloating() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, ok := e.windows[e.focused]
	if !ok || info.Desktop != e.desktop {
		return false, ErrNoFocusedWindow
	}

	floating := !e.floatingLocked(info)
	e.floatToggle[info.ID] = floating
	e.logger.Info("toggled floating", zap.Uint32("window", uint32(info.ID)), zap.Bool("floating", floating))
	return floating, e.syncLocked()
}

// UpdateConfig swaps the configuration and retiles the current desktop.
func (e *Engine) UpdateConfig(cfg *config.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.config = cfg
	if !e.refreshed {
		return nil
	}
	if err := e.syncLocked(); err != nil {
		return err
	}
	sp := e.spaceLocked(e.desktop)
	return e.retileScreensLocked(sp, e.screenIDsLocked()...)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
