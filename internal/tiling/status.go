package tiling

import "github.com/1broseidon/tilewm/internal/platform"

// Status is a read-only view of the engine state.
type Status struct {
	Space      int            `json:"space"`
	SpaceCount int            `json:"space_count"`
	Layout     string         `json:"layout"`
	Focused    uint32         `json:"focused,omitempty"`
	Screens    []ScreenStatus `json:"screens"`
	Floating   []WindowStatus `json:"floating,omitempty"`
}

type ScreenStatus struct {
	Index    int            `json:"index"`
	ID       string         `json:"id"`
	Bounds   platform.Rect  `json:"bounds"`
	Windows  []WindowStatus `json:"windows"`
	LastMain uint32         `json:"last_main,omitempty"`
}

type WindowStatus struct {
	ID    uint32 `json:"id"`
	Class string `json:"class,omitempty"`
	Title string `json:"title,omitempty"`
}

// Status reports the current desktop's arrangement.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	sp := e.spaceLocked(e.desktop)
	st := Status{
		Space:      e.desktop,
		SpaceCount: e.desktopCount,
		Focused:    uint32(e.focused),
		Screens:    make([]ScreenStatus, 0, len(e.screens)),
	}
	if e.config != nil {
		st.Layout = e.config.DefaultLayout
	}

	for _, s := range e.screens {
		ids := sp.lists[s.ScreenID()]
		ss := ScreenStatus{
			Index:   s.index,
			ID:      s.ScreenID(),
			Bounds:  s.display.Bounds,
			Windows: make([]WindowStatus, 0, len(ids)),
		}
		if id, ok := sp.lastMainOf(s.ScreenID()); ok {
			ss.LastMain = uint32(id)
		}
		for _, id := range ids {
			ss.Windows = append(ss.Windows, windowStatus(e.windows[id]))
		}
		st.Screens = append(st.Screens, ss)
	}

	for _, id := range e.order {
		w := e.windows[id]
		if (w.Desktop == e.desktop || w.Desktop == platform.StickyDesktop) && e.floatingLocked(w) {
			st.Floating = append(st.Floating, windowStatus(w))
		}
	}
	return st
}

func windowStatus(w platform.Window) WindowStatus {
	return WindowStatus{ID: uint32(w.ID), Class: w.AppID, Title: w.Title}
}
