package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is an active RandR output in root window coordinates.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors lists the enabled CRTCs. IDs are CRTC indices, which stay
// stable while the output configuration does not change.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// UsableArea returns monitor minus the edges reserved by dock windows.
// Lookup failures leave the monitor unchanged.
func (c *Connection) UsableArea(monitor Monitor) Monitor {
	root, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return monitor
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return monitor
	}
	rootWidth, rootHeight := int(root.Width), int(root.Height)

	var struts []*ewmh.WmStrutPartial
	for _, id := range clients {
		if !c.isDock(id) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, id); err == nil {
			struts = append(struts, sp)
		} else if s, err := ewmh.WmStrutGet(c.XUtil, id); err == nil {
			struts = append(struts, fullEdgeStrut(s, rootWidth, rootHeight))
		}
	}
	return shrinkByStruts(monitor, rootWidth, rootHeight, struts)
}

func (c *Connection) isDock(id xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, id)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// fullEdgeStrut expands a legacy _NET_WM_STRUT, which reserves whole root
// edges, to the partial form.
func fullEdgeStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(rootHeight - 1),
		RightEndY:  uint(rootHeight - 1),
		TopEndX:    uint(rootWidth - 1),
		BottomEndX: uint(rootWidth - 1),
	}
}

// box is a half-open rectangle [x1,x2) x [y1,y2).
type box struct{ x1, y1, x2, y2 int }

// overlap returns the size of the intersection of a and b.
func (a box) overlap(b box) (w, h int) {
	w = min(a.x2, b.x2) - max(a.x1, b.x1)
	h = min(a.y2, b.y2) - max(a.y1, b.y1)
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return w, h
}

// reservedEdges returns the root areas a strut claims. Start and end
// coordinates of a partial strut are inclusive.
func reservedEdges(sp *ewmh.WmStrutPartial, rootWidth, rootHeight int) (top, bottom, left, right box) {
	top = box{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)}
	bottom = box{int(sp.BottomStartX), rootHeight - int(sp.Bottom), int(sp.BottomEndX) + 1, rootHeight}
	left = box{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1}
	right = box{rootWidth - int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY) + 1}
	return top, bottom, left, right
}

// shrinkByStruts trims each monitor edge by the deepest strut overlapping
// it. The result is never smaller than 1x1.
func shrinkByStruts(monitor Monitor, rootWidth, rootHeight int, struts []*ewmh.WmStrutPartial) Monitor {
	mon := box{monitor.X, monitor.Y, monitor.X + monitor.Width, monitor.Y + monitor.Height}

	var top, bottom, left, right int
	for _, sp := range struts {
		t, b, l, r := reservedEdges(sp, rootWidth, rootHeight)
		_, h := mon.overlap(t)
		top = max(top, h)
		_, h = mon.overlap(b)
		bottom = max(bottom, h)
		w, _ := mon.overlap(l)
		left = max(left, w)
		w, _ = mon.overlap(r)
		right = max(right, w)
	}

	monitor.X += left
	monitor.Y += top
	monitor.Width = max(monitor.Width-left-right, 1)
	monitor.Height = max(monitor.Height-top-bottom, 1)
	return monitor
}
