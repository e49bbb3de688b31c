package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection is an X11 client connection plus its root window.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to $DISPLAY with the keybind module ready for
// global grabs.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	keybind.Initialize(xu)
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

// EventLoop blocks dispatching X events until Quit.
func (c *Connection) EventLoop() { xevent.Main(c.XUtil) }

func (c *Connection) Quit() { xevent.Quit(c.XUtil) }

func (c *Connection) Close() { c.XUtil.Conn().Close() }
