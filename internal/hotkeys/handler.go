package hotkeys

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"go.uber.org/zap"
)

// Dispatcher runs a named action.
type Dispatcher interface {
	Dispatch(name string) (dispatch.Result, error)
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding pairs a key sequence with the action it triggers.
type Binding struct {
	Action string
	Keys   string
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu         *xgbutil.XUtil
	root       xproto.Window
	dispatcher Dispatcher
	logger     *zap.Logger

	mu     sync.Mutex
	active []Binding
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, dispatcher Dispatcher, logger *zap.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("hotkeys need an X11 backend")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:         xu,
		root:       accessor.RootWindow(),
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// Plan turns the configured bindings into a stable registration order,
// skipping unbound actions.
func Plan(bindings map[string]string) []Binding {
	plan := make([]Binding, 0, len(bindings))
	for action, keys := range bindings {
		keys = strings.TrimSpace(keys)
		if keys == "" {
			continue
		}
		plan = append(plan, Binding{Action: action, Keys: keys})
	}
	sort.Slice(plan, func(i, j int) bool {
		return plan[i].Action < plan[j].Action
	})
	return plan
}

// RegisterBindings grabs every bound key sequence. A key that cannot be
// grabbed does not prevent the others from registering.
func (h *Handler) RegisterBindings(bindings map[string]string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for _, b := range Plan(bindings) {
		if err := h.registerFunc(b.Keys, h.trigger(b.Action)); err != nil {
			errs = append(errs, fmt.Errorf("failed to bind %s to %s: %w", b.Keys, b.Action, err))
			continue
		}
		h.active = append(h.active, b)
		h.logger.Debug("bound key", zap.String("keys", b.Keys), zap.String("action", b.Action))
	}
	return errors.Join(errs...)
}

// Reset releases every grab made by RegisterBindings.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	keybind.Detach(h.xu, h.root)
	h.active = nil
}

// Active returns the bindings currently grabbed.
func (h *Handler) Active() []Binding {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Binding(nil), h.active...)
}

func (h *Handler) trigger(action string) func() {
	return func() {
		res, err := h.dispatcher.Dispatch(action)
		if err != nil {
			if errors.Is(err, dispatch.ErrRateLimited) {
				h.logger.Debug("key repeat dropped", zap.String("action", action))
				return
			}
			h.logger.Warn("hotkey action failed", zap.String("action", action), zap.Error(err))
			return
		}
		h.logger.Debug("hotkey handled",
			zap.String("action", action),
			zap.String("request_id", res.RequestID),
		)
	}
}

func (h *Handler) registerFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
