// Package daemon holds the long-running state behind the IPC socket:
// the loaded configuration, the dispatcher and the key bindings.
package daemon

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/tiling"
	"go.uber.org/zap"
)

// Engine is the part of the tiling engine the daemon reconfigures.
type Engine interface {
	UpdateConfig(cfg *config.Config) error
	Status() tiling.Status
}

// Dispatcher runs actions and accepts new repeat limits on reload.
type Dispatcher interface {
	Dispatch(name string) (dispatch.Result, error)
	Reconfigure(repeat config.RepeatConfig, apply func() error) error
}

// Binder grabs global keys. It is nil when running without X key grabs.
type Binder interface {
	Reset()
	RegisterBindings(bindings map[string]string) error
}

// Options configures a Daemon.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Engine     Engine
	Dispatcher Dispatcher
	Binder     Binder
	Logger     *zap.Logger
}

// Daemon serves IPC requests against the running engine.
type Daemon struct {
	mu         sync.Mutex
	cfg        *config.Config
	configPath string
	engine     Engine
	dispatcher Dispatcher
	binder     Binder
	logger     *zap.Logger
	started    time.Time
	now        func() time.Time
}

var _ ipc.Handler = (*Daemon)(nil)

func New(opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Daemon{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		engine:     opts.Engine,
		dispatcher: opts.Dispatcher,
		binder:     opts.Binder,
		logger:     logger,
		started:    time.Now(),
		now:        time.Now,
	}
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Daemon) Dispatch(name string) (dispatch.Result, error) {
	return d.dispatcher.Dispatch(name)
}

func (d *Daemon) Status() ipc.StatusData {
	d.mu.Lock()
	cfg := d.cfg
	d.mu.Unlock()

	return ipc.StatusData{
		Tiling:        d.engine.Status(),
		Bindings:      maps.Clone(cfg.Bindings),
		ConfigPath:    d.configPath,
		UptimeSeconds: int64(d.now().Sub(d.started).Seconds()),
		DaemonRunning: true,
	}
}

// Reload rereads the config file. An invalid file leaves the running
// configuration untouched.
func (d *Daemon) Reload() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return err
	}
	cfg := res.Config

	if d.binder != nil {
		d.binder.Reset()
		if err := d.binder.RegisterBindings(cfg.Bindings); err != nil {
			// Partial grabs stay active; report the rest.
			d.logger.Warn("some bindings failed to register", zap.Error(err))
		}
	}
	d.cfg = cfg
	err = d.dispatcher.Reconfigure(cfg.Repeat, func() error {
		return d.engine.UpdateConfig(cfg)
	})
	if err != nil {
		return fmt.Errorf("failed to apply config: %w", err)
	}

	d.logger.Info("config reloaded",
		zap.String("path", d.configPath),
		zap.Bool("exists", res.Exists),
		zap.String("layout", cfg.DefaultLayout),
	)
	return nil
}
