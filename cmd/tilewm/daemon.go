package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/daemon"
	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/1broseidon/tilewm/internal/hotkeys"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/logging"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/runtimepath"
	"github.com/1broseidon/tilewm/internal/tiling"
	"github.com/1broseidon/tilewm/internal/transition"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: $TILEWM_CONFIG or ~/.config/tilewm/config.yaml)")
	noKeys := fs.Bool("no-keys", false, "Do not grab key bindings; accept actions over IPC only")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewm daemon [--config PATH] [--no-keys]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the tiling daemon in the foreground.")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	path := *configPath
	if path == "" {
		var err error
		if path, err = config.ResolvePath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("path", res.Path),
		zap.Bool("exists", res.Exists),
		zap.String("layout", cfg.DefaultLayout),
		zap.Int("gap", cfg.GapSize),
	)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		logger.Error("failed to connect to display", zap.Error(err))
		return 1
	}
	defer backend.Disconnect()

	engine := tiling.NewEngine(backend, cfg, logger.Named("tiling"))
	if err := engine.Refresh(); err != nil {
		logger.Warn("initial refresh failed", zap.Error(err))
	}

	coordinator := transition.NewCoordinator(engine, logger.Named("transition"))
	coordinator.Attach(engine)
	defer coordinator.Detach()

	metrics := dispatch.NewMetrics()
	metrics.RegisterRuntime()
	dispatcher := dispatch.New(coordinator, engine, cfg.Repeat, metrics, logger.Named("dispatch"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger.Named("metrics")); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	var binder daemon.Binder
	if !*noKeys {
		handler, err := hotkeys.NewHandler(backend, dispatcher, logger.Named("hotkeys"))
		if err != nil {
			logger.Error("failed to set up key bindings", zap.Error(err))
			return 1
		}
		if err := handler.RegisterBindings(cfg.Bindings); err != nil {
			logger.Warn("some bindings failed to register", zap.Error(err))
		}
		binder = handler
	}

	d := daemon.New(daemon.Options{
		Config:     cfg,
		ConfigPath: path,
		Engine:     engine,
		Dispatcher: dispatcher,
		Binder:     binder,
		Logger:     logger.Named("daemon"),
	})

	ipcServer, err := ipc.NewServer(d, logger.Named("ipc"))
	if err != nil {
		logger.Error("failed to create IPC server", zap.Error(err))
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", zap.Error(err))
		return 1
	}
	defer ipcServer.Stop()

	if pidPath, err := runtimepath.PIDPath(); err == nil {
		if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o600); err != nil {
			logger.Warn("failed to write pid file", zap.Error(err))
		} else {
			defer os.Remove(pidPath)
		}
	}

	// Reconciliation shares the dispatch lock with actions.
	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: cfg.ReconcileInterval,
		Logger:   logger.Named("reconciler"),
	}, dispatcher)
	go reconciler.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					if err := d.Reload(); err != nil {
						logger.Error("config reload failed", zap.Error(err))
					}
					continue
				}
				logger.Info("shutting down", zap.String("signal", sig.String()))
				cancel()
				backend.Quit()
				return
			}
		}
	}()

	logger.Info("tilewm daemon started", zap.String("socket", ipcServer.SocketPath()))
	backend.EventLoop()
	return 0
}
