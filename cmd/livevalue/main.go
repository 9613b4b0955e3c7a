package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/livevalue/config"
	"github.com/alejandrodnm/livevalue/internal/adapters/httpapi"
	"github.com/alejandrodnm/livevalue/internal/adapters/notify"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one monitoring cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full prediction table per cycle (default: compact 1-line)")
	apiFlag := flag.Bool("api", false, "serve the HTTP control API (overrides config)")
	history := flag.Int("history", 0, "print the N most recent stored predictions and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *apiFlag {
		cfg.API.Enabled = true
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := build(ctx, cfg, *table)
	if err != nil {
		slog.Error("failed to build monitor", "err", err)
		os.Exit(1)
	}
	defer app.close()

	slog.Info("livevalue starting",
		"config", *configPath,
		"simulation_mode", !app.client.Configured(),
		"interval", cfg.PollInterval(),
		"threshold", cfg.Value.Threshold,
		"storage", cfg.Storage.Driver,
		"cache", cfg.Cache.Backend,
		"once", *once,
		"api", cfg.API.Enabled,
	)

	if *history > 0 {
		records, err := app.store.QueryPredictions(ctx, nil, *history)
		if err != nil {
			slog.Error("history query failed", "err", err)
			os.Exit(1)
		}
		notify.NewConsole(true).PrintHistory(records)
		return
	}

	if *once {
		preds, err := app.monitor.RunOnce(ctx)
		if err != nil {
			slog.Error("monitor cycle failed", "err", err)
			os.Exit(1)
		}
		slog.Info("single cycle complete", "predictions", len(preds))
		return
	}

	var srv *http.Server
	if cfg.API.Enabled {
		srv = serveAPI(cfg, app)
	}

	app.monitor.Start()
	<-ctx.Done()

	slog.Info("shutting down")
	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown error", "err", err)
		}
		stop()
	}
	if err := app.monitor.Close(); err != nil {
		slog.Warn("monitor close error", "err", err)
	}

	slog.Info("livevalue stopped cleanly")
}

// serveAPI arranca el servidor HTTP en segundo plano.
func serveAPI(cfg *config.Config, app *application) *http.Server {
	h := httpapi.NewHandler(app.monitor, app.store, func(ctx context.Context) any {
		return app.client.Status(ctx)
	})
	srv := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      httpapi.NewRouter(h, cfg.API.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: httpapi.RequestTimeout + 5*time.Second,
	}

	go func() {
		slog.Info("http api listening", "addr", cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "err", err)
		}
	}()
	return srv
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
