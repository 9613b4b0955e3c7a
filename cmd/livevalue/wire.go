package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/livevalue/config"
	"github.com/alejandrodnm/livevalue/internal/adapters/apifootball"
	"github.com/alejandrodnm/livevalue/internal/adapters/cache"
	"github.com/alejandrodnm/livevalue/internal/adapters/notify"
	"github.com/alejandrodnm/livevalue/internal/adapters/predictor"
	"github.com/alejandrodnm/livevalue/internal/adapters/simulator"
	"github.com/alejandrodnm/livevalue/internal/adapters/storage"
	"github.com/alejandrodnm/livevalue/internal/application/monitor"
	"github.com/alejandrodnm/livevalue/internal/application/prediction"
	"github.com/alejandrodnm/livevalue/internal/application/valuebet"
	"github.com/alejandrodnm/livevalue/internal/ports"
	"github.com/redis/go-redis/v9"
)

// application agrupa los componentes construidos y lo que hay que cerrar al salir.
type application struct {
	client  *apifootball.Client
	store   *storage.SQLStore
	monitor *monitor.Monitor
	closers []func() error
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("close error", "err", err)
		}
	}
}

// build construye el grafo de dependencias. Cualquier error es fatal para el proceso.
func build(ctx context.Context, cfg *config.Config, table bool) (*application, error) {
	app := &application{}
	sim := simulator.New()

	responses, err := buildCache(ctx, cfg, app)
	if err != nil {
		app.close()
		return nil, err
	}

	var provider *apifootball.ProviderConfig
	if cfg.Provider.APIKey != "" {
		p := apifootball.DefaultAPIFootball(cfg.Provider.APIKey)
		p.BaseURL = cfg.Provider.BaseURL
		p.RequestsPerMinute = cfg.Provider.RequestsPerMinute
		p.RequestsPerDay = cfg.Provider.RequestsPerDay
		provider = &p
	} else {
		slog.Warn("no provider api key configured, running in simulation mode")
	}

	app.client, err = apifootball.NewClient(provider, responses, sim, apifootball.Options{
		Timeout: cfg.RequestTimeout(),
		Retry: apifootball.RetryPolicy{
			MaxRetries: cfg.RetryCount(),
			BaseWait:   cfg.RetryBaseWait(),
		},
	})
	if err != nil {
		app.close()
		return nil, fmt.Errorf("build: provider client: %w", err)
	}

	app.store, err = storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("build: storage: %w", err)
	}
	app.closers = append(app.closers, app.store.Close)

	engine, err := valuebet.New(valuebet.Config{
		Threshold:       cfg.Value.Threshold,
		KellyMultiplier: cfg.Value.KellyMultiplier,
	})
	if err != nil {
		app.close()
		return nil, fmt.Errorf("build: %w", err)
	}

	enhanced := prediction.NewEnhanced(predictor.NewPoisson(predictor.DefaultConfig()), engine, sim, app.store)

	alerter, err := buildAlerter(cfg)
	if err != nil {
		app.close()
		return nil, err
	}

	app.monitor = monitor.New(
		monitor.Config{
			Interval:      cfg.PollInterval(),
			ErrorBackoff:  cfg.ErrorBackoff(),
			CycleTimeout:  cfg.CycleTimeout(),
			HistoryLimit:  cfg.Monitor.HistoryLimit,
			StaleAfter:    cfg.StaleAfter(),
			EnrichWorkers: cfg.Monitor.EnrichWorkers,
		},
		app.client,
		enhanced,
		app.store,
		alerter,
		notify.NewConsole(table),
		app.client,
	)
	return app, nil
}

// buildCache elige el backend de la cache de respuestas.
func buildCache(ctx context.Context, cfg *config.Config, app *application) (ports.ResponseCache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedis(pingCtx, client, cfg.CacheTTL())
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("build: redis cache: %w", err)
		}
		app.closers = append(app.closers, rc.Close)
		return rc, nil
	default:
		return cache.NewMemory(cfg.CacheTTL()), nil
	}
}

// buildAlerter combina el log con Telegram si está habilitado.
func buildAlerter(cfg *config.Config) (ports.Alerter, error) {
	alerters := notify.Multi{notify.LogAlerter{}}
	if cfg.Alerts.TelegramEnabled {
		tg, err := notify.NewTelegram(
			cfg.Alerts.TelegramToken,
			cfg.Alerts.TelegramChatID,
			time.Duration(cfg.Alerts.DedupMinutes)*time.Minute,
		)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		alerters = append(alerters, tg)
		slog.Info("telegram alerts enabled", "chat_id", cfg.Alerts.TelegramChatID)
	}
	return alerters, nil
}
