package apifootball

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alejandrodnm/livevalue/internal/adapters/cache"
	"github.com/alejandrodnm/livevalue/internal/adapters/simulator"
	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/alejandrodnm/livevalue/internal/ports"
	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrQuotaExceeded: el tracker denegó el request; se usa fallback.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrUpstreamUnavailable: error de red, timeout, no-2xx o errores reportados por el proveedor.
	ErrUpstreamUnavailable = errors.New("provider unavailable")
)

// Options ajusta el comportamiento HTTP del cliente.
type Options struct {
	Timeout time.Duration // por request; 0 = 10s
	Retry   RetryPolicy   // valor cero = DefaultRetryPolicy; MaxRetries 0 con BaseWait > 0 no reintenta
	Now     func() time.Time
}

// Client obtiene datos en vivo del proveedor con cache, cuota y fallback simulado.
// Nunca devuelve error a sus llamadores.
type Client struct {
	provider *ProviderConfig // nil = modo simulación
	http     *http.Client
	retry    RetryPolicy
	cache    ports.ResponseCache
	quota    *QuotaTracker
	sim      *simulator.Simulator

	// Los warnings de fallback se emiten como mucho cada 30s para no inundar el log.
	quotaWarn    rate.Sometimes
	fallbackWarn rate.Sometimes
}

// NewClient crea el cliente. provider nil activa el modo simulación.
func NewClient(provider *ProviderConfig, responses ports.ResponseCache, sim *simulator.Simulator, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retry.MaxRetries == 0 && opts.Retry.BaseWait == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if sim == nil {
		sim = simulator.New()
	}

	c := &Client{
		http:         &http.Client{Timeout: opts.Timeout},
		retry:        opts.Retry,
		cache:        responses,
		sim:          sim,
		quotaWarn:    rate.Sometimes{Interval: 30 * time.Second},
		fallbackWarn: rate.Sometimes{Interval: 30 * time.Second},
	}

	limits := map[string]int{}
	if provider != nil {
		if err := provider.Validate(); err != nil {
			return nil, fmt.Errorf("apifootball.NewClient: %w", err)
		}
		p := provider.clone()
		c.provider = &p
		limits[p.Name] = p.RequestsPerMinute
	}
	c.quota = NewQuotaTrackerWithClock(limits, opts.Now)
	if c.cache == nil {
		c.cache = cache.NewMemory(5 * time.Minute)
	}
	return c, nil
}

// Configured indica si hay un proveedor real; false = modo simulación.
func (c *Client) Configured() bool {
	return c.provider != nil
}

// LiveFixtures devuelve los partidos en vivo. Una respuesta real vacía es válida
// y no dispara el fallback.
func (c *Client) LiveFixtures(ctx context.Context) []domain.Fixture {
	if !c.Configured() {
		return c.sim.Fixtures()
	}
	items, err := get[fixtureItem](ctx, c, c.provider.Endpoints.LiveFixtures, url.Values{"live": {"all"}})
	if err != nil {
		c.warnFallback("live_fixtures", 0, err)
		return c.sim.Fixtures()
	}
	return mapFixtures(items)
}

// FixtureStatistics devuelve las estadísticas del partido.
func (c *Client) FixtureStatistics(ctx context.Context, fixtureID int64) []domain.TeamStatistics {
	if !c.Configured() {
		return c.sim.Statistics(fixtureID)
	}
	items, err := get[statisticsItem](ctx, c, c.provider.Endpoints.FixtureStatistics, fixtureParams(fixtureID))
	if err != nil {
		c.warnFallback("fixture_statistics", fixtureID, err)
		return c.sim.Statistics(fixtureID)
	}
	return mapStatistics(items)
}

// FixtureOdds devuelve las cuotas del partido por casa de apuestas.
func (c *Client) FixtureOdds(ctx context.Context, fixtureID int64) []domain.BookmakerOdds {
	if !c.Configured() {
		return c.sim.Odds(fixtureID)
	}
	items, err := get[oddsItem](ctx, c, c.provider.Endpoints.FixtureOdds, fixtureParams(fixtureID))
	if err != nil {
		c.warnFallback("fixture_odds", fixtureID, err)
		return c.sim.Odds(fixtureID)
	}
	return mapOdds(items)
}

// PurgeExpired elimina las respuestas expiradas de la cache.
func (c *Client) PurgeExpired(ctx context.Context) int {
	return c.cache.PurgeExpired(ctx)
}

// Status es el reporte de estado del cliente.
type Status struct {
	Provider          string         `json:"provider"`
	Configured        bool           `json:"configured"`
	SimulationMode    bool           `json:"simulation_mode"`
	RequestCounts     map[string]int `json:"request_counts"`
	RequestsPerMinute int            `json:"requests_per_minute"`
	RequestsPerDay    int            `json:"requests_per_day"`
	CacheSize         int            `json:"cache_size"`
}

// Status devuelve cuotas consumidas, límites y tamaño de cache.
func (c *Client) Status(ctx context.Context) Status {
	st := Status{
		Provider:       "simulator",
		Configured:     c.Configured(),
		SimulationMode: !c.Configured(),
		RequestCounts:  c.quota.Counts(),
		CacheSize:      c.cache.Len(ctx),
	}
	if c.provider != nil {
		st.Provider = c.provider.Name
		st.RequestsPerMinute = c.provider.RequestsPerMinute
		st.RequestsPerDay = c.provider.RequestsPerDay
	}
	return st
}

// get resuelve un endpoint: cache → cuota → HTTP con reintentos → decode.
// Solo las respuestas válidas se guardan en cache.
func get[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	key := cache.Key(c.provider.Name, endpoint, params)
	if body, ok := c.cache.Get(ctx, key); ok {
		if items, err := decode[T](body); err == nil {
			return items, nil
		}
	}

	if !c.quota.Allow(c.provider.Name) {
		return nil, ErrQuotaExceeded
	}

	target := c.provider.BaseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	body, err := c.retry.Do(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range c.provider.Headers {
			req.Header.Set(k, v)
		}
		return c.http.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrUpstreamUnavailable, endpoint, err)
	}

	items, err := decode[T](body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	c.cache.Put(ctx, key, body)
	return items, nil
}

func decode[T any](body []byte) ([]T, error) {
	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if hasErrors(env.Errors) {
		return nil, fmt.Errorf("%w: provider errors: %s", ErrUpstreamUnavailable, truncate(env.Errors))
	}
	return env.Response, nil
}

func fixtureParams(id int64) url.Values {
	return url.Values{"fixture": {strconv.FormatInt(id, 10)}}
}

func (c *Client) warnFallback(call string, fixtureID int64, err error) {
	if errors.Is(err, ErrQuotaExceeded) {
		slog.Debug("quota denied, using simulated data", "call", call, "fixture_id", fixtureID)
		c.quotaWarn.Do(func() {
			slog.Warn("provider quota exhausted, serving simulated data",
				"provider", c.provider.Name,
				"limit_per_minute", c.provider.RequestsPerMinute,
			)
		})
		return
	}
	slog.Debug("provider call failed, using simulated data", "call", call, "fixture_id", fixtureID, "err", err)
	c.fallbackWarn.Do(func() {
		slog.Warn("provider unavailable, serving simulated data", "call", call, "err", err)
	})
}
