package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/alejandrodnm/livevalue/internal/ports"
)

// ErrClosed se devuelve al operar sobre un monitor ya cerrado.
var ErrClosed = errors.New("monitor: closed")

// Config contiene la cadencia y los límites del loop.
type Config struct {
	Interval      time.Duration // espera entre ciclos correctos
	ErrorBackoff  time.Duration // espera tras un ciclo fallido
	CycleTimeout  time.Duration // presupuesto total de un ciclo
	HistoryLimit  int           // máximo de predicciones en memoria (FIFO)
	StaleAfter    time.Duration // 0 = nunca se descartan partidos activos
	EnrichWorkers int           // goroutines para stats+odds (<=1 = secuencial)
}

// DefaultConfig devuelve 30s de intervalo, 5s de backoff e historial de 1000.
func DefaultConfig() Config {
	return Config{
		Interval:      30 * time.Second,
		ErrorBackoff:  5 * time.Second,
		CycleTimeout:  2 * time.Minute,
		HistoryLimit:  1000,
		StaleAfter:    10 * time.Minute,
		EnrichWorkers: 1,
	}
}

func (c *Config) setDefaults() {
	d := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = d.ErrorBackoff
	}
	if c.CycleTimeout <= 0 {
		c.CycleTimeout = d.CycleTimeout
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	if c.EnrichWorkers <= 0 {
		c.EnrichWorkers = d.EnrichWorkers
	}
}

// Monitor es el servicio de monitorización en vivo.
// Un único worker escribe el estado compartido; los lectores reciben copias.
type Monitor struct {
	cfg       Config
	provider  ports.FixtureProvider
	predictor ports.MatchPredictor
	store     ports.Store
	alerter   ports.Alerter
	notifier  ports.Notifier
	janitor   ports.CacheJanitor
	now       func() time.Time

	// lifecycle serializa Start/Stop/Close; running se lee sin bloquear.
	lifecycle sync.Mutex
	stopCh    chan struct{}
	done      chan struct{}
	closed    bool
	running   atomic.Bool

	cycleMu sync.Mutex

	mu      sync.RWMutex
	active  map[int64]domain.MatchPrediction
	history []domain.MatchPrediction
}

// New crea un Monitor parado. store, alerter, notifier y janitor pueden ser nil.
func New(
	cfg Config,
	provider ports.FixtureProvider,
	predictor ports.MatchPredictor,
	store ports.Store,
	alerter ports.Alerter,
	notifier ports.Notifier,
	janitor ports.CacheJanitor,
) *Monitor {
	cfg.setDefaults()
	return &Monitor{
		cfg:       cfg,
		provider:  provider,
		predictor: predictor,
		store:     store,
		alerter:   alerter,
		notifier:  notifier,
		janitor:   janitor,
		now:       time.Now,
		active:    make(map[int64]domain.MatchPrediction),
	}
}

// WithClock reemplaza el reloj usado para descartar partidos inactivos.
func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.now = now
	return m
}

// Start lanza el worker en segundo plano. Devuelve false si ya estaba
// corriendo o si el monitor está cerrado.
func (m *Monitor) Start() bool {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.closed {
		slog.Warn("monitor closed, not starting")
		return false
	}
	if m.done != nil {
		slog.Info("monitor already running")
		return false
	}

	m.stopCh = make(chan struct{})
	m.done = make(chan struct{})
	m.running.Store(true)
	go m.loop(m.stopCh, m.done)

	slog.Info("monitor started",
		"interval", m.cfg.Interval,
		"error_backoff", m.cfg.ErrorBackoff,
		"history_limit", m.cfg.HistoryLimit,
		"workers", m.cfg.EnrichWorkers,
	)
	return true
}

// Stop pide al worker que pare y espera a que termine el ciclo en curso.
// Devuelve false si no estaba corriendo.
func (m *Monitor) Stop() bool {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	return m.stopLocked()
}

func (m *Monitor) stopLocked() bool {
	if m.done == nil {
		return false
	}
	close(m.stopCh)
	<-m.done
	m.stopCh, m.done = nil, nil
	m.running.Store(false)
	slog.Info("monitor stopped")
	return true
}

// IsRunning indica si el worker está activo.
func (m *Monitor) IsRunning() bool {
	return m.running.Load()
}

// Close para el worker si corre y deja el monitor inutilizable.
// Llamadas sucesivas no hacen nada.
func (m *Monitor) Close() error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.closed {
		return nil
	}
	m.stopLocked()
	m.closed = true
	return nil
}

func (m *Monitor) isClosed() bool {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	return m.closed
}

// loop ejecuta ciclos hasta que stop se cierre. El flag se comprueba entre
// ciclos y durante la espera; un ciclo en curso nunca se interrumpe.
func (m *Monitor) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		wait := m.cfg.Interval
		if _, err := m.runCycle(context.Background()); err != nil {
			slog.Error("monitor cycle failed", "err", err, "backoff", m.cfg.ErrorBackoff)
			wait = m.cfg.ErrorBackoff
		}

		timer := time.NewTimer(wait)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// RunOnce ejecuta un ciclo completo de forma síncrona y devuelve sus predicciones.
func (m *Monitor) RunOnce(ctx context.Context) ([]domain.MatchPrediction, error) {
	if m.isClosed() {
		return nil, ErrClosed
	}
	return m.runCycle(ctx)
}

// ActiveMatches devuelve una copia de la última predicción por fixture.
func (m *Monitor) ActiveMatches() map[int64]domain.MatchPrediction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int64]domain.MatchPrediction, len(m.active))
	for id, p := range m.active {
		out[id] = p.Clone()
	}
	return out
}

// History devuelve las últimas limit predicciones, la más reciente al final.
// limit <= 0 devuelve todo el historial en memoria.
func (m *Monitor) History(limit int) []domain.MatchPrediction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(m.history) {
		start = len(m.history) - limit
	}
	out := make([]domain.MatchPrediction, 0, len(m.history)-start)
	for _, p := range m.history[start:] {
		out = append(out, p.Clone())
	}
	return out
}

// LiveMatches refresca los partidos en vivo fuera de la cadencia del loop:
// obtiene fixtures, los enriquece y persiste el snapshot de cada uno.
func (m *Monitor) LiveMatches(ctx context.Context) []domain.Fixture {
	fixtures := m.provider.LiveFixtures(ctx)
	fixtures = enrichConcurrent(ctx, m.provider, fixtures, m.cfg.EnrichWorkers)
	for _, f := range fixtures {
		m.saveSnapshot(ctx, f)
	}
	return fixtures
}
