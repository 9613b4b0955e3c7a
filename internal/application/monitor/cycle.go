package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/google/uuid"
)

// wrapUpTimeout acota notify + cleanup cuando el ciclo agotó su presupuesto.
const wrapUpTimeout = 5 * time.Second

// runCycle ejecuta un ciclo bajo el presupuesto de tiempo configurado.
// Un panic dentro del ciclo se convierte en error.
func (m *Monitor) runCycle(parent context.Context) (preds []domain.MatchPrediction, err error) {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitor.runCycle: panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(parent, m.cfg.CycleTimeout)
	defer cancel()
	ctx = domain.WithCycleID(ctx, uuid.NewString())

	return m.cycle(ctx)
}

// cycle hace fetch → enrich → snapshot → predict → publish → alert → notify → cleanup.
func (m *Monitor) cycle(ctx context.Context) ([]domain.MatchPrediction, error) {
	start := time.Now()
	cycleID := domain.CycleIDFrom(ctx)

	fixtures := m.provider.LiveFixtures(ctx)
	fixtures = enrichConcurrent(ctx, m.provider, fixtures, m.cfg.EnrichWorkers)

	preds := make([]domain.MatchPrediction, 0, len(fixtures))
	strong := 0
	var budgetErr error
	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			budgetErr = fmt.Errorf("monitor.cycle: %d/%d fixtures done: %w", len(preds), len(fixtures), err)
			break
		}

		m.saveSnapshot(ctx, f)

		p, err := m.predictor.PredictMatch(ctx, f)
		if err != nil {
			slog.Warn("prediction failed", "fixture_id", f.ID, "err", err)
			continue
		}
		m.publish(p)
		strong += m.emitStrongAlerts(ctx, p)
		preds = append(preds, p)
	}

	// Con el presupuesto agotado, el cierre del ciclo corre con un contexto propio.
	tailCtx := ctx
	if budgetErr != nil {
		var cancel context.CancelFunc
		tailCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), wrapUpTimeout)
		defer cancel()
	}

	if m.notifier != nil {
		if err := m.notifier.Notify(tailCtx, preds); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	purged, pruned := m.cleanup(tailCtx)

	if budgetErr != nil {
		slog.Warn("monitor cycle over budget",
			"cycle_id", cycleID,
			"fixtures", len(fixtures),
			"predictions", len(preds),
			"cache_purged", purged,
			"stale_pruned", pruned,
			"duration", time.Since(start).Round(time.Millisecond),
		)
		return preds, budgetErr
	}

	slog.Info("monitor cycle complete",
		"cycle_id", cycleID,
		"fixtures", len(fixtures),
		"predictions", len(preds),
		"strong_bets", strong,
		"cache_purged", purged,
		"stale_pruned", pruned,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return preds, nil
}

func (m *Monitor) saveSnapshot(ctx context.Context, f domain.Fixture) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveLiveSnapshot(ctx, f.ID, f.Status.Elapsed, f.Statistics, f.Odds); err != nil {
		slog.Warn("persist live snapshot failed", "fixture_id", f.ID, "err", err)
	}
}

// publish reemplaza la entrada activa del fixture y la añade al historial.
func (m *Monitor) publish(p domain.MatchPrediction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active[p.FixtureID] = p
	m.history = append(m.history, p)
	if over := len(m.history) - m.cfg.HistoryLimit; over > 0 {
		m.history = append([]domain.MatchPrediction(nil), m.history[over:]...)
	}
}

// emitStrongAlerts avisa de cada STRONG_BET y devuelve cuántas hubo.
func (m *Monitor) emitStrongAlerts(ctx context.Context, p domain.MatchPrediction) int {
	bets := p.StrongBets()
	if m.alerter == nil {
		return len(bets)
	}
	for _, vb := range bets {
		if err := m.alerter.Alert(ctx, p, vb); err != nil {
			slog.Warn("alert failed", "fixture_id", p.FixtureID, "market", vb.Market, "err", err)
		}
	}
	return len(bets)
}

// cleanup purga el cache y descarta partidos que no se han refrescado.
func (m *Monitor) cleanup(ctx context.Context) (purged, pruned int) {
	if m.janitor != nil {
		purged = m.janitor.PurgeExpired(ctx)
	}
	if m.cfg.StaleAfter <= 0 {
		return purged, 0
	}

	cutoff := m.now().Add(-m.cfg.StaleAfter)
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.active {
		if p.LastUpdated.Before(cutoff) {
			delete(m.active, id)
			pruned++
		}
	}
	return purged, pruned
}
