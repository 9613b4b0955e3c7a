package prediction

// enhanced.go — decorador sobre el predictor base.
//
// El predictor base solo da probabilidades. Enhanced añade lo demás:
// value bets con cuotas simuladas como baseline, reemplazo por cuotas reales
// cuando las hay, y persistencia de la predicción resultante.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/livevalue/internal/application/valuebet"
	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/alejandrodnm/livevalue/internal/ports"
	"github.com/google/uuid"
)

// BaselineOdds genera cuotas de referencia para un fixture.
// El simulador determinista la satisface.
type BaselineOdds interface {
	Odds(fixtureID int64) []domain.BookmakerOdds
}

// Enhanced implementa ports.MatchPredictor componiendo un ports.Predictor.
type Enhanced struct {
	base     ports.Predictor
	engine   *valuebet.Engine
	baseline BaselineOdds
	store    ports.Store // nil = sin persistencia
	now      func() time.Time
}

// NewEnhanced compone el predictor base con el motor de value bets.
func NewEnhanced(base ports.Predictor, engine *valuebet.Engine, baseline BaselineOdds, store ports.Store) *Enhanced {
	return &Enhanced{
		base:     base,
		engine:   engine,
		baseline: baseline,
		store:    store,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj usado para LastUpdated. Útil en tests.
func (e *Enhanced) WithClock(now func() time.Time) *Enhanced {
	e.now = now
	return e
}

// PredictMatch devuelve la predicción completa de un fixture.
// Un fallo del predictor base o probabilidades fuera de rango son error;
// un fallo al persistir solo se registra.
func (e *Enhanced) PredictMatch(ctx context.Context, f domain.Fixture) (domain.MatchPrediction, error) {
	probs, err := e.base.Predict(ctx, f)
	if err != nil {
		return domain.MatchPrediction{}, fmt.Errorf("prediction.PredictMatch: fixture %d: %w", f.ID, err)
	}
	if err := probs.Validate(); err != nil {
		return domain.MatchPrediction{}, fmt.Errorf("prediction.PredictMatch: fixture %d: %w", f.ID, err)
	}

	p := domain.MatchPrediction{
		ID:          uuid.NewString(),
		CycleID:     domain.CycleIDFrom(ctx),
		FixtureID:   f.ID,
		HomeTeam:    f.Home.Name,
		AwayTeam:    f.Away.Name,
		League:      f.League.Name,
		Elapsed:     f.Status.Elapsed,
		Score:       f.Goals,
		Probs:       probs,
		OddsSource:  domain.OddsSourceSimulated,
		LastUpdated: e.now().UTC(),
	}
	if len(f.Statistics) > 0 {
		if raw, err := json.Marshal(f.Statistics); err == nil {
			p.LiveStats = raw
		} else {
			slog.Debug("encode live stats failed", "fixture_id", f.ID, "err", err)
		}
	}

	if e.baseline != nil {
		p.ValueBets = e.engine.ComputeFromBookmakers(probs, e.baseline.Odds(f.ID), domain.OddsSourceSimulated)
	}
	p = e.engine.Enhance(p, f.Odds)

	if e.store != nil {
		if err := e.store.SavePrediction(ctx, p); err != nil {
			slog.Warn("persist prediction failed", "fixture_id", f.ID, "err", err)
		}
	}
	return p, nil
}
