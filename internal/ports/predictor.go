package ports

import (
	"context"

	"github.com/alejandrodnm/livevalue/internal/domain"
)

// Predictor produce las probabilidades base de un partido.
// El modelo concreto es externo; solo importa el rango de salida.
type Predictor interface {
	Predict(ctx context.Context, fixture domain.Fixture) (domain.BaseProbabilities, error)
}

// MatchPredictor produce la predicción completa de un partido, con value bets.
type MatchPredictor interface {
	PredictMatch(ctx context.Context, fixture domain.Fixture) (domain.MatchPrediction, error)
}
