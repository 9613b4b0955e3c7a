package ports

import (
	"context"

	"github.com/alejandrodnm/livevalue/internal/domain"
)

// Notifier presenta las predicciones de un ciclo al usuario.
type Notifier interface {
	Notify(ctx context.Context, predictions []domain.MatchPrediction) error
}

// Alerter emite una señal por cada value bet STRONG_BET.
type Alerter interface {
	Alert(ctx context.Context, prediction domain.MatchPrediction, bet domain.ValueBet) error
}
