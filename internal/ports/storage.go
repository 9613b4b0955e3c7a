package ports

import (
	"context"

	"github.com/alejandrodnm/livevalue/internal/domain"
)

// Store persiste predicciones y snapshots en vivo. Solo inserta; nunca actualiza ni borra.
type Store interface {
	// SavePrediction inserta una fila de predicción.
	SavePrediction(ctx context.Context, p domain.MatchPrediction) error

	// SaveLiveSnapshot inserta las estadísticas y una fila por casa de apuestas.
	SaveLiveSnapshot(ctx context.Context, fixtureID int64, elapsed int, stats []domain.TeamStatistics, odds []domain.BookmakerOdds) error

	// QueryPredictions devuelve las predicciones más recientes primero.
	// fixtureID nil = todos los partidos; limit <= 0 usa el default.
	QueryPredictions(ctx context.Context, fixtureID *int64, limit int) ([]domain.PredictionRecord, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
