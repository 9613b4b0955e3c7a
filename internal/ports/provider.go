package ports

import (
	"context"

	"github.com/alejandrodnm/livevalue/internal/domain"
)

// FixtureProvider obtiene partidos en vivo y sus datos asociados.
// Las implementaciones nunca devuelven error: ante cualquier fallo
// devuelven datos simulados marcados como tales.
type FixtureProvider interface {
	// LiveFixtures devuelve los partidos que se están jugando ahora.
	LiveFixtures(ctx context.Context) []domain.Fixture

	// FixtureStatistics devuelve las estadísticas por equipo, o vacío.
	FixtureStatistics(ctx context.Context, fixtureID int64) []domain.TeamStatistics

	// FixtureOdds devuelve las cuotas por casa de apuestas, o vacío.
	FixtureOdds(ctx context.Context, fixtureID int64) []domain.BookmakerOdds
}

// CacheJanitor libera entradas expiradas al final de cada ciclo.
type CacheJanitor interface {
	PurgeExpired(ctx context.Context) int
}
