package simulator_test

import (
	"testing"

	"github.com/alejandrodnm/livevalue/internal/adapters/simulator"
	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtures_Builtin(t *testing.T) {
	fixtures := simulator.New().Fixtures()
	require.Len(t, fixtures, 3)

	f := fixtures[0]
	assert.Equal(t, int64(12345), f.ID)
	assert.Equal(t, 35, f.Status.Elapsed)
	assert.Equal(t, "1H", f.Status.Short)
	assert.Equal(t, domain.Score{Home: 1, Away: 0}, f.Goals)
	assert.Equal(t, "Flamengo", f.Home.Name)
	assert.Equal(t, "Palmeiras", f.Away.Name)
	assert.Equal(t, "Maracanã", f.Venue.Name)
	assert.Equal(t, int64(71), f.League.ID)
	assert.Equal(t, domain.SourceSimulated, f.Source)

	assert.Equal(t, int64(12346), fixtures[1].ID)
	assert.Equal(t, domain.Score{Home: 2, Away: 1}, fixtures[1].Goals)
	assert.Equal(t, int64(12347), fixtures[2].ID)
	assert.Equal(t, 25, fixtures[2].Status.Elapsed)
}

func TestStatistics_Reproducible(t *testing.T) {
	a := simulator.New().Statistics(12345)
	b := simulator.New().Statistics(12345)
	assert.Equal(t, a, b)

	c := simulator.New().Statistics(12346)
	assert.NotEqual(t, a, c)
}

func TestStatistics_Ranges(t *testing.T) {
	for id := int64(1); id <= 200; id++ {
		stats := simulator.New().Statistics(id)
		require.Len(t, stats, 2)

		hp, ok := stats[0].Lookup(domain.StatPossession)
		require.True(t, ok)
		ap, _ := stats[1].Lookup(domain.StatPossession)
		home, _ := hp.Int()
		away, _ := ap.Int()
		assert.Equal(t, 100, home+away)
		assert.GreaterOrEqual(t, home, 40)
		assert.Less(t, home, 70)

		for _, side := range stats {
			shots, _ := side.Lookup(domain.StatTotalShots)
			onGoal, _ := side.Lookup(domain.StatShotsOnGoal)
			s, _ := shots.Int()
			g, _ := onGoal.Int()
			assert.GreaterOrEqual(t, s, 5)
			assert.Less(t, s, 20)
			assert.LessOrEqual(t, g, s)

			red, _ := side.Lookup(domain.StatRedCards)
			r, _ := red.Int()
			assert.Zero(t, r)
		}
	}
}

func TestStatistics_UsesBuiltinTeams(t *testing.T) {
	stats := simulator.New().Statistics(12346)
	assert.Equal(t, "Corinthians", stats[0].Team.Name)
	assert.Equal(t, "São Paulo", stats[1].Team.Name)
}

func TestOdds_ReproducibleAndMapped(t *testing.T) {
	a := simulator.New().Odds(12345)
	b := simulator.New().Odds(12345)
	require.Equal(t, a, b)
	require.Len(t, a, 1)
	assert.Equal(t, "Bet365", a[0].Bookmaker.Name)
	assert.Equal(t, domain.SourceSimulated, a[0].Source)

	markets := domain.ExtractMarketOdds(a)
	require.Len(t, markets, 5)
	assert.GreaterOrEqual(t, markets[domain.MarketHomeWin], 1.5)
	assert.LessOrEqual(t, markets[domain.MarketHomeWin], 4.0)
	assert.GreaterOrEqual(t, markets[domain.MarketDraw], 2.8)
	assert.LessOrEqual(t, markets[domain.MarketDraw], 4.5)
	assert.GreaterOrEqual(t, markets[domain.MarketOver25], 1.6)
	assert.LessOrEqual(t, markets[domain.MarketOver25], 2.5)
	assert.GreaterOrEqual(t, markets[domain.MarketBTTS], 1.7)
	assert.LessOrEqual(t, markets[domain.MarketBTTS], 2.3)
}

func TestOdds_DifferPerFixture(t *testing.T) {
	assert.NotEqual(t, simulator.New().Odds(12345), simulator.New().Odds(12346))
}
