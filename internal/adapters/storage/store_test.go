package storage_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alejandrodnm/livevalue/internal/adapters/simulator"
	"github.com/alejandrodnm/livevalue/internal/adapters/storage"
	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePrediction(fixtureID int64, at time.Time) domain.MatchPrediction {
	return domain.MatchPrediction{
		ID:        "pred-" + at.Format("150405"),
		CycleID:   "cycle-1",
		FixtureID: fixtureID,
		HomeTeam:  "Flamengo",
		AwayTeam:  "Palmeiras",
		League:    "Brasileirão Série A",
		Elapsed:   35,
		Score:     domain.Score{Home: 1, Away: 0},
		Probs: domain.BaseProbabilities{
			HomeWin: 0.62, Draw: 0.25, AwayWin: 0.13, Over25: 0.48, BTTS: 0.41,
			ExpectedHomeGoals: 1.9, ExpectedAwayGoals: 0.7, ExpectedTotalGoals: 2.6, Confidence: 0.72,
		},
		ValueBets: []domain.ValueBet{{
			Market: domain.MarketHomeWin, PredictedProb: 0.62, Odds: 2.4, ImpliedProb: 1 / 2.4,
			Value: 0.488, StakeFraction: 0.348, Recommendation: domain.RecommendationStrongBet,
			Source: domain.OddsSourceSimulated,
		}},
		OddsSource:  domain.OddsSourceSimulated,
		LiveStats:   json.RawMessage(`[{"team":{"id":131}}]`),
		LastUpdated: at,
	}
}

func TestSQLStore_SaveAndQuery(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 5, 1, 19, 35, 0, 123456789, time.UTC)
	p := makePrediction(12345, at)
	require.NoError(t, db.SavePrediction(context.Background(), p))

	records, err := db.QueryPredictions(context.Background(), nil, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Positive(t, r.RowID)
	assert.True(t, at.Equal(r.RecordedAt))
	assert.Equal(t, p.ID, r.ID)
	assert.Equal(t, p.FixtureID, r.FixtureID)
	assert.Equal(t, p.Score, r.Score)
	assert.Equal(t, p.Probs, r.Probs)
	assert.Equal(t, p.ValueBets, r.ValueBets)
	assert.Equal(t, domain.OddsSourceSimulated, r.OddsSource)
	assert.JSONEq(t, string(p.LiveStats), string(r.LiveStats))
}

func TestSQLStore_QueryMostRecentFirstAndLimit(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	base := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)
	// Intercalados para que el orden de inserción no coincida con el temporal.
	require.NoError(t, db.SavePrediction(ctx, makePrediction(1, base.Add(2*time.Minute))))
	require.NoError(t, db.SavePrediction(ctx, makePrediction(2, base)))
	require.NoError(t, db.SavePrediction(ctx, makePrediction(1, base.Add(10*time.Second))))
	require.NoError(t, db.SavePrediction(ctx, makePrediction(1, base.Add(3*time.Minute))))

	all, err := db.QueryPredictions(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].RecordedAt.After(all[i-1].RecordedAt))
	}

	id := int64(1)
	only1, err := db.QueryPredictions(ctx, &id, 2)
	require.NoError(t, err)
	require.Len(t, only1, 2)
	assert.True(t, base.Add(3*time.Minute).Equal(only1[0].RecordedAt))
	assert.True(t, base.Add(2*time.Minute).Equal(only1[1].RecordedAt))
	for _, r := range only1 {
		assert.Equal(t, int64(1), r.FixtureID)
	}
}

func TestSQLStore_SameTimestampNewestRowFirst(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	at := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)
	first := makePrediction(7, at)
	first.ID = "first"
	second := makePrediction(7, at)
	second.ID = "second"
	require.NoError(t, db.SavePrediction(ctx, first))
	require.NoError(t, db.SavePrediction(ctx, second))

	records, err := db.QueryPredictions(ctx, nil, 5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].ID)
}

func TestSQLStore_EmptyValueBetsAndStats(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	p := makePrediction(9, time.Now())
	p.ValueBets = nil
	p.LiveStats = nil
	require.NoError(t, db.SavePrediction(context.Background(), p))

	records, err := db.QueryPredictions(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].ValueBets)
	assert.Nil(t, records[0].LiveStats)
}

func TestSQLStore_SaveLiveSnapshot(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	sim := simulator.New()
	odds := append(sim.Odds(12345), domain.BookmakerOdds{
		Bookmaker: domain.Bookmaker{ID: 11, Name: "1xBet"},
		Bets:      []domain.Bet{{Name: "Match Winner"}},
		Source:    domain.SourceReal,
	})

	ctx := context.Background()
	require.NoError(t, db.SaveLiveSnapshot(ctx, 12345, 35, sim.Statistics(12345), odds))
	require.NoError(t, db.SaveLiveSnapshot(ctx, 12345, 36, nil, nil))

	stats, oddsRows, err := db.CountLiveSnapshots(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, 1, stats)
	assert.Equal(t, 2, oddsRows, "una fila por casa de apuestas")
}

func TestSQLStore_QueryEmpty(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	records, err := db.QueryPredictions(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := storage.Open(context.Background(), "mysql", "x")
	assert.Error(t, err)
}
