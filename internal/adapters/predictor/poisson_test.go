package predictor_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alejandrodnm/livevalue/internal/adapters/predictor"
	"github.com/alejandrodnm/livevalue/internal/adapters/simulator"
	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureAt(elapsed, home, away int) domain.Fixture {
	return domain.Fixture{
		ID:     1,
		Status: domain.FixtureStatus{Short: "2H", Elapsed: elapsed},
		Home:   domain.Team{ID: 10},
		Away:   domain.Team{ID: 20},
		Goals:  domain.Score{Home: home, Away: away},
	}
}

func TestPoisson_OutcomesSumToOne(t *testing.T) {
	p := predictor.NewPoisson(predictor.DefaultConfig())
	for _, f := range simulator.New().Fixtures() {
		f.Statistics = simulator.New().Statistics(f.ID)
		probs, err := p.Predict(context.Background(), f)
		require.NoError(t, err)
		require.NoError(t, probs.Validate())
		assert.InDelta(t, 1.0, probs.HomeWin+probs.Draw+probs.AwayWin, 1e-9)
	}
}

func TestPoisson_KickOffFavoursHome(t *testing.T) {
	p := predictor.NewPoisson(predictor.DefaultConfig())
	probs, err := p.Predict(context.Background(), fixtureAt(0, 0, 0))
	require.NoError(t, err)

	assert.Greater(t, probs.HomeWin, probs.AwayWin)
	assert.InDelta(t, 2.6, probs.ExpectedTotalGoals, 0.3)
}

func TestPoisson_LateLeadIsNearlyDecided(t *testing.T) {
	p := predictor.NewPoisson(predictor.DefaultConfig())
	probs, err := p.Predict(context.Background(), fixtureAt(88, 3, 0))
	require.NoError(t, err)

	assert.Greater(t, probs.HomeWin, 0.99)
	assert.InDelta(t, 1.0, probs.Over25, 1e-9, "3 goles ya marcados")
	assert.Less(t, probs.BTTS, 0.15)
	assert.GreaterOrEqual(t, probs.ExpectedHomeGoals, 3.0)
}

func TestPoisson_FullTimeIsDeterministic(t *testing.T) {
	p := predictor.NewPoisson(predictor.DefaultConfig())
	probs, err := p.Predict(context.Background(), fixtureAt(120, 1, 1))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, probs.Draw, 1e-9)
	assert.InDelta(t, 1.0, probs.BTTS, 1e-9)
	assert.Zero(t, probs.Over25)
	assert.InDelta(t, 2.0, probs.ExpectedTotalGoals, 1e-9)
}

func TestPoisson_ShotsOnGoalRaiseIntensity(t *testing.T) {
	p := predictor.NewPoisson(predictor.DefaultConfig())

	quiet := fixtureAt(45, 0, 0)
	busy := fixtureAt(45, 0, 0)
	busy.Statistics = []domain.TeamStatistics{
		{Team: domain.Team{ID: 10}, Statistics: []domain.Stat{{Type: domain.StatShotsOnGoal, Value: json.RawMessage(`9`)}}},
	}

	q, err := p.Predict(context.Background(), quiet)
	require.NoError(t, err)
	b, err := p.Predict(context.Background(), busy)
	require.NoError(t, err)

	assert.Greater(t, b.ExpectedHomeGoals, q.ExpectedHomeGoals)
	assert.Greater(t, b.HomeWin, q.HomeWin)
	assert.Greater(t, b.Confidence, q.Confidence)
}

func TestPoisson_NegativeElapsedRejected(t *testing.T) {
	p := predictor.NewPoisson(predictor.Config{})
	_, err := p.Predict(context.Background(), fixtureAt(-1, 0, 0))
	assert.Error(t, err)
}
