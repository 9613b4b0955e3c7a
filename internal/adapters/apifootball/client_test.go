package apifootball_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrodnm/livevalue/internal/adapters/apifootball"
	"github.com/alejandrodnm/livevalue/internal/adapters/cache"
	"github.com/alejandrodnm/livevalue/internal/adapters/simulator"
	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../../testdata/fixtures/" + name)
	require.NoError(t, err)
	return data
}

func newTestClient(t *testing.T, srv *httptest.Server, rpm int) (*apifootball.Client, *cache.Memory) {
	t.Helper()
	pc := apifootball.DefaultAPIFootball("test-key")
	pc.BaseURL = srv.URL
	pc.RequestsPerMinute = rpm

	responses := cache.NewMemory(5 * time.Minute)
	c, err := apifootball.NewClient(&pc, responses, simulator.New(), apifootball.Options{
		Timeout: 2 * time.Second,
		Retry:   apifootball.RetryPolicy{MaxRetries: 2, BaseWait: time.Millisecond},
	})
	require.NoError(t, err)
	return c, responses
}

func TestLiveFixtures_Success(t *testing.T) {
	data := readFixture(t, "apifootball_live.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fixtures", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("live"))
		assert.Equal(t, "test-key", r.Header.Get("x-apisports-key"))
		assert.Equal(t, "v3.football.api-sports.io", r.Header.Get("x-apisports-host"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, 10)
	fixtures := client.LiveFixtures(context.Background())
	require.Len(t, fixtures, 2)

	f := fixtures[0]
	assert.Equal(t, int64(1035044), f.ID)
	assert.Equal(t, "2H", f.Status.Short)
	assert.Equal(t, 58, f.Status.Elapsed)
	assert.Equal(t, "Flamengo", f.Home.Name)
	assert.Equal(t, int64(121), f.Away.ID)
	assert.Equal(t, domain.Score{Home: 2, Away: 1}, f.Goals)
	assert.Equal(t, domain.Score{Home: 1, Away: 1}, f.HalfTime)
	assert.Equal(t, "Rio de Janeiro", f.Venue.City)
	assert.Equal(t, domain.SourceReal, f.Source)
	assert.Equal(t, 2025, f.Date.Year())

	// elapsed y goals null
	assert.Zero(t, fixtures[1].Status.Elapsed)
	assert.Equal(t, domain.Score{}, fixtures[1].Goals)
}

func TestLiveFixtures_CachedResponseSkipsHTTP(t *testing.T) {
	data := readFixture(t, "apifootball_live.json")
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write(data)
	}))
	defer srv.Close()

	client, responses := newTestClient(t, srv, 10)
	first := client.LiveFixtures(context.Background())
	second := client.LiveFixtures(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, responses.Len(context.Background()))
	assert.Equal(t, 1, client.Status(context.Background()).RequestCounts["api-football"])
}

func TestLiveFixtures_EmptyResponseIsNotFallback(t *testing.T) {
	data := readFixture(t, "apifootball_empty.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, 10)
	assert.Empty(t, client.LiveFixtures(context.Background()))
}

func TestLiveFixtures_ServerErrorFallsBackToSimulator(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, responses := newTestClient(t, srv, 10)
	fixtures := client.LiveFixtures(context.Background())

	require.Len(t, fixtures, 3)
	assert.Equal(t, int64(12345), fixtures[0].ID)
	assert.Equal(t, domain.SourceSimulated, fixtures[0].Source)
	assert.Equal(t, int32(3), calls.Load(), "1 intento + 2 reintentos")
	assert.Zero(t, responses.Len(context.Background()), "los fallos no se cachean")
}

func TestLiveFixtures_ZeroRetriesConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	pc := apifootball.DefaultAPIFootball("test-key")
	pc.BaseURL = srv.URL
	client, err := apifootball.NewClient(&pc, nil, nil, apifootball.Options{
		Retry: apifootball.RetryPolicy{MaxRetries: 0, BaseWait: time.Millisecond},
	})
	require.NoError(t, err)

	fixtures := client.LiveFixtures(context.Background())
	assert.Equal(t, domain.SourceSimulated, fixtures[0].Source)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLiveFixtures_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, 10)
	fixtures := client.LiveFixtures(context.Background())

	assert.Equal(t, domain.SourceSimulated, fixtures[0].Source)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLiveFixtures_ProviderErrorsFallBack(t *testing.T) {
	data := readFixture(t, "apifootball_errors.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	client, responses := newTestClient(t, srv, 10)
	fixtures := client.LiveFixtures(context.Background())

	require.Len(t, fixtures, 3)
	assert.Equal(t, domain.SourceSimulated, fixtures[0].Source)
	assert.Zero(t, responses.Len(context.Background()))
}

func TestLiveFixtures_MalformedBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "nope"`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, 10)
	fixtures := client.LiveFixtures(context.Background())
	assert.Equal(t, domain.SourceSimulated, fixtures[0].Source)
}

func TestQuotaDenied_FallsBackWithoutHTTP(t *testing.T) {
	data := readFixture(t, "apifootball_odds.json")
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write(data)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, 1)
	ctx := context.Background()

	live := client.FixtureOdds(ctx, 1035044)
	require.NotEmpty(t, live)
	assert.Equal(t, domain.SourceReal, live[0].Source)

	// otro fixture → cache miss → cuota agotada
	fallback := client.FixtureOdds(ctx, 12345)
	require.Len(t, fallback, 1)
	assert.Equal(t, domain.SourceSimulated, fallback[0].Source)
	assert.Equal(t, simulator.New().Odds(12345), fallback)

	assert.Equal(t, int32(1), calls.Load())
}

func TestFixtureStatistics_Success(t *testing.T) {
	data := readFixture(t, "apifootball_statistics.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fixtures/statistics", r.URL.Path)
		assert.Equal(t, "1035044", r.URL.Query().Get("fixture"))
		w.Write(data)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, 10)
	stats := client.FixtureStatistics(context.Background(), 1035044)
	require.Len(t, stats, 2)

	f := domain.Fixture{Statistics: stats}
	shots, ok := f.StatFor(127, domain.StatShotsOnGoal)
	require.True(t, ok)
	assert.Equal(t, 6, shots)

	poss, ok := f.StatFor(121, domain.StatPossession)
	require.True(t, ok)
	assert.Equal(t, 42, poss)

	_, ok = f.StatFor(127, domain.StatRedCards)
	assert.False(t, ok)
}

func TestFixtureOdds_MapsAllBookmakers(t *testing.T) {
	data := readFixture(t, "apifootball_odds.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/odds", r.URL.Path)
		w.Write(data)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv, 10)
	odds := client.FixtureOdds(context.Background(), 1035044)
	require.Len(t, odds, 2)
	assert.Equal(t, "Bet365", odds[0].Bookmaker.Name)
	assert.Equal(t, "1xBet", odds[1].Bookmaker.Name)
	assert.Equal(t, "1.5", odds[1].Bets[0].Values[0].Odd, "cuota numérica normalizada a texto")

	markets := domain.ExtractMarketOdds(odds)
	assert.InDelta(t, 1.45, markets[domain.MarketHomeWin], 1e-9)
	assert.InDelta(t, 1.30, markets[domain.MarketOver25], 1e-9)
	assert.InDelta(t, 1.50, markets[domain.MarketBTTS], 1e-9)
}

func TestFixtureOdds_MalformedOutcomesSkipped(t *testing.T) {
	data := readFixture(t, "apifootball_odds_malformed.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	client, responses := newTestClient(t, srv, 10)
	odds := client.FixtureOdds(context.Background(), 1035044)
	require.Len(t, odds, 1)
	assert.Equal(t, domain.SourceReal, odds[0].Source)
	assert.Equal(t, 1, responses.Len(context.Background()))

	markets := domain.ExtractMarketOdds(odds)
	assert.InDelta(t, 2.50, markets[domain.MarketHomeWin], 1e-9)
	assert.InDelta(t, 3.10, markets[domain.MarketAwayWin], 1e-9)
	assert.NotContains(t, markets, domain.MarketDraw)
	assert.NotContains(t, markets, domain.MarketBTTS)
}

func TestSimulationMode(t *testing.T) {
	client, err := apifootball.NewClient(nil, nil, nil, apifootball.Options{})
	require.NoError(t, err)
	assert.False(t, client.Configured())

	ctx := context.Background()
	fixtures := client.LiveFixtures(ctx)
	require.Len(t, fixtures, 3)
	assert.Equal(t, simulator.New().Statistics(12345), client.FixtureStatistics(ctx, 12345))
	assert.Equal(t, simulator.New().Odds(12345), client.FixtureOdds(ctx, 12345))

	st := client.Status(ctx)
	assert.True(t, st.SimulationMode)
	assert.Equal(t, "simulator", st.Provider)
}

func TestNewClient_InvalidProvider(t *testing.T) {
	pc := apifootball.DefaultAPIFootball("k")
	pc.RequestsPerMinute = 0
	_, err := apifootball.NewClient(&pc, nil, nil, apifootball.Options{})
	assert.Error(t, err)

	pc = apifootball.DefaultAPIFootball("k")
	pc.BaseURL = "not a url"
	_, err = apifootball.NewClient(&pc, nil, nil, apifootball.Options{})
	assert.Error(t, err)

	pc = apifootball.DefaultAPIFootball("k")
	pc.Endpoints.FixtureOdds = "odds"
	_, err = apifootball.NewClient(&pc, nil, nil, apifootball.Options{})
	assert.Error(t, err)
}

func TestPurgeExpired_DelegatesToCache(t *testing.T) {
	data := readFixture(t, "apifootball_empty.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	now := time.Now()
	clock := func() time.Time { return now }
	responses := cache.NewMemoryWithClock(time.Minute, clock)

	pc := apifootball.DefaultAPIFootball("k")
	pc.BaseURL = srv.URL
	client, err := apifootball.NewClient(&pc, responses, nil, apifootball.Options{})
	require.NoError(t, err)

	client.LiveFixtures(context.Background())
	require.Equal(t, 1, responses.Len(context.Background()))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, client.PurgeExpired(context.Background()))
	assert.Zero(t, responses.Len(context.Background()))
}
