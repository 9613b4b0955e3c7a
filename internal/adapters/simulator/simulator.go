// Package simulator genera fixtures, estadísticas y cuotas sintéticas
// deterministas. Es el fallback del cliente cuando no hay proveedor
// configurado o el proveedor no responde.
package simulator

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/alejandrodnm/livevalue/internal/domain"
)

// Offset de semilla para cuotas; las estadísticas usan el fixture id tal cual.
const oddsSeedOffset = 1000

var brasileirao = domain.League{ID: 71, Name: "Brasileirão Série A", Country: "Brazil", Season: 2025}

var (
	flamengo    = domain.Team{ID: 131, Name: "Flamengo"}
	palmeiras   = domain.Team{ID: 124, Name: "Palmeiras"}
	corinthians = domain.Team{ID: 132, Name: "Corinthians"}
	saoPaulo    = domain.Team{ID: 133, Name: "São Paulo"}
	santos      = domain.Team{ID: 134, Name: "Santos"}
)

// builtin son los tres partidos fijos que devuelve el simulador.
var builtin = []domain.Fixture{
	{
		ID:       12345,
		Status:   domain.FixtureStatus{Long: "First Half", Short: "1H", Elapsed: 35},
		Venue:    domain.Venue{Name: "Maracanã", City: "Rio de Janeiro"},
		League:   brasileirao,
		Home:     flamengo,
		Away:     palmeiras,
		Goals:    domain.Score{Home: 1, Away: 0},
		HalfTime: domain.Score{Home: 1, Away: 0},
	},
	{
		ID:       12346,
		Status:   domain.FixtureStatus{Long: "Second Half", Short: "2H", Elapsed: 67},
		Venue:    domain.Venue{Name: "Neo Química Arena", City: "São Paulo"},
		League:   brasileirao,
		Home:     corinthians,
		Away:     saoPaulo,
		Goals:    domain.Score{Home: 2, Away: 1},
		HalfTime: domain.Score{Home: 1, Away: 0},
	},
	{
		ID:     12347,
		Status: domain.FixtureStatus{Long: "First Half", Short: "1H", Elapsed: 25},
		Venue:  domain.Venue{Name: "Allianz Parque", City: "São Paulo"},
		League: brasileirao,
		Home:   palmeiras,
		Away:   santos,
		Goals:  domain.Score{Home: 0, Away: 0},
	},
}

// Simulator es seguro para uso concurrente: no guarda estado mutable.
type Simulator struct {
	now func() time.Time
}

// New crea un simulador con el reloj del sistema.
func New() *Simulator {
	return &Simulator{now: time.Now}
}

// Fixtures devuelve los partidos en vivo simulados.
func (s *Simulator) Fixtures() []domain.Fixture {
	now := s.now().UTC()
	out := make([]domain.Fixture, len(builtin))
	for i, f := range builtin {
		f.Date = now
		f.Source = domain.SourceSimulated
		out[i] = f
	}
	return out
}

// Statistics genera estadísticas reproducibles sembradas con el fixture id.
func (s *Simulator) Statistics(fixtureID int64) []domain.TeamStatistics {
	rng := seeded(fixtureID)

	home, away := s.teams(fixtureID)
	homePossession := between(rng, 40, 70)
	homeShots := between(rng, 5, 20)
	awayShots := between(rng, 5, 20)
	homeOnTarget := int(float64(homeShots) * uniform(rng, 0.3, 0.6))
	awayOnTarget := int(float64(awayShots) * uniform(rng, 0.3, 0.6))
	homeCorners := between(rng, 2, 12)
	awayCorners := between(rng, 2, 12)

	side := func(team domain.Team, possession, shots, onTarget, corners int) domain.TeamStatistics {
		return domain.TeamStatistics{
			Team: team,
			Statistics: []domain.Stat{
				percentStat(domain.StatPossession, possession),
				intStat(domain.StatTotalShots, shots),
				intStat(domain.StatShotsOnGoal, onTarget),
				intStat(domain.StatCorners, corners),
				intStat(domain.StatFouls, between(rng, 5, 20)),
				intStat(domain.StatYellowCards, between(rng, 0, 4)),
				intStat(domain.StatRedCards, 0),
				percentStat(domain.StatPassAccuracy, between(rng, 70, 95)),
			},
		}
	}

	return []domain.TeamStatistics{
		side(home, homePossession, homeShots, homeOnTarget, homeCorners),
		side(away, 100-homePossession, awayShots, awayOnTarget, awayCorners),
	}
}

// Odds genera cuotas reproducibles sembradas con fixture id + 1000.
func (s *Simulator) Odds(fixtureID int64) []domain.BookmakerOdds {
	rng := seeded(fixtureID + oddsSeedOffset)

	home := uniform(rng, 1.5, 4.0)
	draw := uniform(rng, 2.8, 4.5)
	away := uniform(rng, 1.5, 4.0)
	over := uniform(rng, 1.6, 2.5)
	under := uniform(rng, 1.4, 2.2)
	bttsYes := uniform(rng, 1.7, 2.3)
	bttsNo := uniform(rng, 1.5, 2.1)

	return []domain.BookmakerOdds{{
		Bookmaker: domain.Bookmaker{ID: 1, Name: "Bet365"},
		Source:    domain.SourceSimulated,
		Bets: []domain.Bet{
			{ID: 1, Name: "Match Winner", Values: []domain.OddValue{
				{Value: "Home", Odd: odd(home)},
				{Value: "Draw", Odd: odd(draw)},
				{Value: "Away", Odd: odd(away)},
			}},
			{ID: 5, Name: "Goals Over/Under", Values: []domain.OddValue{
				{Value: "Over 2.5", Odd: odd(over)},
				{Value: "Under 2.5", Odd: odd(under)},
			}},
			{ID: 8, Name: "Both Teams Score", Values: []domain.OddValue{
				{Value: "Yes", Odd: odd(bttsYes)},
				{Value: "No", Odd: odd(bttsNo)},
			}},
		},
	}}
}

func (s *Simulator) teams(fixtureID int64) (home, away domain.Team) {
	for _, f := range builtin {
		if f.ID == fixtureID {
			return f.Home, f.Away
		}
	}
	return domain.Team{ID: 131, Name: "Home Team"}, domain.Team{ID: 124, Name: "Away Team"}
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// between devuelve un entero en [lo, hi).
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func odd(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func intStat(statType string, v int) domain.Stat {
	return domain.Stat{Type: statType, Value: json.RawMessage(strconv.Itoa(v))}
}

func percentStat(statType string, v int) domain.Stat {
	raw, _ := json.Marshal(fmt.Sprintf("%d%%", v))
	return domain.Stat{Type: statType, Value: raw}
}
