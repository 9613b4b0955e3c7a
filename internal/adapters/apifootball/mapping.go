package apifootball

import (
	"time"

	"github.com/alejandrodnm/livevalue/internal/domain"
)

// mapFixtures convierte los DTOs de /fixtures a domain.Fixture.
func mapFixtures(raw []fixtureItem) []domain.Fixture {
	fixtures := make([]domain.Fixture, 0, len(raw))
	for _, r := range raw {
		if r.Fixture.ID == 0 {
			continue
		}
		fixtures = append(fixtures, mapFixture(r))
	}
	return fixtures
}

func mapFixture(r fixtureItem) domain.Fixture {
	f := domain.Fixture{
		ID: r.Fixture.ID,
		Status: domain.FixtureStatus{
			Long:  r.Fixture.Status.Long,
			Short: r.Fixture.Status.Short,
		},
		Venue: domain.Venue{Name: r.Fixture.Venue.Name, City: r.Fixture.Venue.City},
		League: domain.League{
			ID:      r.League.ID,
			Name:    r.League.Name,
			Country: r.League.Country,
			Season:  r.League.Season,
		},
		Home:     domain.Team{ID: r.Teams.Home.ID, Name: r.Teams.Home.Name, Logo: r.Teams.Home.Logo},
		Away:     domain.Team{ID: r.Teams.Away.ID, Name: r.Teams.Away.Name, Logo: r.Teams.Away.Logo},
		Goals:    mapGoals(r.Goals),
		HalfTime: mapGoals(r.Score.Halftime),
		Source:   domain.SourceReal,
	}
	if r.Fixture.Status.Elapsed != nil {
		f.Status.Elapsed = *r.Fixture.Status.Elapsed
	}
	if t, err := time.Parse(time.RFC3339, r.Fixture.Date); err == nil {
		f.Date = t.UTC()
	}
	return f
}

func mapGoals(g goalsInfo) domain.Score {
	var s domain.Score
	if g.Home != nil {
		s.Home = *g.Home
	}
	if g.Away != nil {
		s.Away = *g.Away
	}
	return s
}

// mapStatistics convierte los DTOs de /fixtures/statistics.
func mapStatistics(raw []statisticsItem) []domain.TeamStatistics {
	out := make([]domain.TeamStatistics, 0, len(raw))
	for _, r := range raw {
		ts := domain.TeamStatistics{
			Team:       domain.Team{ID: r.Team.ID, Name: r.Team.Name, Logo: r.Team.Logo},
			Statistics: make([]domain.Stat, 0, len(r.Statistics)),
		}
		for _, s := range r.Statistics {
			if s.Type == "" {
				continue
			}
			ts.Statistics = append(ts.Statistics, domain.Stat{Type: s.Type, Value: s.Value})
		}
		out = append(out, ts)
	}
	return out
}

// mapOdds aplana las casas de todos los items de /odds.
func mapOdds(raw []oddsItem) []domain.BookmakerOdds {
	var out []domain.BookmakerOdds
	for _, item := range raw {
		for _, bm := range item.Bookmakers {
			odds := domain.BookmakerOdds{
				Bookmaker: domain.Bookmaker{ID: bm.ID, Name: bm.Name},
				Bets:      make([]domain.Bet, 0, len(bm.Bets)),
				Source:    domain.SourceReal,
			}
			for _, b := range bm.Bets {
				bet := domain.Bet{ID: b.ID, Name: b.Name, Values: make([]domain.OddValue, 0, len(b.Values))}
				for _, v := range b.Values {
					bet.Values = append(bet.Values, domain.OddValue{Value: string(v.Value), Odd: string(v.Odd)})
				}
				odds.Bets = append(odds.Bets, bet)
			}
			out = append(out, odds)
		}
	}
	return out
}
