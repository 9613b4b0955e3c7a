package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Source indica de dónde salen los datos de un fixture u odds.
type Source string

const (
	SourceReal      Source = "real"
	SourceSimulated Source = "simulated"
)

// Team identifica un equipo.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// League describe la competición del partido.
type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season,omitempty"`
}

// Venue describe el estadio.
type Venue struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// FixtureStatus es el estado del partido según el proveedor (1H, HT, 2H...).
type FixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed int    `json:"elapsed"`
}

// Score es el marcador actual.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// String devuelve el marcador como "h-a".
func (s Score) String() string {
	return strconv.Itoa(s.Home) + "-" + strconv.Itoa(s.Away)
}

// Fixture es un snapshot normalizado de un partido en vivo.
// Se produce en cada ciclo; no se persiste directamente.
type Fixture struct {
	ID         int64            `json:"id"`
	Date       time.Time        `json:"date"`
	Status     FixtureStatus    `json:"status"`
	Venue      Venue            `json:"venue"`
	League     League           `json:"league"`
	Home       Team             `json:"home"`
	Away       Team             `json:"away"`
	Goals      Score            `json:"goals"`
	HalfTime   Score            `json:"halftime"`
	Statistics []TeamStatistics `json:"statistics,omitempty"`
	Odds       []BookmakerOdds  `json:"odds,omitempty"`
	Source     Source           `json:"source"`
}

// Stat es un valor estadístico crudo del proveedor.
// El valor puede ser número, porcentaje ("55%") o null.
type Stat struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Int interpreta el valor como entero. Porcentajes y strings numéricos se aceptan.
func (s Stat) Int() (int, bool) {
	f, ok := s.Float()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Float interpreta el valor como número.
func (s Stat) Float() (float64, bool) {
	raw := strings.TrimSpace(string(s.Value))
	if raw == "" || raw == "null" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	var str string
	if err := json.Unmarshal(s.Value, &str); err != nil {
		return 0, false
	}
	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Tipos de estadística que usa el resto del sistema.
const (
	StatPossession   = "Ball Possession"
	StatTotalShots   = "Total Shots"
	StatShotsOnGoal  = "Shots on Goal"
	StatCorners      = "Corner Kicks"
	StatFouls        = "Fouls"
	StatYellowCards  = "Yellow Cards"
	StatRedCards     = "Red Cards"
	StatPassAccuracy = "Passes %"
)

// TeamStatistics agrupa las estadísticas de un equipo en un partido.
type TeamStatistics struct {
	Team       Team   `json:"team"`
	Statistics []Stat `json:"statistics"`
}

// Lookup busca una estadística por tipo.
func (ts TeamStatistics) Lookup(statType string) (Stat, bool) {
	for _, s := range ts.Statistics {
		if s.Type == statType {
			return s, true
		}
	}
	return Stat{}, false
}

// StatFor devuelve el valor entero de una estadística para el equipo dado.
func (f Fixture) StatFor(teamID int64, statType string) (int, bool) {
	for _, ts := range f.Statistics {
		if ts.Team.ID != teamID {
			continue
		}
		if s, ok := ts.Lookup(statType); ok {
			return s.Int()
		}
	}
	return 0, false
}

// Bookmaker identifica una casa de apuestas.
type Bookmaker struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OddValue es un outcome con su cuota decimal en formato texto ("2.10").
type OddValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

// Bet es un grupo de mercado ("Match Winner", "Goals Over/Under"...).
type Bet struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Values []OddValue `json:"values"`
}

// BookmakerOdds son las cuotas de una casa para un fixture.
type BookmakerOdds struct {
	Bookmaker Bookmaker `json:"bookmaker"`
	Bets      []Bet     `json:"bets"`
	Source    Source    `json:"source"`
}

// RealOdds devuelve solo las casas que vienen del proveedor real.
func RealOdds(odds []BookmakerOdds) []BookmakerOdds {
	var out []BookmakerOdds
	for _, b := range odds {
		if b.Source == SourceReal {
			out = append(out, b)
		}
	}
	return out
}
