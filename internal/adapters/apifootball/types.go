package apifootball

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DTOs raw de API-Football v3. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// envelope es la forma común de todas las respuestas.
// errors llega como [] cuando no hay errores y como objeto cuando los hay.
type envelope[T any] struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response []T             `json:"response"`
}

// hasErrors indica si el proveedor reportó errores (api key inválida, plan, etc.).
func hasErrors(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return false
	}
	return true
}

// --- GET /fixtures?live=all ---

type fixtureItem struct {
	Fixture fixtureInfo `json:"fixture"`
	League  leagueInfo  `json:"league"`
	Teams   struct {
		Home teamInfo `json:"home"`
		Away teamInfo `json:"away"`
	} `json:"teams"`
	Goals goalsInfo `json:"goals"`
	Score struct {
		Halftime goalsInfo `json:"halftime"`
	} `json:"score"`
}

type fixtureInfo struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Venue  struct {
		Name string `json:"name"`
		City string `json:"city"`
	} `json:"venue"`
	Status struct {
		Long    string `json:"long"`
		Short   string `json:"short"`
		Elapsed *int   `json:"elapsed"`
	} `json:"status"`
}

type leagueInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season"`
}

type teamInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// goalsInfo usa punteros porque el proveedor manda null antes del inicio.
type goalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// --- GET /fixtures/statistics?fixture={id} ---

type statisticsItem struct {
	Team       teamInfo `json:"team"`
	Statistics []struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	} `json:"statistics"`
}

// --- GET /odds?fixture={id} ---

type oddsItem struct {
	Fixture struct {
		ID int64 `json:"id"`
	} `json:"fixture"`
	Update     string          `json:"update"`
	Bookmakers []bookmakerInfo `json:"bookmakers"`
}

type bookmakerInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bets []struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Values []struct {
			Value flexString `json:"value"`
			Odd   flexString `json:"odd"`
		} `json:"values"`
	} `json:"bets"`
}

// flexString acepta tanto "2.10" como 2.10 en el JSON. Cualquier otro tipo
// (bool, objeto, array) queda vacío y la cuota se descarta al parsearla.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	*f = ""
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return nil
	}
	if v, err := strconv.ParseFloat(n.String(), 64); err == nil {
		*f = flexString(strconv.FormatFloat(v, 'f', -1, 64))
		return nil
	}
	*f = flexString(n.String())
	return nil
}
