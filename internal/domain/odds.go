package domain

import (
	"math"
	"strconv"
	"strings"
)

// ExtractMarketOdds mapea los grupos de apuestas de las casas a los cinco
// mercados internos. Las casas se recorren en orden y gana la primera cuota
// encontrada para cada mercado. Entradas mal formadas se ignoran.
//
//	"Match Winner" / "Winner"       → Home, Draw, Away
//	"Goals Over/Under" / "Goals"    → "Over 2.5"
//	"Both Teams Score" / "BTTS"     → "Yes"
func ExtractMarketOdds(bookmakers []BookmakerOdds) map[Market]float64 {
	out := make(map[Market]float64, len(Markets))
	set := func(m Market, raw string) {
		if _, ok := out[m]; ok {
			return
		}
		if o, ok := parseOdd(raw); ok {
			out[m] = o
		}
	}

	for _, bm := range bookmakers {
		for _, bet := range bm.Bets {
			switch {
			case strings.Contains(bet.Name, "Match Winner") || strings.Contains(bet.Name, "Winner"):
				for _, v := range bet.Values {
					switch v.Value {
					case "Home":
						set(MarketHomeWin, v.Odd)
					case "Draw":
						set(MarketDraw, v.Odd)
					case "Away":
						set(MarketAwayWin, v.Odd)
					}
				}
			case strings.Contains(bet.Name, "Over/Under") || strings.Contains(bet.Name, "Goals"):
				for _, v := range bet.Values {
					if strings.Contains(v.Value, "Over 2.5") {
						set(MarketOver25, v.Odd)
					}
				}
			case strings.Contains(bet.Name, "Both Teams Score") || strings.Contains(bet.Name, "BTTS"):
				for _, v := range bet.Values {
					if v.Value == "Yes" {
						set(MarketBTTS, v.Odd)
					}
				}
			}
		}
	}
	return out
}

func parseOdd(raw string) (float64, bool) {
	o, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(o) || math.IsInf(o, 0) || o <= 1 {
		return 0, false
	}
	return o, true
}
