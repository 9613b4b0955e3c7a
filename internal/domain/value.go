package domain

// value.go — matemática de value bets.
//
//   value   = p·o − 1
//   implied = 1/o
//   kelly   = (p·b − (1−p)) / b, con b = o − 1, recortado a [0,1]
//
// Tiers por value: ≥0.30 STRONG_BET, ≥0.15 BET, ≥0.05 CONSIDER.

import (
	"math"
	"sort"
)

const (
	StrongBetValue = 0.30
	BetValue       = 0.15
	ConsiderValue  = 0.05
)

// ImpliedProbability devuelve 1/odds, o 0 si la cuota no es válida.
func ImpliedProbability(odds float64) float64 {
	if !validOdds(odds) {
		return 0
	}
	return 1 / odds
}

// ExpectedValue devuelve p·o − 1.
func ExpectedValue(p, odds float64) float64 {
	return p*odds - 1
}

// KellyFraction devuelve la fracción de bankroll de Kelly completo.
// Es 0 siempre que p·o − 1 ≤ 0, aunque el redondeo haya admitido la apuesta.
func KellyFraction(p, odds float64) float64 {
	if !validOdds(odds) || !isProbability(p) {
		return 0
	}
	if ExpectedValue(p, odds) <= 0 {
		return 0
	}
	b := odds - 1
	f := (p*b - (1 - p)) / b
	return clamp01(f)
}

// Recommend asigna el tier según el value. Devuelve RecommendationNone por debajo de CONSIDER.
func Recommend(value float64) Recommendation {
	switch {
	case value >= StrongBetValue:
		return RecommendationStrongBet
	case value >= BetValue:
		return RecommendationBet
	case value >= ConsiderValue:
		return RecommendationConsider
	default:
		return RecommendationNone
	}
}

// ComputeValueBets evalúa cada mercado con cuota disponible y devuelve
// solo los que superan threshold, ordenados por value descendente.
// kellyMultiplier escala la fracción de Kelly (1 = Kelly completo).
// Probabilidades no finitas o fuera de [0,1] y cuotas ≤ 1 se descartan.
func ComputeValueBets(probs, odds map[Market]float64, threshold, kellyMultiplier float64, source OddsSource) []ValueBet {
	bets := make([]ValueBet, 0, len(odds))
	for market, o := range odds {
		p, ok := probs[market]
		if !ok || !isProbability(p) || !validOdds(o) {
			continue
		}
		value := ExpectedValue(p, o)
		if math.IsNaN(value) || math.IsInf(value, 0) || value <= threshold {
			continue
		}
		rec := Recommend(value)
		if rec == RecommendationNone {
			continue
		}
		bets = append(bets, ValueBet{
			Market:         market,
			PredictedProb:  p,
			Odds:           o,
			ImpliedProb:    ImpliedProbability(o),
			Value:          value,
			StakeFraction:  clamp01(KellyFraction(p, o) * kellyMultiplier),
			Recommendation: rec,
			Source:         source,
		})
	}
	SortValueBets(bets)
	return bets
}

// SortValueBets ordena por value descendente; empata por orden canónico de mercado.
func SortValueBets(bets []ValueBet) {
	sort.SliceStable(bets, func(i, j int) bool {
		if bets[i].Value != bets[j].Value {
			return bets[i].Value > bets[j].Value
		}
		return bets[i].Market.rank() < bets[j].Market.rank()
	})
}

func validOdds(o float64) bool {
	return !math.IsNaN(o) && !math.IsInf(o, 0) && o > 1
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
