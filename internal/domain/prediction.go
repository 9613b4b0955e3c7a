package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Market identifica uno de los cinco mercados que evalúa el motor.
type Market string

const (
	MarketHomeWin Market = "home_win"
	MarketDraw    Market = "draw"
	MarketAwayWin Market = "away_win"
	MarketOver25  Market = "over_2_5"
	MarketBTTS    Market = "btts"
)

// Markets es el orden canónico de mercados; se usa para desempatar.
var Markets = []Market{MarketHomeWin, MarketDraw, MarketAwayWin, MarketOver25, MarketBTTS}

func (m Market) rank() int {
	for i, mk := range Markets {
		if mk == m {
			return i
		}
	}
	return len(Markets)
}

// Recommendation es el tier de una value bet.
type Recommendation string

const (
	RecommendationStrongBet Recommendation = "STRONG_BET"
	RecommendationBet       Recommendation = "BET"
	RecommendationConsider  Recommendation = "CONSIDER"
	RecommendationNone      Recommendation = ""
)

// OddsSource es la procedencia de las cuotas usadas para una value bet.
type OddsSource string

const (
	OddsSourceReal      OddsSource = "real_odds"
	OddsSourceSimulated OddsSource = "simulated"
)

// BaseProbabilities es la salida del predictor base.
type BaseProbabilities struct {
	HomeWin            float64 `json:"home_win_prob"`
	Draw               float64 `json:"draw_prob"`
	AwayWin            float64 `json:"away_win_prob"`
	Over25             float64 `json:"over_2_5_prob"`
	BTTS               float64 `json:"btts_prob"`
	ExpectedHomeGoals  float64 `json:"expected_home_goals"`
	ExpectedAwayGoals  float64 `json:"expected_away_goals"`
	ExpectedTotalGoals float64 `json:"expected_total_goals"`
	Confidence         float64 `json:"confidence_score"`
}

// Validate comprueba que las probabilidades sean finitas y estén en [0,1].
func (b BaseProbabilities) Validate() error {
	probs := map[string]float64{
		"home_win": b.HomeWin, "draw": b.Draw, "away_win": b.AwayWin,
		"over_2_5": b.Over25, "btts": b.BTTS, "confidence": b.Confidence,
	}
	for name, p := range probs {
		if !isProbability(p) {
			return fmt.Errorf("domain.BaseProbabilities: %s=%v not in [0,1]", name, p)
		}
	}
	goals := map[string]float64{
		"expected_home_goals":  b.ExpectedHomeGoals,
		"expected_away_goals":  b.ExpectedAwayGoals,
		"expected_total_goals": b.ExpectedTotalGoals,
	}
	for name, g := range goals {
		if math.IsNaN(g) || math.IsInf(g, 0) || g < 0 {
			return fmt.Errorf("domain.BaseProbabilities: %s=%v must be finite and non-negative", name, g)
		}
	}
	return nil
}

// ByMarket devuelve la probabilidad predicha para cada mercado.
func (b BaseProbabilities) ByMarket() map[Market]float64 {
	return map[Market]float64{
		MarketHomeWin: b.HomeWin,
		MarketDraw:    b.Draw,
		MarketAwayWin: b.AwayWin,
		MarketOver25:  b.Over25,
		MarketBTTS:    b.BTTS,
	}
}

func isProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// ValueBet es un mercado con valor esperado positivo frente a la cuota ofrecida.
type ValueBet struct {
	Market         Market         `json:"market"`
	PredictedProb  float64        `json:"predicted_prob"`
	Odds           float64        `json:"odds"`
	ImpliedProb    float64        `json:"implied_prob"`
	Value          float64        `json:"value"`
	StakeFraction  float64        `json:"kelly_fraction"`
	Recommendation Recommendation `json:"recommendation"`
	Source         OddsSource     `json:"source"`
}

// MatchPrediction es la predicción de un fixture en un ciclo concreto.
// Se reemplaza en el ciclo siguiente; nunca se muta una vez persistida.
type MatchPrediction struct {
	ID          string            `json:"id"`
	CycleID     string            `json:"cycle_id"`
	FixtureID   int64             `json:"fixture_id"`
	HomeTeam    string            `json:"home_team"`
	AwayTeam    string            `json:"away_team"`
	League      string            `json:"league"`
	Elapsed     int               `json:"elapsed"`
	Score       Score             `json:"score"`
	Probs       BaseProbabilities `json:"probabilities"`
	ValueBets   []ValueBet        `json:"value_bets"`
	OddsSource  OddsSource        `json:"odds_source"`
	LiveStats   json.RawMessage   `json:"live_stats,omitempty"`
	LastUpdated time.Time         `json:"last_updated"`
}

// StrongBets devuelve las value bets con tier STRONG_BET.
func (p MatchPrediction) StrongBets() []ValueBet {
	var out []ValueBet
	for _, vb := range p.ValueBets {
		if vb.Recommendation == RecommendationStrongBet {
			out = append(out, vb)
		}
	}
	return out
}

// Clone devuelve una copia que no comparte slices con el original.
func (p MatchPrediction) Clone() MatchPrediction {
	c := p
	if p.ValueBets != nil {
		c.ValueBets = append([]ValueBet(nil), p.ValueBets...)
	}
	if p.LiveStats != nil {
		c.LiveStats = append(json.RawMessage(nil), p.LiveStats...)
	}
	return c
}

// PredictionRecord es una predicción tal como quedó persistida.
type PredictionRecord struct {
	RowID      int64     `json:"row_id"`
	RecordedAt time.Time `json:"recorded_at"`
	MatchPrediction
}
