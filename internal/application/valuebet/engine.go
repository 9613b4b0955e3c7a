package valuebet

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/livevalue/internal/domain"
)

// Config contiene los parámetros del motor.
type Config struct {
	Threshold       float64 // value mínimo (exclusivo) para emitir una apuesta
	KellyMultiplier float64 // fracción de Kelly; 1 = Kelly completo
}

// DefaultConfig devuelve threshold 0.15 y Kelly completo.
func DefaultConfig() Config {
	return Config{Threshold: 0.15, KellyMultiplier: 1}
}

// Engine convierte probabilidades y cuotas en value bets.
type Engine struct {
	cfg Config
}

// New valida la configuración. El threshold debe estar en [0.05, 10) para que
// toda apuesta que lo supere tenga al menos tier CONSIDER.
func New(cfg Config) (*Engine, error) {
	t := cfg.Threshold
	if math.IsNaN(t) || math.IsInf(t, 0) || t < domain.ConsiderValue || t >= 10 {
		return nil, fmt.Errorf("valuebet.New: threshold %v out of range [%.2f, 10)", t, domain.ConsiderValue)
	}
	m := cfg.KellyMultiplier
	if math.IsNaN(m) || m <= 0 || m > 1 {
		return nil, fmt.Errorf("valuebet.New: kelly multiplier %v out of range (0, 1]", m)
	}
	return &Engine{cfg: cfg}, nil
}

// ComputeValueBets evalúa los mercados con cuota contra las probabilidades.
func (e *Engine) ComputeValueBets(probs domain.BaseProbabilities, odds map[domain.Market]float64, source domain.OddsSource) []domain.ValueBet {
	return domain.ComputeValueBets(probs.ByMarket(), odds, e.cfg.Threshold, e.cfg.KellyMultiplier, source)
}

// ComputeFromBookmakers extrae las cuotas de las casas y calcula las value bets.
func (e *Engine) ComputeFromBookmakers(probs domain.BaseProbabilities, bookmakers []domain.BookmakerOdds, source domain.OddsSource) []domain.ValueBet {
	return e.ComputeValueBets(probs, domain.ExtractMarketOdds(bookmakers), source)
}

// Enhance recalcula las value bets con cuotas reales. Si las cuotas son reales
// y mapean al menos un mercado, el conjunto anterior se reemplaza entero;
// si no, la predicción se devuelve sin cambios.
func (e *Engine) Enhance(p domain.MatchPrediction, odds []domain.BookmakerOdds) domain.MatchPrediction {
	markets := domain.ExtractMarketOdds(domain.RealOdds(odds))
	if len(markets) == 0 {
		return p
	}

	out := p.Clone()
	out.ValueBets = e.ComputeValueBets(p.Probs, markets, domain.OddsSourceReal)
	out.OddsSource = domain.OddsSourceReal
	return out
}
