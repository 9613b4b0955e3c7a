// Package predictor contiene el predictor base incluido por defecto: un modelo
// Poisson in-play que proyecta los goles restantes a partir del marcador,
// el minuto y los tiros a puerta en vivo.
package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/alejandrodnm/livevalue/internal/domain"
)

const (
	regulationMinutes = 90
	stoppageMinutes   = 4
	maxExtraGoals     = 10

	// Referencia: tiros a puerta por equipo en 90 minutos.
	baselineShotsOnGoal = 4.5
)

// Config contiene las tasas de gol pre-partido por 90 minutos.
type Config struct {
	HomeGoalRate float64
	AwayGoalRate float64
}

// DefaultConfig son los promedios de liga para local y visitante.
func DefaultConfig() Config {
	return Config{HomeGoalRate: 1.45, AwayGoalRate: 1.15}
}

// Poisson implementa ports.Predictor.
type Poisson struct {
	cfg Config
}

// NewPoisson crea el predictor. Tasas no positivas usan los defaults.
func NewPoisson(cfg Config) *Poisson {
	def := DefaultConfig()
	if cfg.HomeGoalRate <= 0 {
		cfg.HomeGoalRate = def.HomeGoalRate
	}
	if cfg.AwayGoalRate <= 0 {
		cfg.AwayGoalRate = def.AwayGoalRate
	}
	return &Poisson{cfg: cfg}
}

// Predict proyecta el resultado final del partido.
func (p *Poisson) Predict(_ context.Context, f domain.Fixture) (domain.BaseProbabilities, error) {
	elapsed := f.Status.Elapsed
	if elapsed < 0 {
		return domain.BaseProbabilities{}, fmt.Errorf("predictor.Predict: fixture %d: negative elapsed %d", f.ID, elapsed)
	}

	remaining := float64(regulationMinutes+stoppageMinutes-elapsed) / regulationMinutes
	if remaining < 0 {
		remaining = 0
	}

	homeRate := p.cfg.HomeGoalRate * intensity(f, f.Home.ID, elapsed)
	awayRate := p.cfg.AwayGoalRate * intensity(f, f.Away.ID, elapsed)
	muHome := homeRate * remaining
	muAway := awayRate * remaining

	homeProbs := poissonPMF(muHome, maxExtraGoals)
	awayProbs := poissonPMF(muAway, maxExtraGoals)
	matrix := renormalize(outer(homeProbs, awayProbs))

	var out domain.BaseProbabilities
	for i := range matrix {
		for j := range matrix[i] {
			pr := matrix[i][j]
			home := f.Goals.Home + i
			away := f.Goals.Away + j
			switch {
			case home > away:
				out.HomeWin += pr
			case home == away:
				out.Draw += pr
			default:
				out.AwayWin += pr
			}
			if home+away > 2 {
				out.Over25 += pr
			}
			if home > 0 && away > 0 {
				out.BTTS += pr
			}
		}
	}

	out.HomeWin = clamp01(out.HomeWin)
	out.Draw = clamp01(out.Draw)
	out.AwayWin = clamp01(out.AwayWin)
	out.Over25 = clamp01(out.Over25)
	out.BTTS = clamp01(out.BTTS)
	out.ExpectedHomeGoals = float64(f.Goals.Home) + muHome
	out.ExpectedAwayGoals = float64(f.Goals.Away) + muAway
	out.ExpectedTotalGoals = out.ExpectedHomeGoals + out.ExpectedAwayGoals
	out.Confidence = confidence(f, elapsed)

	if err := out.Validate(); err != nil {
		return domain.BaseProbabilities{}, fmt.Errorf("predictor.Predict: fixture %d: %w", f.ID, err)
	}
	return out, nil
}

// intensity escala la tasa de gol por los tiros a puerta observados.
// Sin estadísticas o antes del minuto 10 devuelve 1.
func intensity(f domain.Fixture, teamID int64, elapsed int) float64 {
	if elapsed < 10 {
		return 1
	}
	shots, ok := f.StatFor(teamID, domain.StatShotsOnGoal)
	if !ok {
		return 1
	}
	expected := baselineShotsOnGoal * float64(elapsed) / regulationMinutes
	ratio := float64(shots) / expected
	// Mitad prior, mitad observado, acotado a [0.5, 2].
	return math.Max(0.5, math.Min(2, 0.5+0.5*ratio))
}

// confidence crece con el minuto jugado y si hay estadísticas en vivo.
func confidence(f domain.Fixture, elapsed int) float64 {
	c := 0.5 + 0.35*math.Min(float64(elapsed), regulationMinutes)/regulationMinutes
	if len(f.Statistics) > 0 {
		c += 0.1
	}
	return clamp01(c)
}

// poissonPMF devuelve P(X=k) para k en [0, maxK].
func poissonPMF(lambda float64, maxK int) []float64 {
	probs := make([]float64, maxK+1)
	if lambda <= 0 {
		probs[0] = 1
		return probs
	}
	p := math.Exp(-lambda)
	probs[0] = p
	for k := 1; k <= maxK; k++ {
		p *= lambda / float64(k)
		probs[k] = p
	}
	return probs
}

func outer(home, away []float64) [][]float64 {
	matrix := make([][]float64, len(home))
	for i := range home {
		matrix[i] = make([]float64, len(away))
		for j := range away {
			matrix[i][j] = home[i] * away[j]
		}
	}
	return matrix
}

// renormalize compensa la masa que queda fuera del truncado en maxExtraGoals.
func renormalize(matrix [][]float64) [][]float64 {
	total := 0.0
	for i := range matrix {
		for j := range matrix[i] {
			total += matrix[i][j]
		}
	}
	if total > 0 {
		for i := range matrix {
			for j := range matrix[i] {
				matrix[i][j] /= total
			}
		}
	}
	return matrix
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
