package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/alejandrodnm/livevalue/internal/ports"
)

// LogAlerter emite cada STRONG_BET como WARN en el logger por defecto.
type LogAlerter struct{}

// Alert implementa ports.Alerter.
func (LogAlerter) Alert(_ context.Context, p domain.MatchPrediction, vb domain.ValueBet) error {
	slog.Warn("*** STRONG BET ***",
		"fixture_id", p.FixtureID,
		"match", p.HomeTeam+" vs "+p.AwayTeam,
		"minute", p.Elapsed,
		"score", p.Score.String(),
		"market", vb.Market,
		"odds", fmt.Sprintf("%.2f", vb.Odds),
		"value", fmt.Sprintf("%+.1f%%", vb.Value*100),
		"kelly", fmt.Sprintf("%.1f%%", vb.StakeFraction*100),
		"source", vb.Source,
	)
	return nil
}

// Multi reparte cada alerta entre varios alerters. Un fallo no impide
// entregar al resto; los errores se combinan.
type Multi []ports.Alerter

// Alert implementa ports.Alerter.
func (m Multi) Alert(ctx context.Context, p domain.MatchPrediction, vb domain.ValueBet) error {
	var errs []error
	for _, a := range m {
		if err := a.Alert(ctx, p, vb); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
