package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const topBets = 3

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
	now   func() time.Time
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table, now: time.Now}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table, now: time.Now}
}

// Notify imprime el resumen del ciclo en el modo configurado.
func (c *Console) Notify(_ context.Context, preds []domain.MatchPrediction) error {
	if len(preds) == 0 {
		fmt.Fprintf(c.out, "[%s] no live matches\n", c.now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printFull(preds)
	} else {
		c.printCompact(preds)
	}
	return nil
}

// printCompact imprime una línea por ciclo con los mejores partidos.
func (c *Console) printCompact(preds []domain.MatchPrediction) {
	strong, bets, withReal := countByTier(preds)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d live → strong:%d bets:%d real_odds:%d",
		c.now().Format("15:04:05"), len(preds), strong, bets, withReal)

	shown := 0
	for _, p := range preds {
		if shown >= 4 {
			break
		}
		if len(p.ValueBets) == 0 {
			continue
		}
		best := p.ValueBets[0]
		fmt.Fprintf(&sb, " | %s %s %d' %s@%.2f +%.0f%%",
			compactName(p.HomeTeam+"-"+p.AwayTeam, 25), p.Score, p.Elapsed,
			best.Market, best.Odds, best.Value*100)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime una tabla por ciclo y el detalle de las mejores apuestas.
func (c *Console) printFull(preds []domain.MatchPrediction) {
	strong, bets, withReal := countByTier(preds)
	fmt.Fprintf(c.out, "\n[%s] %d live matches, %d value bets (%d strong), %d with real odds\n",
		c.now().Format("15:04:05"), len(preds), bets, strong, withReal)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Match", "League", "Min", "Score", "1", "X", "2", "O2.5", "BTTS", "Conf", "Odds")
	for i, p := range preds {
		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(p.HomeTeam+" vs "+p.AwayTeam, 36),
			truncate(p.League, 20),
			fmt.Sprintf("%d'", p.Elapsed),
			p.Score.String(),
			pct(p.Probs.HomeWin),
			pct(p.Probs.Draw),
			pct(p.Probs.AwayWin),
			pct(p.Probs.Over25),
			pct(p.Probs.BTTS),
			pct(p.Probs.Confidence),
			string(p.OddsSource),
		)
	}
	table.Render()

	c.printTopBets(preds)
}

// printTopBets imprime las 3 mejores value bets de cada partido.
func (c *Console) printTopBets(preds []domain.MatchPrediction) {
	printed := false
	for _, p := range preds {
		if len(p.ValueBets) == 0 {
			continue
		}
		if !printed {
			fmt.Fprintln(c.out, "\n=== VALUE BETS (top 3 per match) ===")
			printed = true
		}
		fmt.Fprintf(c.out, "  %s vs %s (%s, %d')\n", p.HomeTeam, p.AwayTeam, p.Score, p.Elapsed)
		for i, vb := range p.ValueBets {
			if i >= topBets {
				break
			}
			fmt.Fprintf(c.out, "    %-10s %-9s odds:%.2f  p:%s  implied:%s  value:%+.1f%%  kelly:%.1f%%  [%s]\n",
				vb.Recommendation, vb.Market, vb.Odds, pct(vb.PredictedProb), pct(vb.ImpliedProb),
				vb.Value*100, vb.StakeFraction*100, vb.Source)
		}
	}
	if !printed {
		fmt.Fprintf(c.out, "\n  no value bets above threshold\n")
	}
	fmt.Fprintln(c.out)
}

// PrintHistory imprime predicciones persistidas, la más reciente primero.
func (c *Console) PrintHistory(records []domain.PredictionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "no stored predictions")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Recorded", "Fixture", "Match", "Min", "Score", "Best bet", "Value", "Tier", "Odds")
	for _, r := range records {
		best, value, tier := "-", "-", "-"
		if len(r.ValueBets) > 0 {
			vb := r.ValueBets[0]
			best = fmt.Sprintf("%s@%.2f", vb.Market, vb.Odds)
			value = fmt.Sprintf("%+.1f%%", vb.Value*100)
			tier = string(vb.Recommendation)
		}
		table.Append(
			r.RecordedAt.Local().Format("01-02 15:04:05"),
			fmt.Sprintf("%d", r.FixtureID),
			truncate(r.HomeTeam+" vs "+r.AwayTeam, 36),
			fmt.Sprintf("%d'", r.Elapsed),
			r.Score.String(),
			best,
			value,
			tier,
			string(r.OddsSource),
		)
	}
	table.Render()
}

// --- helpers ---

func countByTier(preds []domain.MatchPrediction) (strong, bets, withReal int) {
	for _, p := range preds {
		bets += len(p.ValueBets)
		strong += len(p.StrongBets())
		if p.OddsSource == domain.OddsSourceReal {
			withReal++
		}
	}
	return
}

func pct(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// compactName quita espacios y recorta para la línea compacta.
func compactName(s string, maxLen int) string {
	s = strings.ReplaceAll(s, " ", "")
	return truncate(s, maxLen)
}
