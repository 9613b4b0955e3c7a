package notify

// telegram.go — alertas STRONG_BET por Telegram.
//
// Telegram limita a ~30 mensajes/min por chat; un rate.Limiter espacia los
// envíos y una ventana de dedup evita repetir la misma apuesta en cada ciclo.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alejandrodnm/livevalue/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const telegramSendInterval = 2 * time.Second

// Sender es la parte de *tgbotapi.BotAPI que usa el alerter.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram implementa ports.Alerter.
type Telegram struct {
	bot     Sender
	chatID  int64
	limiter *rate.Limiter
	dedup   time.Duration
	now     func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

// NewTelegram conecta con la Bot API y verifica el token.
func NewTelegram(token string, chatID int64, dedup time.Duration) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: create bot: %w", err)
	}
	bot.Debug = false
	return NewTelegramWithSender(bot, chatID, dedup, rate.Every(telegramSendInterval)), nil
}

// NewTelegramWithSender permite inyectar el cliente y el ritmo de envío.
func NewTelegramWithSender(bot Sender, chatID int64, dedup time.Duration, limit rate.Limit) *Telegram {
	return &Telegram{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(limit, 1),
		dedup:   dedup,
		now:     time.Now,
		sent:    make(map[string]time.Time),
	}
}

// Alert envía la apuesta salvo que ya se haya enviado dentro de la ventana de dedup.
func (t *Telegram) Alert(ctx context.Context, p domain.MatchPrediction, vb domain.ValueBet) error {
	key := fmt.Sprintf("%d|%s|%s", p.FixtureID, vb.Market, vb.Recommendation)
	if !t.claim(key) {
		return nil
	}

	if err := t.limiter.Wait(ctx); err != nil {
		t.release(key)
		return fmt.Errorf("notify.Telegram.Alert: rate limit: %w", err)
	}

	msg := tgbotapi.NewMessage(t.chatID, formatAlert(p, vb))
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		t.release(key)
		return fmt.Errorf("notify.Telegram.Alert: fixture %d: %w", p.FixtureID, err)
	}
	return nil
}

// claim reserva la clave si no se envió dentro de la ventana.
func (t *Telegram) claim(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for k, at := range t.sent {
		if now.Sub(at) >= t.dedup {
			delete(t.sent, k)
		}
	}
	if _, ok := t.sent[key]; ok {
		return false
	}
	t.sent[key] = now
	return true
}

func (t *Telegram) release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sent, key)
}

// formatAlert construye el texto plano del aviso.
func formatAlert(p domain.MatchPrediction, vb domain.ValueBet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s vs %s\n", vb.Recommendation, p.HomeTeam, p.AwayTeam)
	if p.League != "" {
		fmt.Fprintf(&sb, "%s\n", p.League)
	}
	fmt.Fprintf(&sb, "Minute %d', score %s\n\n", p.Elapsed, p.Score)
	fmt.Fprintf(&sb, "Market: %s @ %.2f\n", vb.Market, vb.Odds)
	fmt.Fprintf(&sb, "Model: %.1f%% vs implied %.1f%%\n", vb.PredictedProb*100, vb.ImpliedProb*100)
	fmt.Fprintf(&sb, "Value: %+.1f%%  Kelly: %.1f%%\n", vb.Value*100, vb.StakeFraction*100)
	fmt.Fprintf(&sb, "Odds: %s", vb.Source)
	return sb.String()
}
