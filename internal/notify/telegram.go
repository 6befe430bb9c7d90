// Package notify posts queue events to a Telegram chat.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"barberline/internal/models"
)

// Notifier receives queue events. Implementations must not block the
// update path for long; sends happen on the caller's goroutine.
type Notifier interface {
	ClientEnqueued(queueName string, client models.Client)
	ShopOpened(resumed int)
}

// Nop is a Notifier that does nothing.
type Nop struct{}

func (Nop) ClientEnqueued(string, models.Client) {}
func (Nop) ShopOpened(int)                       {}

// Telegram sends events to a configured chat. Sends are throttled with
// a token bucket; events beyond the bucket are dropped rather than
// delaying the update path.
type Telegram struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewTelegram creates a notifier for the chat behind token.
func NewTelegram(token string, chatID int64, logger zerolog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Telegram{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(20), 30),
		logger:  logger,
	}, nil
}

func (t *Telegram) ClientEnqueued(queueName string, client models.Client) {
	text := fmt.Sprintf("🪒 %s joined the %s queue (%s)", client.Name, queueName, client.ServiceKind)
	t.send(text)
}

func (t *Telegram) ShopOpened(resumed int) {
	text := "🔓 Shop is open"
	if resumed > 0 {
		text = fmt.Sprintf("🔓 Shop is open, %d staff resumed from pause", resumed)
	}
	t.send(text)
}

func (t *Telegram) send(text string) {
	if !t.limiter.Allow() {
		t.logger.Warn().Msg("telegram send dropped, rate limited")
		return
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn().Err(err).Msg("telegram send failed")
	}
}
