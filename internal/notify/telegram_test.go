package notify

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"barberline/internal/models"
)

func TestSendDroppedWhenRateLimited(t *testing.T) {
	// The nil bot would panic if a drained limiter let a send through.
	tg := &Telegram{
		limiter: rate.NewLimiter(rate.Every(time.Hour), 1),
		logger:  zerolog.Nop(),
	}
	tg.limiter.Allow()

	assert.NotPanics(t, func() {
		tg.ClientEnqueued("general", models.Client{Name: "Ana", ServiceKind: models.ServiceHaircut})
		tg.ShopOpened(2)
	})
	assert.False(t, tg.limiter.Allow(), "dropped sends must not refund tokens")
}
