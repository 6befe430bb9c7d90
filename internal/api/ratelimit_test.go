package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenLimiter_BurstThenDeny(t *testing.T) {
	l := newTokenLimiter(60, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, l.allow("10.0.0.1"), "burst exhausted")

	// Other clients keep their own bucket.
	assert.True(t, l.allow("10.0.0.2"))
}

func TestTokenLimiter_Defaults(t *testing.T) {
	l := newTokenLimiter(0, 0)
	assert.Equal(t, 2.0, l.rate)
	assert.Equal(t, 30.0, l.burst)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.7:4444"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
