package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *Service {
	return NewService([]Account{
		{ID: "charles", Username: "charles", Password: "barbershop2026", Name: "Charles"},
		{ID: "paulo", Username: "paulo", Password: "barbershop2026", Name: "Paulo"},
	})
}

func TestAuthenticate(t *testing.T) {
	svc := testService()

	token, creds, ok := svc.Authenticate("charles", "barbershop2026")
	require.True(t, ok)
	assert.NotEmpty(t, token)
	assert.Equal(t, Credentials{ID: "charles", Username: "charles", Name: "Charles"}, creds)
	assert.True(t, svc.IsAuthenticated(token))
}

func TestAuthenticate_Failures(t *testing.T) {
	svc := testService()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "charles", "nope"},
		{"unknown user", "nobody", "barbershop2026"},
		{"empty credentials", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, ok := svc.Authenticate(tt.username, tt.password)
			assert.False(t, ok)
			assert.Empty(t, token)
		})
	}
}

func TestLogout(t *testing.T) {
	svc := testService()

	token, _, ok := svc.Authenticate("paulo", "barbershop2026")
	require.True(t, ok)

	svc.Logout(token)
	assert.False(t, svc.IsAuthenticated(token))

	// Logging out an unknown token is harmless.
	svc.Logout("missing")
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := testService()

	t1, _, _ := svc.Authenticate("charles", "barbershop2026")
	t2, _, _ := svc.Authenticate("charles", "barbershop2026")
	require.NotEqual(t, t1, t2)

	svc.Logout(t1)
	assert.False(t, svc.IsAuthenticated(t1))
	assert.True(t, svc.IsAuthenticated(t2))
}
