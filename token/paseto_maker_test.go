package token

import (
	"strings"
	"testing"
	"time"

	"municipal-portal-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "abcdefghijklmnopqrstuvwxyz123456" // 32 bytes

func TestPasetoMakerRoundTrip(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	tok, err := maker.CreateToken("user-1", "citizen@example.com", models.ClientRole, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	payload, err := maker.VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, "citizen@example.com", payload.Email)
	assert.Equal(t, models.ClientRole, payload.Role)
	assert.WithinDuration(t, time.Now().Add(time.Minute), payload.ExpiredAt, 5*time.Second)
}

func TestPasetoMakerExpiredToken(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	tok, err := maker.CreateToken("user-1", "citizen@example.com", models.ClientRole, time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = maker.VerifyToken(tok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestPasetoMakerRejectsShortKey(t *testing.T) {
	_, err := NewPasetoMaker("too-short")
	require.Error(t, err)
}

func TestPasetoMakerRejectsTamperedToken(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	tok, err := maker.CreateToken("user-1", "citizen@example.com", models.AdminRole, time.Minute)
	require.NoError(t, err)

	tampered := strings.Replace(tok, tok[len(tok)-4:], "AAAA", 1)
	_, err = maker.VerifyToken(tampered)
	require.Error(t, err)
}
