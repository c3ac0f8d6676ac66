package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0,00"},
		{12.5, "12,50"},
		{1234.5, "1.234,50"},
		{1234567.891, "1.234.567,89"},
		{-42, "-42,00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
	assert.Equal(t, "7,00 EUR", FormatCurrency(7, ""))
}

func TestPhoneValidation(t *testing.T) {
	assert.True(t, IsValidPhone("612345678"))
	assert.True(t, IsValidPhone("+34 612 345 678"))
	assert.True(t, IsValidPhone("612-34-56-78"))
	assert.False(t, IsValidPhone("12345"))
	assert.False(t, IsValidPhone("phone"))
	assert.Equal(t, "+34612345678", NormalizePhone(" +34 612 345 678 "))
}

func TestTokenRoundTrip(t *testing.T) {
	ConfigureJWT("test-secret", time.Hour)

	token, expiresAt, err := GenerateToken(7, "maria", "staff")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "staff", claims.Role)

	BlacklistToken(token, expiresAt)
	_, err = ParseToken(token)
	assert.Error(t, err)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestPurgeExpiredTokens(t *testing.T) {
	BlacklistToken("expired-token", time.Now().Add(-time.Minute))
	BlacklistToken("live-token", time.Now().Add(time.Hour))

	assert.False(t, IsTokenBlacklisted("expired-token"))
	assert.True(t, IsTokenBlacklisted("live-token"))
	assert.GreaterOrEqual(t, PurgeExpiredTokens(), 1)
	assert.True(t, IsTokenBlacklisted("live-token"))
}
