package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

func TestIssueAndVerify(t *testing.T) {
	clock := utils.NewStubClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	tokens, err := NewTokenIssuer("test-secret", time.Hour, clock)
	require.NoError(t, err)

	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	clock.Advance(2 * time.Hour)
	_, err = tokens.Verify(token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestVerifyRejects(t *testing.T) {
	clock := utils.NewStubClock(time.Now())
	tokens, err := NewTokenIssuer("test-secret", time.Hour, clock)
	require.NoError(t, err)
	other, err := NewTokenIssuer("other-secret", time.Hour, clock)
	require.NoError(t, err)

	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
		Issuer:  issuer,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(clock.NowUtc().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name            string
		token           string
		expectedMessage string
	}{
		{"wrong secret", foreign, "Invalid token"},
		{"no expiry", noExpiry, "Invalid token"},
		{"alg none", none, "Invalid token"},
		{"garbage", "not.a.token", "Invalid token"},
		{"empty", "", "Invalid token"},
		{"no subject", noSubject, "Missing user ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
			assert.Equal(t, 401, apperr.Status(err))
			assert.Equal(t, tt.expectedMessage, apperr.Message(err))
		})
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour, utils.NewRealClock())
	assert.Error(t, err)
}
