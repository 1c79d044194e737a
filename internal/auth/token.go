package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

const issuer = "socialfeed"

// TokenIssuer signs and checks HS256 bearer tokens carrying the user id in "sub".
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  utils.Clock
}

func NewTokenIssuer(secret string, ttl time.Duration, clock utils.Clock) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := t.clock.NowUtc()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify returns the user id of a valid, unexpired token.
func (t *TokenIssuer) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.clock.NowUtc),
	)
	if err != nil || !parsed.Valid {
		return "", apperr.Wrap(apperr.KindUnauthorized, "Invalid token", err)
	}
	if claims.Subject == "" {
		return "", apperr.Unauthorized("Missing user ID")
	}
	return claims.Subject, nil
}
