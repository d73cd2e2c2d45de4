// Package auth handles the dashboard session: GitHub login, the JWT that
// stands in for a session, and the middleware that puts the caller's
// user ID on the request context.
//
// HOW A SESSION WORKS:
//
//	GitHub login ─► callback upserts the user ─► TokenService.Generate(user.ID)
//	                                               │
//	browser stores it in the HttpOnly "token" cookie
//	                                               │
//	every /api request ─► RequireAuth ─► TokenService.Validate ─► userID in ctx
//
// When no JWT secret is configured the dashboard runs in local mode and
// LocalUser puts one fixed user ID on every request instead.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "bounty-tracker"

	// DefaultSessionTTL is how long a login lasts. There are no refresh
	// tokens; the user logs in again after it runs out.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// TokenService issues and validates HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService needs a secret of at least 16 characters. A ttl <= 0
// means DefaultSessionTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL is the lifetime of tokens from Generate. Handlers use it as the
// cookie MaxAge so both expire together.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Generate issues a token whose subject is userID.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.generate(userID, time.Now(), s.ttl)
}

func (s *TokenService) generate(userID string, now time.Time, ttl time.Duration) (string, error) {
	c := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    issuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, algorithm, issuer and expiry and returns the
// user ID from the subject claim.
//
// jwt.WithValidMethods pins HS256: a token that claims "alg": "none" or an
// RSA algorithm is rejected before the key is even looked at.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	var c jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}
	return c.Subject, nil
}
