// Package auth implements the cookie session: an HS256 JWT carrying only the
// user ID. The role is never read from the token; every request re-loads the
// user from storage.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "token"

const (
	SessionTTL  = 24 * time.Hour
	RememberTTL = 30 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid session token")

type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens { return &Tokens{secret: []byte(secret)} }

// Issue signs a session token for userID. rememberMe stretches the validity
// window from 24h to 30 days.
func (t *Tokens) Issue(userID string, rememberMe bool) (string, time.Duration, error) {
	ttl := SessionTTL
	if rememberMe {
		ttl = RememberTTL
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

// Parse verifies the signature and expiry and returns the user ID.
func (t *Tokens) Parse(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
