// Package auth issues and verifies the HS256 access tokens the API
// hands out after signup and login.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resumatch/resumatch/internal/utils"
)

const DefaultTokenTTL = 24 * time.Hour

type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue creates a signed token whose subject is the user id.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	const op = "auth.Issue"

	if len(t.secret) == 0 {
		return "", utils.E(utils.CodeInternal, op, "JWT secret is not configured", nil)
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return signed, nil
}

// Verify parses a token and returns the user id it was issued for.
func (t *TokenIssuer) Verify(raw string) (string, error) {
	const op = "auth.Verify"

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tk *jwt.Token) (any, error) {
		if tk.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || tok == nil || !tok.Valid {
		return "", utils.E(utils.CodeUnauthorized, op, "invalid token", err)
	}
	if t.issuer != "" && claims.Issuer != t.issuer {
		return "", utils.E(utils.CodeUnauthorized, op, "invalid token issuer", nil)
	}
	if claims.Subject == "" {
		return "", utils.E(utils.CodeUnauthorized, op, "missing subject", nil)
	}
	return claims.Subject, nil
}
