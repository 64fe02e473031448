// Package otp issues and verifies the one-time codes used for email
// verification during signup. Codes are six decimal digits, live for five
// minutes, and a given email has at most one active code: issuing a new
// one invalidates the old.
package otp

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/resumatch/resumatch/internal/cache"
	"github.com/resumatch/resumatch/internal/utils"
)

const DefaultTTL = 5 * time.Minute

type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewStore(c cache.Cache, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{cache: c, ttl: ttl}
}

func key(email string) string { return "otp:" + email }

// Generate creates and stores a fresh code for email, replacing any code
// previously issued for it.
func (s *Store) Generate(ctx context.Context, email string) (string, error) {
	const op = "otp.Generate"

	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to generate code", err)
	}
	code := big.NewInt(0).Add(n, big.NewInt(100000)).String()

	if err := s.cache.Del(ctx, key(email)); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to invalidate prior code", err)
	}
	if err := s.cache.SetJSON(ctx, key(email), code, s.ttl); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to store code", err)
	}
	return code, nil
}

// Verify checks code against the stored value for email. A match deletes
// the record so the code is single use. An expired code and a never-issued
// code are indistinguishable to the caller.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	const op = "otp.Verify"

	var stored string
	hit, err := s.cache.GetJSON(ctx, key(email), &stored)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to read stored code", err)
	}
	if !hit {
		return utils.E(utils.CodeUnauthorized, op, "OTP expired or not found", nil)
	}
	if stored != code {
		return utils.E(utils.CodeUnauthorized, op, "invalid OTP", nil)
	}

	if err := s.cache.Del(ctx, key(email)); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to consume code", err)
	}
	return nil
}
