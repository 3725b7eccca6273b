// Package token issues and verifies signed access tokens.
//
// A token carries a single identity claim (the user id in `sub`) plus
// issued-at and expiry. There is no revocation: a token stays valid until
// expiry regardless of server-side changes; callers re-resolve the user
// record per request, so live fields are never trusted from the token.
package token

import (
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkhin/noteboard/internal/errs"
)

// verifyLeeway absorbs clock skew between issuer and verifier.
const verifyLeeway = 30 * time.Second

// Codec signs and verifies HS256 JWTs with a process-wide key and fixed TTL.
type Codec struct {
	signKey []byte
	ttl     time.Duration
}

// NewCodec constructs a Codec. The key is required; TTL must be positive.
func NewCodec(signKey []byte, ttl time.Duration) (*Codec, error) {
	if len(signKey) == 0 {
		return nil, errors.New("token: empty signing key")
	}
	if ttl <= 0 {
		return nil, errors.New("token: non-positive ttl")
	}
	return &Codec{signKey: signKey, ttl: ttl}, nil
}

// Issue creates a signed token asserting userID, expiring after the
// configured TTL. No sliding renewal.
func (c *Codec) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(c.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.signKey)
	return signed, exp, err
}

// Verify checks signature and expiry and returns the asserted user id.
// All failures map to errs.ErrUnauthorized; callers never learn why.
func (c *Codec) Verify(raw string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.signKey, nil
	}, jwt.WithLeeway(verifyLeeway))
	if err != nil || !parsed.Valid {
		return uuid.Nil, errs.ErrUnauthorized
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return id, nil
}
