package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/dartz_league/internal/identity"
)

var ErrEmptySecret = errors.New("signing secret is empty")

type Claims struct {
	UserID    uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ProfileID *uint  `json:"profileId,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() identity.Identity {
	return identity.Identity{
		ID:        c.UserID,
		Username:  c.Username,
		Email:     c.Email,
		Role:      c.Role,
		ProfileID: c.ProfileID,
	}
}

// Codec signs and verifies HS256 identity tokens. The same codec serves
// access and refresh tokens; callers pick the secret and ttl.
type Codec struct {
	now func() time.Time
}

func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

func NewCodecWithClock(now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{now: now}
}

func (c *Codec) Sign(id identity.Identity, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}

	now := c.now()
	claims := Claims{
		UserID:    id.ID,
		Username:  id.Username,
		Email:     id.Email,
		Role:      id.Role,
		ProfileID: id.ProfileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(id.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature first, then expiry: a token that fails both is
// reported as invalid.
func (c *Codec) Verify(raw string, secret []byte) (identity.Identity, error) {
	if raw == "" {
		return identity.Identity{}, fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}
	if len(secret) == 0 {
		return identity.Identity{}, ErrEmptySecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	var claims Claims
	tkn, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Identity{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return identity.Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return identity.Identity{}, ErrTokenInvalid
	}
	if claims.Username == "" || claims.Role == "" {
		return identity.Identity{}, fmt.Errorf("%w: missing identity claims", ErrTokenInvalid)
	}

	return claims.Identity(), nil
}

// ExpiresAt reads the exp claim without verifying the signature.
func (c *Codec) ExpiresAt(raw string) (time.Time, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrTokenInvalid)
	}
	return claims.ExpiresAt.Time, nil
}
