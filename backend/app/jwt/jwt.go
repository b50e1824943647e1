package jwtutil

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the validity window of every issued token.
const DefaultTTL = 7 * 24 * time.Hour

// Rejection reasons. Callers surface a single "invalid token" outcome and
// keep these for logs.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrExpired          = errors.New("token expired")
	ErrSignatureInvalid = errors.New("token signature invalid")
)

type Claims struct {
	UserID uint   `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 tokens with one process-wide secret.
// It is immutable after construction; changing the secret invalidates every
// outstanding token.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret, issuer string) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: DefaultTTL, now: time.Now}
}

// WithClock returns a copy of s reading time from now.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	cp := *s
	cp.now = now
	return &cp
}

func (s *Signer) Sign(userID uint, name, role string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID, Name: name, Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
