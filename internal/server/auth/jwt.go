// Package auth holds the stateless authentication core: signed identity
// tokens, password hashing, identity resolution and the request principal.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretKeyLength is the shortest accepted HMAC key, in bytes.
const MinSecretKeyLength = 32

var (
	ErrWeakSecretKey   = fmt.Errorf("secret key must be at least %d bytes", MinSecretKeyLength)
	ErrInvalidTokenTTL = errors.New("token validity duration must be positive")
)

// TokenService issues and verifies HMAC-signed JWTs whose subject is the
// user's email. It holds only immutable state and is safe for concurrent use.
type TokenService struct {
	key    []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService decodes the standard-base64 secret and picks the HMAC
// variant from its length: 64+ bytes sign with HS512, 48+ with HS384,
// anything else with HS256.
func NewTokenService(secretKeyBase64 string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	key, err := base64.StdEncoding.DecodeString(secretKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	if len(key) < MinSecretKeyLength {
		return nil, ErrWeakSecretKey
	}
	if ttl <= 0 {
		return nil, ErrInvalidTokenTTL
	}

	s := &TokenService{key: key, method: methodForKey(key), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func methodForKey(key []byte) *jwt.SigningMethodHMAC {
	switch {
	case len(key) >= 64:
		return jwt.SigningMethodHS512
	case len(key) >= 48:
		return jwt.SigningMethodHS384
	default:
		return jwt.SigningMethodHS256
	}
}

// Algorithm reports the JWS alg used for signing.
func (s *TokenService) Algorithm() string {
	return s.method.Alg()
}

// TTL reports how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject with iat=now, exp=now+TTL and a random jti,
// so two tokens minted in the same second still differ.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
// A token is rejected once exp <= now. Every failure is reported as
// common.ErrInvalidToken, whatever the cause.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
