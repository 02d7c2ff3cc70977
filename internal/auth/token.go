package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/bookly-api/internal/models"
)

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind int

const (
	Access TokenKind = iota
	Refresh
)

func (k TokenKind) String() string {
	if k == Refresh {
		return "refresh"
	}
	return "access"
}

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature mismatch")
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the fixed payload carried by every token.
type Claims struct {
	User    models.UserSnapshot `json:"user"`
	Refresh bool                `json:"refresh"`
	jwt.RegisteredClaims
}

// Kind reports which kind of token the claims were issued for.
func (c *Claims) Kind() TokenKind {
	if c.Refresh {
		return Refresh
	}
	return Access
}

// JTI returns the unique token id.
func (c *Claims) JTI() string { return c.ID }

// Expiry returns the token expiry instant.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenManager issues and verifies HS256 tokens signed with a shared secret.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager constructs a TokenManager. A nil clock defaults to time.Now.
func NewTokenManager(secret string, now func() time.Time) *TokenManager {
	if now == nil {
		now = time.Now
	}
	return &TokenManager{secret: []byte(secret), now: now}
}

// Issue signs a token for identity valid for the given duration.
func (m *TokenManager) Issue(identity models.UserSnapshot, validity time.Duration, kind TokenKind) (string, *Claims, error) {
	claims := &Claims{
		User:    identity,
		Refresh: kind == Refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(m.now().Add(validity)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify decodes and checks a token, returning one of ErrTokenExpired,
// ErrTokenSignature or ErrTokenMalformed on failure.
func (m *TokenManager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}
	if !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.ID == "" || claims.User.ID == "" {
		return nil, fmt.Errorf("%w: missing required claims", ErrTokenMalformed)
	}
	return claims, nil
}
