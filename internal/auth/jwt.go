package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// StaffRole is the only role tokens carry; customers are anonymous and
// never hold a token at all.
const StaffRole = "staff"

type contextKey struct{}

var staffKey contextKey

// Claims embeds the registered claims plus the role assertion.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies staff capability tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer with the shared HS256 secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token asserting staff capability for the user.
func (i *TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: StaffRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a raw token and returns its claims if the signature,
// expiry and role all check out.
func (i *TokenIssuer) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Role != StaffRole {
		return nil, errors.New("token does not carry staff role")
	}
	return claims, nil
}

// WithStaff marks the context as holding staff capability.
func WithStaff(ctx context.Context) context.Context {
	return context.WithValue(ctx, staffKey, true)
}

// HasStaffCapability reports whether the current request context carries
// a verified staff token. This is the authorization fact the order and
// catalog services consult before any privileged mutation.
func HasStaffCapability(ctx context.Context) bool {
	v, _ := ctx.Value(staffKey).(bool)
	return v
}
