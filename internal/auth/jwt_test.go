package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	userID := uuid.New()

	raw, err := issuer.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, StaffRole, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestTokenIssuer_Verify_WrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer("secret-a", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Verify(raw)
	assert.Error(t, err)
}

func TestTokenIssuer_Verify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	raw, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.Error(t, err)
}

func TestTokenIssuer_Verify_RejectsForeignRole(t *testing.T) {
	// A structurally valid token signed with the right secret but without
	// the staff role must not grant capability.
	claims := Claims{
		Role: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret", time.Hour).Verify(raw)
	assert.Error(t, err)
}

func TestTokenIssuer_Verify_RejectsUnsignedToken(t *testing.T) {
	claims := Claims{
		Role: StaffRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret", time.Hour).Verify(raw)
	assert.Error(t, err)
}

func TestStaffCapabilityContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, HasStaffCapability(ctx))
	assert.True(t, HasStaffCapability(WithStaff(ctx)))
}
