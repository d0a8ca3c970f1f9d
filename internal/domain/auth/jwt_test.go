package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "invenpos/internal/core/context"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	user := NewUser("alice", "hash", appctx.RoleAdmin)
	user.FullName = "Alice Smith"

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "alice", uc.Username)
	assert.Equal(t, "Alice Smith", uc.FullName)
	assert.Equal(t, appctx.RoleAdmin, uc.Role)
	assert.True(t, uc.IsAdmin)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	signer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := signer.GenerateAccessToken(NewUser("alice", "hash", appctx.RoleCashier))
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_GarbageRejected(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
