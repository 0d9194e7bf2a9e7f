package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedboard/apperr"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID, err := env.auth.Register(ctx, "Maria", "maria@example.com", "secret123")
	require.NoError(t, err)
	require.False(t, userID.IsZero())

	token, loginID, err := env.auth.Authenticate(ctx, "maria@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, userID, loginID)

	identity, err := env.auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "maria@example.com", identity.Email)

	// The stored credential is a hash, never the raw password.
	user, err := env.users.Get(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.Empty(t, user.Status)
	assert.Empty(t, user.Posts)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.auth.Register(ctx, "Maria", "maria@example.com", "secret123")
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, "Impostor", "maria@example.com", "othersecret")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// The first account is untouched.
	user, err := env.users.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Maria", user.Name)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name, email, password string
	}{
		{"Maria", "not-an-email", "secret123"},
		{"", "maria@example.com", "secret123"},
		{"Maria", "maria@example.com", "shrt"},
	}

	for _, tc := range cases {
		_, err := env.auth.Register(ctx, tc.name, tc.email, tc.password)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestAuthenticateFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerUser(t, "Maria", "maria@example.com")

	_, _, err := env.auth.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, _, err = env.auth.Authenticate(ctx, "maria@example.com", "wrongpass")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "Maria", "maria@example.com")

	expired := NewTokenManager("test-secret", -time.Minute)
	token, err := expired.Issue(userID, "maria@example.com")
	require.NoError(t, err)

	_, err = env.auth.Verify(token)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "Maria", "maria@example.com")

	other := NewTokenManager("different-secret", time.Hour)
	token, err := other.Issue(userID, "maria@example.com")
	require.NoError(t, err)

	_, err = env.auth.Verify(token)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = env.auth.Verify("")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = env.auth.Verify("not.a.jwt")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}
