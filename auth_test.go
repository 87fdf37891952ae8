package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterThenLogin(t *testing.T) {
	store := &memStore{}
	svc := NewAuthService(store, "secret")
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "hunter2"))

	token, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 1, userID)
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	store := &memStore{}
	svc := NewAuthService(store, "secret")

	require.NoError(t, svc.Register(context.Background(), "bob", "plaintext"))

	require.Len(t, store.users, 1)
	hash := store.users[0].PasswordHash
	assert.NotEqual(t, "plaintext", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("plaintext")))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, passwordHashCost, cost)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	store := &memStore{}
	svc := NewAuthService(store, "secret")

	err := svc.Register(context.Background(), "bob", strings.Repeat("x", maxPasswordBytes+8))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Empty(t, store.users)
}

func TestRegister_StoreError(t *testing.T) {
	store := &memStore{err: errors.New("duplicate key value")}
	svc := NewAuthService(store, "secret")

	err := svc.Register(context.Background(), "bob", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key value")
}

func TestLogin_Errors(t *testing.T) {
	store := &memStore{}
	svc := NewAuthService(store, "secret")
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "alice", "right"))

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost", "right")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		broken := NewAuthService(&memStore{err: errors.New("db down")}, "secret")
		_, err := broken.Login(ctx, "alice", "right")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserNotFound)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestToken_ExpiresAfter24Hours(t *testing.T) {
	svc := NewAuthService(&memStore{}, "secret")
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.issueToken(7)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(23 * time.Hour) }
	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)

	svc.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewAuthService(&memStore{}, "right-secret")
	token, err := issuer.issueToken(3)
	require.NoError(t, err)

	other := NewAuthService(&memStore{}, "other-secret")
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
