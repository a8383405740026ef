package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() { HashCost = bcrypt.MinCost }

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("p@ss")
	require.NoError(t, err)
	require.True(t, CheckPasswordHash("p@ss", hashed))
	require.False(t, CheckPasswordHash("hahaha", hashed))
}

func TestTokenGenerateAndVerify(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.GenerateToken(87, "student", "sid-1")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(87), claims.UserID)
	require.Equal(t, "student", claims.Role)
	require.Equal(t, "sid-1", claims.SessionID)
}

func TestVerifyTokenRejectsTampered(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.GenerateToken(99, "organizer", "sid")
	require.NoError(t, err)

	_, err = m.VerifyToken(token + "x")
	require.Error(t, err)
}

func TestVerifyTokenRejectsOtherSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).GenerateToken(1, "student", "sid")
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", -time.Minute)
	token, err := m.GenerateToken(1, "student", "sid")
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyTokenRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": 1, "sid": "x"})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).VerifyToken(s)
	require.Error(t, err)
}

func TestSessionStoreLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(rdb)
	ctx := context.Background()

	sid, err := store.Create(ctx, 7, time.Hour)
	require.NoError(t, err)

	ok, err := store.Exists(ctx, 7, sid)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Revoke(ctx, 7, sid))
	ok, err = store.Exists(ctx, 7, sid)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionStorePurgeUser(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(rdb)
	ctx := context.Background()

	a, _ := store.Create(ctx, 3, time.Hour)
	b, _ := store.Create(ctx, 3, time.Hour)
	other, _ := store.Create(ctx, 4, time.Hour)

	require.NoError(t, store.PurgeUser(ctx, 3))

	for _, sid := range []string{a, b} {
		ok, err := store.Exists(ctx, 3, sid)
		require.NoError(t, err)
		require.False(t, ok)
	}
	ok, err := store.Exists(ctx, 4, other)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSessionStoreExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(rdb)
	ctx := context.Background()

	sid, err := store.Create(ctx, 1, time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	ok, err := store.Exists(ctx, 1, sid)
	require.NoError(t, err)
	require.False(t, ok)
}
