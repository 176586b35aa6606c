package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evo/internal/model"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("tajna123")
	require.NoError(t, err)
	assert.NotEqual(t, "tajna123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.NoError(t, CheckPassword(hash, "tajna123"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
	assert.Error(t, CheckPassword("not-a-hash", "tajna123"))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.EqualError(t, err, "jwt secret is required")

	m, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, m.ttl)
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	u := &model.User{ID: "user-1", Role: model.RoleAdmin}
	raw, issued, err := m.Issue(u)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, now.Add(time.Hour), issued.ExpiresAt.Time)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return now.Add(2 * time.Hour) }
		defer func() { m.now = func() time.Time { return now } }()

		_, err := m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewTokenManager("other", time.Hour)
		other.now = m.now
		_, err := other.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other signing method", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "x",
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})
		s, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "x",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})
		s, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNoopDenylist(t *testing.T) {
	var d Denylist = NoopDenylist{}
	ctx := context.Background()

	assert.NoError(t, d.Revoke(ctx, "jti", time.Now().Add(time.Hour)))
	revoked, err := d.IsRevoked(ctx, "jti")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisDenylist_Unreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	d := NewRedisDenylist(rdb)
	ctx := context.Background()

	assert.NoError(t, d.Revoke(ctx, "jti", time.Now().Add(-time.Minute)), "expired tokens need no entry")
	assert.Error(t, d.Revoke(ctx, "jti", time.Now().Add(time.Hour)))

	_, err := d.IsRevoked(ctx, "jti")
	assert.Error(t, err)
}
