package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/core/auth"
)

func newManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })
	codec := &auth.Codec{Secret: []byte("test"), Issuer: "test", TTL: 30 * time.Minute}
	return NewManager(NewRedisStore(rdb), codec), mr
}

func TestLoadWithoutCookieIsAnonymous(t *testing.T) {
	m, _ := newManager(t)
	s, err := m.Load(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Zero(t, s.UserID)
	assert.False(t, s.Dirty())

	s, err = m.Load(context.Background(), "not-a-jwt")
	require.NoError(t, err)
	assert.Zero(t, s.UserID)
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, mr := newManager(t)

	s, err := m.Load(ctx, "")
	require.NoError(t, err)
	oldID := s.ID

	require.NoError(t, m.Regenerate(ctx, s, 42))
	assert.NotEqual(t, oldID, s.ID)

	tok, err := m.Save(ctx, s)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.True(t, mr.Exists(keyPrefix+s.ID))
	assert.Equal(t, 30*time.Minute, mr.TTL(keyPrefix+s.ID))

	got, err := m.Load(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), got.UserID)
	assert.True(t, got.Dirty())
}

func TestRecordExpiry(t *testing.T) {
	ctx := context.Background()
	m, mr := newManager(t)

	s, _ := m.Load(ctx, "")
	require.NoError(t, m.Regenerate(ctx, s, 7))
	tok, err := m.Save(ctx, s)
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)
	got, err := m.Load(ctx, tok)
	require.NoError(t, err)
	assert.Zero(t, got.UserID)
}

func TestFlashSurvivesOneRequest(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	s, _ := m.Load(ctx, "")
	s.Flash(FlashSuccess, "You have registered successfully.")
	tok, err := m.Save(ctx, s)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	next, err := m.Load(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, []Flash{{Kind: FlashSuccess, Message: "You have registered successfully."}}, next.PopFlashes())
	tok, err = m.Save(ctx, next)
	require.NoError(t, err)
	assert.Empty(t, tok)

	again, err := m.Load(ctx, tok)
	require.NoError(t, err)
	assert.Empty(t, again.PopFlashes())
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	m, mr := newManager(t)

	s, _ := m.Load(ctx, "")
	require.NoError(t, m.Regenerate(ctx, s, 9))
	tok, err := m.Save(ctx, s)
	require.NoError(t, err)
	oldKey := keyPrefix + s.ID

	s, err = m.Load(ctx, tok)
	require.NoError(t, err)
	require.NoError(t, m.Destroy(ctx, s))
	assert.False(t, mr.Exists(oldKey))
	assert.Zero(t, s.UserID)

	got, err := m.Load(ctx, tok)
	require.NoError(t, err)
	assert.Zero(t, got.UserID)
}
