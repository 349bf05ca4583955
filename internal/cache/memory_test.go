package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T) (*Memory, *time.Time) {
	t.Helper()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(0)
	m.now = func() time.Time { return current }
	t.Cleanup(func() { _ = m.Close() })

	return m, &current
}

func TestMemory_SetGet(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("v1"), time.Minute))

	got, err := m.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestMemory_MissOnUnknownKey(t *testing.T) {
	m, _ := newTestMemory(t)

	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemory_ExpiredReadIsMiss(t *testing.T) {
	m, current := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("v1"), 5*time.Minute))

	*current = current.Add(5*time.Minute + time.Second)

	_, err := m.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss, "чтение после истечения TTL должно быть неотличимо от промаха")
	assert.Equal(t, 0, m.Len(), "просроченная запись удаляется при чтении")
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	m, current := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("v1"), 0))

	*current = current.Add(1000 * time.Hour)

	got, err := m.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestMemory_OverwriteResetsTTL(t *testing.T) {
	m, current := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("old"), time.Minute))
	*current = current.Add(50 * time.Second)
	require.NoError(t, m.Set(ctx, "k1", []byte("new"), time.Minute))

	*current = current.Add(30 * time.Second)

	got, err := m.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestMemory_Delete(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("v1"), time.Minute))
	require.NoError(t, m.Delete(ctx, "k1"))
	require.NoError(t, m.Delete(ctx, "k1"), "повторное удаление - не ошибка")

	_, err := m.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemory_DeletePattern(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "games:catalog:v1:a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "games:catalog:v1:b", []byte("2"), time.Minute))
	require.NoError(t, m.Set(ctx, "games:item:42", []byte("3"), time.Minute))
	require.NoError(t, m.Set(ctx, "gm:stats:7", []byte("4"), time.Minute))

	require.NoError(t, m.DeletePattern(ctx, "games:*"))

	_, err := m.Get(ctx, "games:catalog:v1:a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = m.Get(ctx, "games:item:42")
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err := m.Get(ctx, "gm:stats:7")
	require.NoError(t, err, "ключи вне маски не затрагиваются")
	assert.Equal(t, []byte("4"), got)
}

func TestMemory_DeletePatternEscapesRegexMeta(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a.b", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "axb", []byte("2"), time.Minute))

	require.NoError(t, m.DeletePattern(ctx, "a.b"))

	_, err := m.Get(ctx, "a.b")
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = m.Get(ctx, "axb")
	assert.NoError(t, err, "точка в маске - буквальный символ, а не метасимвол")
}

func TestMemory_RemoveExpiredSweep(t *testing.T) {
	m, current := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "long", []byte("2"), time.Hour))

	*current = current.Add(2 * time.Minute)
	m.removeExpired()

	assert.Equal(t, 1, m.Len())
	_, err := m.Get(ctx, "long")
	assert.NoError(t, err)
}
