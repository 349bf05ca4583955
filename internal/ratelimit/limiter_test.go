package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T) (*Limiter, *time.Time) {
	t.Helper()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(0)
	l.now = func() time.Time { return current }
	t.Cleanup(l.Stop)

	return l, &current
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		d := l.Admit("1.2.3.4", 5, time.Minute)
		assert.True(t, d.Allowed, "запрос %d в пределах лимита", i+1)
		assert.Equal(t, 4-i, d.Remaining)
	}

	d := l.Admit("1.2.3.4", 5, time.Minute)
	assert.False(t, d.Allowed, "шестой запрос сверх лимита отклоняется")
	assert.Equal(t, 0, d.Remaining)
}

func TestLimiter_ZeroLimitRejectsFirstRequest(t *testing.T) {
	l, _ := newTestLimiter(t)

	d := l.Admit("1.2.3.4", 0, time.Minute)
	assert.False(t, d.Allowed, "нулевой лимит отклоняет даже первый запрос окна")
	assert.Equal(t, 0, d.Remaining)
}

func TestLimiter_ResetAtIsWindowDeadline(t *testing.T) {
	l, current := newTestLimiter(t)

	d := l.Admit("1.2.3.4", 100, time.Minute)
	assert.Equal(t, current.Add(time.Minute), d.ResetAt)

	// дедлайн не сдвигается последующими запросами в том же окне
	*current = current.Add(30 * time.Second)
	d2 := l.Admit("1.2.3.4", 100, time.Minute)
	assert.Equal(t, d.ResetAt, d2.ResetAt)
}

func TestLimiter_WindowResetsAfterDeadline(t *testing.T) {
	l, current := newTestLimiter(t)

	for i := 0; i < 6; i++ {
		l.Admit("1.2.3.4", 5, time.Minute)
	}
	assert.False(t, l.Admit("1.2.3.4", 5, time.Minute).Allowed)

	*current = current.Add(time.Minute)

	d := l.Admit("1.2.3.4", 5, time.Minute)
	assert.True(t, d.Allowed, "новое окно начинается с чистого счетчика")
	assert.Equal(t, 4, d.Remaining)
}

func TestLimiter_IdentifiersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t)

	for i := 0; i < 6; i++ {
		l.Admit("1.2.3.4", 5, time.Minute)
	}
	assert.False(t, l.Admit("1.2.3.4", 5, time.Minute).Allowed)

	d := l.Admit("5.6.7.8", 5, time.Minute)
	assert.True(t, d.Allowed, "лимит одного клиента не влияет на другого")
}

func TestLimiter_CleanupRemovesExpiredWindows(t *testing.T) {
	l, current := newTestLimiter(t)

	l.Admit("a", 5, time.Minute)
	l.Admit("b", 5, time.Hour)

	*current = current.Add(2 * time.Minute)
	l.cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.windows, "a")
	assert.Contains(t, l.windows, "b")
}
