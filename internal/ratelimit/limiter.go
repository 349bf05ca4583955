package ratelimit

import (
	"sync"
	"time"
)

// Decision - результат проверки лимита для одного запроса
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter - фиксированное окно (fixed window) по идентификатору клиента.
// Алгоритм намеренно приблизительный: всплеск на границе двух окон может
// пропустить до 2x лимита. Это осознанный размен на простоту.
// Состояние per-process; для многопроцессного деплоя лимиты действуют
// в пределах каждого инстанса.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	// now подменяется в тестах
	now func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New создает лимитер и запускает фоновую очистку истекших окон.
// cleanupInterval <= 0 отключает фоновую очистку.
func New(cleanupInterval time.Duration) *Limiter {
	l := &Limiter{
		windows: make(map[string]*window),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go l.cleanupLoop(cleanupInterval)
	}

	return l
}

// Admit регистрирует запрос от identifier и решает, пропускать ли его.
// Первый запрос в окне инициализирует счетчик и дедлайн now+windowDur;
// по достижении дедлайна окно сбрасывается.
func (l *Limiter) Admit(identifier string, limit int, windowDur time.Duration) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[identifier]
	if !ok || !now.Before(w.resetAt) {
		w = &window{count: 1, resetAt: now.Add(windowDur)}
		l.windows[identifier] = w
		remaining := limit - 1
		if remaining < 0 {
			remaining = 0
		}
		return Decision{
			Allowed:   limit >= 1,
			Remaining: remaining,
			ResetAt:   w.resetAt,
		}
	}

	w.count++

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   w.count <= limit,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}
}

// Stop останавливает фоновую очистку
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

// cleanup убирает окна, чей дедлайн прошел, независимо от трафика
func (l *Limiter) cleanup() {
	now := l.now()
	l.mu.Lock()
	for id, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, id)
		}
	}
	l.mu.Unlock()
}
