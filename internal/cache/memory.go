package cache

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time // нулевое значение = без истечения
}

// Memory - потокобезопасный in-memory кэш с TTL.
// Используется в development и в тестах; в многопроцессном деплое
// когерентность деградирует до per-process приближения - для продакшена
// предназначен Redis-бэкенд.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now подменяется в тестах
	now func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewMemory создает кэш и запускает фоновую очистку просроченных записей
// с заданным интервалом. interval <= 0 отключает фоновую очистку
// (записи все равно умирают лениво при чтении).
func NewMemory(cleanupInterval time.Duration) *Memory {
	m := &Memory{
		entries:     make(map[string]memoryEntry),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go m.cleanupLoop(cleanupInterval)
	}

	return m
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	// Чтение после истечения TTL ведет себя ровно как промах
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		m.mu.Lock()
		// Перепроверяем под write-lock: запись могли успеть обновить
		if e, still := m.entries[key]; still && !e.expires.IsZero() && m.now().After(e.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return entry.value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expires: expires}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// DeletePattern удаляет все ключи по glob-маске. Вся зачистка идет под одним
// write-lock: читатель не может наблюдать наполовину инвалидированное
// состояние в рамках одной маски.
func (m *Memory) DeletePattern(ctx context.Context, pattern string) error {
	re, err := compilePattern(pattern)
	if err != nil {
		return err
	}

	m.mu.Lock()
	for key := range m.entries {
		if re.MatchString(key) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stopCleanup) })
	return nil
}

// Len возвращает число живых записей (для тестов и health-check)
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCleanup:
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *Memory) removeExpired() {
	now := m.now()
	m.mu.Lock()
	for key, entry := range m.entries {
		if !entry.expires.IsZero() && now.After(entry.expires) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}

// compilePattern переводит glob-маску в регулярное выражение:
// '*' матчит любую подстроку, остальные символы - буквально
func compilePattern(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile("^" + strings.Join(parts, ".*") + "$")
}
