package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss возвращается, когда ключа нет или его TTL истек.
// Чтение просроченной записи неотличимо от промаха.
var ErrCacheMiss = errors.New("cache miss")

// Store - абстракция key-value хранилища с TTL и инвалидацией по маске.
// Реализации: Memory (один процесс) и Redis (общий кэш для нескольких
// инстансов). Ошибки Store никогда не фатальны для запроса - вызывающая
// сторона обязана трактовать их как промах.
type Store interface {
	// Get возвращает сырое значение по ключу или ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)
	// Set сохраняет значение; ttl <= 0 означает "без истечения"
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete удаляет один ключ; отсутствие ключа - не ошибка
	Delete(ctx context.Context, key string) error
	// DeletePattern удаляет все ключи по glob-маске ("games:*")
	DeletePattern(ctx context.Context, pattern string) error
	// Close освобождает ресурсы бэкенда
	Close() error
}
