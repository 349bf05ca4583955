package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/search"
)

func init() {
	logger.Init("test")
}

type recordingIndex struct {
	mu        sync.Mutex
	available bool
	indexed   []string
	removed   []string
	failFirst bool
	failures  int
}

func (r *recordingIndex) Available() bool { return r.available }

func (r *recordingIndex) Index(ctx context.Context, doc search.GameDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFirst && len(r.indexed) == 0 && r.failures == 0 {
		r.failures++
		return assert.AnError
	}
	r.indexed = append(r.indexed, doc.ID)
	return nil
}

func (r *recordingIndex) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
	return nil
}

func (r *recordingIndex) indexedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.indexed))
	copy(out, r.indexed)
	return out
}

func (r *recordingIndex) removedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.removed))
	copy(out, r.removed)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("условие не выполнилось за отведенное время")
}

func TestIndexer_ProcessesJobsInOrder(t *testing.T) {
	index := &recordingIndex{available: true}
	w := NewIndexer(index, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Run(ctx)

	w.Enqueue(IndexGame(search.GameDocument{ID: "g1"}))
	w.Enqueue(IndexGame(search.GameDocument{ID: "g2"}))
	w.Enqueue(DeleteGame("g3"))

	waitFor(t, func() bool { return len(index.removedIDs()) == 1 })

	assert.Equal(t, []string{"g1", "g2"}, index.indexedIDs())
	assert.Equal(t, []string{"g3"}, index.removedIDs())
}

func TestIndexer_SkipsWhenIndexUnavailable(t *testing.T) {
	index := &recordingIndex{available: false}
	w := NewIndexer(index, 8)

	ctx, cancel := context.WithCancel(context.Background())
	w.Run(ctx)

	w.Enqueue(IndexGame(search.GameDocument{ID: "g1"}))

	time.Sleep(50 * time.Millisecond)
	cancel()
	w.Wait()

	assert.Empty(t, index.indexedIDs())
}

func TestIndexer_EnqueueNeverBlocks(t *testing.T) {
	index := &recordingIndex{available: true}
	w := NewIndexer(index, 1)
	// потребитель не запущен: буфер переполняется сразу

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			w.Enqueue(DeleteGame("g"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue заблокировался на полном буфере")
	}
}

func TestIndexer_StopsOnContextCancel(t *testing.T) {
	index := &recordingIndex{available: true}
	w := NewIndexer(index, 8)

	ctx, cancel := context.WithCancel(context.Background())
	w.Run(ctx)
	cancel()

	stopped := make(chan struct{})
	go func() {
		w.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("воркер не остановился после отмены контекста")
	}
}

func TestIndexer_RetriesFailedJob(t *testing.T) {
	index := &recordingIndex{available: true, failFirst: true}
	w := NewIndexer(index, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Run(ctx)

	w.Enqueue(IndexGame(search.GameDocument{ID: "g1"}))

	// первая попытка падает, повтор через паузу должен пройти
	waitFor(t, func() bool { return len(index.indexedIDs()) == 1 })
	require.Equal(t, []string{"g1"}, index.indexedIDs())
}

func TestNewIndexer_DefaultQueueSize(t *testing.T) {
	w := NewIndexer(&recordingIndex{}, 0)
	assert.Equal(t, 256, cap(w.jobs))
}
