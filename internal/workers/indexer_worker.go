package workers

import (
	"context"
	"time"

	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/search"
)

type jobKind int

const (
	jobIndex jobKind = iota
	jobDelete
)

// IndexJob - единица работы индексного воркера
type IndexJob struct {
	kind jobKind
	doc  search.GameDocument
	id   string
}

func IndexGame(doc search.GameDocument) IndexJob {
	return IndexJob{kind: jobIndex, doc: doc}
}

func DeleteGame(id string) IndexJob {
	return IndexJob{kind: jobDelete, id: id}
}

// GameIndex - то, что воркеру нужно от поискового адаптера
type GameIndex interface {
	Available() bool
	Index(ctx context.Context, doc search.GameDocument) error
	Remove(ctx context.Context, id string) error
}

// Indexer асинхронно переносит изменения игр в поисковый индекс.
// Мутация каталога никогда не ждет индексации: задания кладутся в буфер,
// один потребитель разбирает их по очереди. Переполненный буфер означает,
// что индекс сильно отстал - задание роняется с логом, полная
// переиндексация догонит пропуски.
type Indexer struct {
	index GameIndex
	jobs  chan IndexJob
	done  chan struct{}
}

func NewIndexer(index GameIndex, queueSize int) *Indexer {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Indexer{
		index: index,
		jobs:  make(chan IndexJob, queueSize),
		done:  make(chan struct{}),
	}
}

// Enqueue не блокирует вызывающего ни при каких обстоятельствах
func (w *Indexer) Enqueue(job IndexJob) {
	select {
	case w.jobs <- job:
	default:
		logger.WorkerLog("indexer", "queue full, job dropped", nil)
	}
}

// Run запускает цикл потребителя; завершается по отмене контекста
func (w *Indexer) Run(ctx context.Context) {
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-w.jobs:
				w.process(ctx, job)
			}
		}
	}()
}

// Wait блокируется до остановки цикла потребителя
func (w *Indexer) Wait() {
	<-w.done
}

func (w *Indexer) process(ctx context.Context, job IndexJob) {
	if !w.index.Available() {
		return
	}

	err := w.execute(ctx, job)
	if err == nil {
		return
	}

	// одна повторная попытка после паузы; дальше сдаемся - полная
	// переиндексация восстановит документ
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	if err := w.execute(ctx, job); err != nil {
		logger.WorkerLog("indexer", "job failed after retry", err)
	}
}

func (w *Indexer) execute(ctx context.Context, job IndexJob) error {
	switch job.kind {
	case jobDelete:
		return w.index.Remove(ctx, job.id)
	default:
		return w.index.Index(ctx, job.doc)
	}
}
