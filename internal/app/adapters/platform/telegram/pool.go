package telegram

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrQueueFull  = errors.New("worker pool queue is full")
	ErrPoolClosed = errors.New("worker pool is stopped")
)

// Pool - воркеры с шардированием по ключу: задачи одного чата выполняются по очереди
// одним воркером, разные чаты обрабатываются параллельно.
type Pool struct {
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	shards []chan func()
}

func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{shards: make([]chan func(), workers)}
	for i := range p.shards {
		p.shards[i] = make(chan func(), queueSize)
		p.wg.Add(1)
		go p.worker(p.shards[i])
	}
	return p
}

func (p *Pool) Submit(key int64, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.shards[uint64(key)%uint64(len(p.shards))] <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// SubmitWait ждёт места в очереди шарда, пока не отменён ctx.
func (p *Pool) SubmitWait(ctx context.Context, key int64, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.shards[uint64(key)%uint64(len(p.shards))] <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop дожидается выполнения уже принятых задач.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, ch := range p.shards {
		close(ch)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker(tasks <-chan func()) {
	defer p.wg.Done()

	for task := range tasks {
		task()
	}
}
