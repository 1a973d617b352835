package jobs

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrQueueFull is returned by Submit when the task queue is at capacity.
var ErrQueueFull = errors.New("job queue is full")

// Pool runs submitted generation tasks on a fixed set of workers behind a
// bounded queue. Each task gets a context so a future caller can cancel
// in-flight work; nothing exercises cancellation today.
type Pool struct {
	queue  chan func(context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(workers, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		queue:  make(chan func(context.Context), queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			task(p.ctx)
		}
	}
}

// Submit enqueues a task; it fails fast with ErrQueueFull instead of
// blocking the HTTP handler that called it.
func (p *Pool) Submit(task func(context.Context)) error {
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop cancels the pool context and waits for workers to drain.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
	log.Println("worker pool stopped")
}
