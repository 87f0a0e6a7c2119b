package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pool runs post-response side effects (question generation, email dispatch)
// off the request path. Tasks get a bounded timeout and a small retry budget;
// failures are logged and never affect the already-sent HTTP response.
type Pool struct {
	log      *zap.Logger
	tasks    chan task
	wg       sync.WaitGroup
	timeout  time.Duration
	retries  int
	backoff  time.Duration
	stopOnce sync.Once
}

type task struct {
	name string
	fn   func(ctx context.Context) error
}

func New(log *zap.Logger, size int) *Pool {
	if size < 1 {
		size = 4
	}
	p := &Pool{
		log:     log,
		tasks:   make(chan task, size*16),
		timeout: 2 * time.Minute,
		retries: 3,
		backoff: 2 * time.Second,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Submit enqueues a named task. It never blocks the caller: if the queue is
// full the task runs in its own goroutine instead.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) {
	t := task{name: name, fn: fn}
	select {
	case p.tasks <- t:
	default:
		go p.exec(t)
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.exec(t)
	}
}

func (p *Pool) exec(t task) {
	delay := p.backoff
	for attempt := 1; attempt <= p.retries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := t.fn(ctx)
		cancel()

		if err == nil {
			return
		}

		p.log.Warn("background task failed",
			zap.String("task", t.name),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < p.retries {
			time.Sleep(delay)
			delay *= 2
		}
	}
	p.log.Error("background task exhausted retries", zap.String("task", t.name))
}

// Stop drains queued tasks and waits for workers to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
