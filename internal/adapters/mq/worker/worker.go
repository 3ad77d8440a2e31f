// Package worker runs the single consumer loop of a session queue.
//
// Exactly one goroutine applies events, which makes the handler the only
// writer of the state it owns.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/leaderview/internal/adapters/mq/queue"
	"github.com/okian/leaderview/pkg/logger"
	"github.com/okian/leaderview/pkg/metrics"
)

// Event abstracts what workers read off the queue.
type Event = queue.Event

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Handler applies a single event.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

// Worker processes events from a queue.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for the loop to exit.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for one queue.
type InMemoryWorker struct {
	queue   Queue
	handler Handler
	name    string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, handler Handler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		handler:  handler,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing event", logger.Error(err))
			}
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Shutdown stops the worker. Calling it more than once is safe.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) processEvent(ctx context.Context, event Event) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordErrorByComponent("worker", "panic")
			err = fmt.Errorf("handler panicked on %s: %v", event.Kind(), r)
		}
		w.logger.Debug(ctx, "event processed",
			logger.String("kind", event.Kind()),
			logger.Duration("took", time.Since(start)),
		)
	}()

	metrics.RecordViewMessage(event.Kind())
	if err := w.handler.Handle(ctx, event); err != nil {
		metrics.RecordErrorByComponent("worker", "handler_error")
		return fmt.Errorf("handling %s: %w", event.Kind(), err)
	}
	return nil
}
