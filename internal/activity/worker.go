package activity

import (
	"context"
	"log/slog"
	"sync"
)

// Worker delivers events to a Sink from a single goroutine, in the order
// they were logged.
type Worker struct {
	sink  Sink
	queue chan Event

	// mu guards closed and the send side of queue.
	mu     sync.RWMutex
	closed bool

	running sync.WaitGroup
	stop    sync.Once
}

// NewWorker returns a worker that buffers up to bufferSize events.
func NewWorker(sink Sink, bufferSize int) *Worker {
	return &Worker{
		sink:  sink,
		queue: make(chan Event, bufferSize),
	}
}

// Start launches the delivery goroutine.
func (w *Worker) Start() {
	w.running.Add(1)
	go w.deliver()
}

func (w *Worker) deliver() {
	defer w.running.Done()
	for event := range w.queue {
		// Delivery outlives any caller context: a queued event is saved even
		// while the worker is shutting down.
		if err := w.sink.Save(context.Background(), event); err != nil {
			slog.Error("failed to save event", "error", err, "event_type", event.Type, "event_id", event.ID)
		}
	}
	slog.Debug("activity worker stopped")
}

// Log enqueues an event. It never blocks: the event is dropped when the
// buffer is full or the worker has been shut down.
func (w *Worker) Log(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		slog.Warn("activity worker stopped, dropping event", "event_type", event.Type)
		return
	}
	select {
	case w.queue <- event:
	default:
		slog.Warn("event channel full, dropping event", "event_type", event.Type)
	}
}

// Shutdown stops accepting events and returns once every queued event has
// been handed to the sink. It is safe to call more than once.
func (w *Worker) Shutdown() {
	w.stop.Do(func() {
		w.mu.Lock()
		w.closed = true
		pending := len(w.queue)
		close(w.queue)
		w.mu.Unlock()

		slog.Debug("draining events before shutdown", "remaining_events", pending)
		w.running.Wait()
	})
}
