// Package notify delivers human-readable failure messages from the HTTP
// layer to whatever is showing them. A Sink is injected at construction;
// there is no process-wide handler.
package notify

import (
	"log/slog"
	"sync"
)

// Sink receives user-facing messages. Report must not block.
type Sink interface {
	Report(message string)
}

// Nop discards every message.
type Nop struct{}

// Report implements Sink.
func (Nop) Report(string) {}

// Func adapts a function to the Sink interface.
type Func func(message string)

// Report implements Sink.
func (f Func) Report(message string) { f(message) }

// Logger writes each message to an slog logger at warn level.
type Logger struct {
	Log *slog.Logger
}

// Report implements Sink.
func (l Logger) Report(message string) {
	if l.Log == nil {
		return
	}
	l.Log.Warn("notification", "message", message)
}

// Multi fans a message out to several sinks in order.
type Multi []Sink

// Report implements Sink.
func (m Multi) Report(message string) {
	for _, s := range m {
		s.Report(message)
	}
}

// Queue buffers messages for a single consumer, usually the terminal UI's
// toast. When the buffer is full the oldest message is dropped so Report
// never blocks the caller.
type Queue struct {
	mu sync.Mutex
	ch chan string
}

// NewQueue creates a Queue holding up to capacity pending messages.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan string, capacity)}
}

// Report implements Sink.
func (q *Queue) Report(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case q.ch <- message:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// C returns the receive side of the queue.
func (q *Queue) C() <-chan string {
	return q.ch
}
