// Package notify holds the transient notifications ("snackbars") raised by
// the dashboard components and shown once by the next rendered page.
package notify

import (
	"sync"
	"time"
)

// Severity of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// DefaultAutoHide is how long a notification stays visible.
const DefaultAutoHide = 6 * time.Second

// Notification is a message with its severity.
type Notification struct {
	CreatedAt time.Time
	Message   string
	Severity  Severity
	AutoHide  time.Duration
}

// Notifier accepts notifications.
type Notifier interface {
	Notify(n Notification)
}

// Success builds a success notification.
func Success(msg string) Notification {
	return Notification{Message: msg, Severity: SeveritySuccess, AutoHide: DefaultAutoHide}
}

// Info builds an info notification.
func Info(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityInfo, AutoHide: DefaultAutoHide}
}

// Warning builds a warning notification.
func Warning(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityWarning, AutoHide: DefaultAutoHide}
}

// Error builds an error notification.
func Error(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityError, AutoHide: DefaultAutoHide}
}

// Queue is a bounded FIFO of notifications; once full the oldest entry is dropped.
type Queue struct {
	now   func() time.Time
	items []Notification
	limit int
	mu    sync.Mutex
}

// NewQueue creates a queue keeping at most limit notifications.
func NewQueue(limit int) *Queue {
	if limit < 1 {
		limit = 1
	}
	return &Queue{
		items: make([]Notification, 0, limit),
		limit: limit,
		now:   time.Now,
	}
}

// Notify implements Notifier.
func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = q.now()
	}
	if len(q.items) == q.limit {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
	}
	q.items = append(q.items, n)
}

// Drain returns the queued notifications in arrival order and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	q.items = q.items[:0]
	return out
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Recorder is a Notifier that keeps everything, used by tests.
type Recorder struct {
	items []Notification
	mu    sync.Mutex
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns how many notifications of severity s were recorded.
func (r *Recorder) Count(s Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Severity == s {
			n++
		}
	}
	return n
}
