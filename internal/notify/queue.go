// Package notify implements the ephemeral, time-windowed notification queue.
// Nothing here is ever persisted: a notification lives for the display
// window and disappears, whether or not anyone read it.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for the client.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	// KindInfo marks logical rejections like "already completed today":
	// not an error, just feedback.
	KindInfo Kind = "info"
)

// Notification is one transient user-facing message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type entry struct {
	notification Notification
	expiresAt    time.Time
}

// Queue is an insertion-ordered, self-draining queue of notifications for a
// single identity.
type Queue struct {
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries []entry
	timers  map[string]*time.Timer
	closed  bool
}

// NewQueue creates a queue whose notifications expire after window.
func NewQueue(window time.Duration) *Queue {
	return newQueue(window, time.Now)
}

func newQueue(window time.Duration, now func() time.Time) *Queue {
	return &Queue{
		window: window,
		now:    now,
		timers: make(map[string]*time.Timer),
	}
}

// Enqueue appends a notification and schedules its automatic removal after
// the display window.
func (q *Queue) Enqueue(message string, kind Kind) Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: q.now(),
	}
	if q.closed {
		return n
	}

	q.entries = append(q.entries, entry{
		notification: n,
		expiresAt:    n.CreatedAt.Add(q.window),
	})
	q.timers[n.ID] = time.AfterFunc(q.window, func() { q.Dismiss(n.ID) })
	return n
}

// Dismiss removes a notification immediately, no matter how much of its
// window is left. Dismissing an unknown or already-expired id is a no-op.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	for i, e := range q.entries {
		if e.notification.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

// List returns the live notifications in insertion order. Entries whose
// window has elapsed are excluded even if their removal timer has not fired
// yet, so the expiry boundary is exact.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	live := make([]Notification, 0, len(q.entries))
	for _, e := range q.entries {
		if now.Before(e.expiresAt) {
			live = append(live, e.notification)
		}
	}
	return live
}

// Close stops all pending removal timers and drops every entry. Further
// enqueues are ignored.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.entries = nil
	q.closed = true
}
