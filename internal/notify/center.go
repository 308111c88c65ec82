package notify

import (
	"sync"
	"time"
)

// Center hands out one notification queue per identity, created on demand.
// Queues are in-memory only and die with the center.
type Center struct {
	window time.Duration

	mu     sync.Mutex
	queues map[string]*Queue
}

// NewCenter creates a center whose queues use the given display window.
func NewCenter(window time.Duration) *Center {
	return &Center{
		window: window,
		queues: make(map[string]*Queue),
	}
}

// For returns the queue for a user, creating it on first use.
func (c *Center) For(userID string) *Queue {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, ok := c.queues[userID]
	if !ok {
		q = NewQueue(c.window)
		c.queues[userID] = q
	}
	return q
}

// Drop closes and forgets a user's queue, if any.
func (c *Center) Drop(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if q, ok := c.queues[userID]; ok {
		q.Close()
		delete(c.queues, userID)
	}
}

// Close shuts down every queue.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, q := range c.queues {
		q.Close()
		delete(c.queues, id)
	}
}
