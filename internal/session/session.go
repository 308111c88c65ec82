// Package session ties the per-identity state handles (gamification ledger,
// ephemeral notification queue) to an explicit lifecycle. A session is
// created on the first authenticated request and torn down when the manager
// closes; nothing gamification-related lives in globals.
package session

import (
	"context"
	"sync"

	"github.com/walaz05/vivomejor/internal/game"
	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is one identity's live state.
type Session struct {
	UserID        primitive.ObjectID
	DisplayName   string
	Ledger        *game.Ledger
	Notifications *notify.Queue
}

// pending tracks one in-flight session start so concurrent requests for the
// same identity share it instead of each starting a ledger.
type pending struct {
	done chan struct{}
	sess *Session
	err  error
}

// Manager creates and owns sessions.
type Manager struct {
	store  game.ProgressStore
	center *notify.Center
	cues   game.CuePlayer

	mu       sync.Mutex
	sessions map[string]*Session
	starting map[string]*pending
}

func NewManager(store game.ProgressStore, center *notify.Center, cues game.CuePlayer) *Manager {
	return &Manager{
		store:    store,
		center:   center,
		cues:     cues,
		sessions: make(map[string]*Session),
		starting: make(map[string]*pending),
	}
}

// Get returns the session for an identity, creating and starting it on first
// use. The ledger mirror starts against a detached context so it outlives the
// request that happened to create it. Starting does I/O, so it happens
// outside the manager lock: a slow start for one identity must not stall
// lookups for everyone else.
func (m *Manager) Get(userID primitive.ObjectID, displayName string) (*Session, error) {
	key := userID.Hex()

	m.mu.Lock()
	if sess, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return sess, nil
	}
	if p, ok := m.starting[key]; ok {
		m.mu.Unlock()
		<-p.done
		return p.sess, p.err
	}
	p := &pending{done: make(chan struct{})}
	m.starting[key] = p
	m.mu.Unlock()

	queue := m.center.For(key)
	ledger := game.NewLedger(userID, m.store, m.cues, queue)
	err := ledger.Start(context.Background())

	m.mu.Lock()
	delete(m.starting, key)
	if err != nil {
		m.center.Drop(key)
		m.mu.Unlock()
		p.err = err
		close(p.done)
		return nil, err
	}

	sess := &Session{
		UserID:        userID,
		DisplayName:   displayName,
		Ledger:        ledger,
		Notifications: queue,
	}
	m.sessions[key] = sess
	m.mu.Unlock()

	p.sess = sess
	close(p.done)

	logger.Log.WithField("user_id", key).Info("Session started")
	return sess, nil
}

// Active returns a snapshot of the currently live sessions.
func (m *Manager) Active() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	return out
}

// Close stops every ledger and queue. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, sess := range m.sessions {
		sess.Ledger.Stop()
		m.center.Drop(key)
		delete(m.sessions, key)
	}
}
