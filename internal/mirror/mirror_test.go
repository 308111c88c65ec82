package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory stand-in for an owner-filtered remote
// collection with a change feed.
type fakeSource struct {
	mu       sync.Mutex
	docs     []string
	fetchErr error

	signals chan struct{}
	errs    chan error
}

func newFakeSource(docs ...string) *fakeSource {
	return &fakeSource{
		docs:    docs,
		signals: make(chan struct{}, 1),
		errs:    make(chan error, 1),
	}
}

func (s *fakeSource) fetch(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return append([]string(nil), s.docs...), nil
}

func (s *fakeSource) watch(_ context.Context) (<-chan struct{}, <-chan error, error) {
	return s.signals, s.errs, nil
}

func (s *fakeSource) set(docs ...string) {
	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	s.signals <- struct{}{}
}

func lexical(a, b string) bool { return a < b }

func TestStartLoadsInitialSnapshot(t *testing.T) {
	t.Parallel()
	source := newFakeSource("b", "a", "c")
	m := New(source.fetch, source.watch, lexical)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	assert.Equal(t, []string{"a", "b", "c"}, m.Snapshot())
	assert.NoError(t, m.Err())
}

func TestRemoteChangeReplacesWholeSnapshot(t *testing.T) {
	t.Parallel()
	source := newFakeSource("a")
	m := New(source.fetch, source.watch, lexical)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	source.set("z", "x")

	// The initial snapshot may still sit in the updates buffer; drain until
	// the refreshed one lands.
	deadline := time.After(time.Second)
	for {
		select {
		case snap := <-m.Updates():
			if len(snap) == 2 {
				assert.Equal(t, []string{"x", "z"}, snap)
				assert.Equal(t, []string{"x", "z"}, m.Snapshot())
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for the refreshed snapshot")
		}
	}
}

func TestRemoteDeleteShrinksSnapshot(t *testing.T) {
	t.Parallel()
	source := newFakeSource("a", "b")
	m := New(source.fetch, source.watch, lexical)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	source.set()

	assert.Eventually(t, func() bool { return len(m.Snapshot()) == 0 },
		time.Second, 5*time.Millisecond)
}

func TestInitialFetchFailureIsTerminal(t *testing.T) {
	t.Parallel()
	source := newFakeSource()
	source.fetchErr = errors.New("permission denied")
	m := New(source.fetch, source.watch, lexical)

	err := m.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, m.Err(), err)

	// The updates channel is already closed; consumers cannot block on it.
	_, open := <-m.Updates()
	assert.False(t, open)
}

func TestStreamErrorTerminatesWithoutRetry(t *testing.T) {
	t.Parallel()
	source := newFakeSource("a")
	m := New(source.fetch, source.watch, lexical)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	streamErr := errors.New("change stream torn down")
	source.errs <- streamErr

	assert.Eventually(t, func() bool { return m.Err() != nil },
		time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, m.Err(), streamErr)

	// The last good snapshot stays readable after termination.
	assert.Equal(t, []string{"a"}, m.Snapshot())
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()
	source := newFakeSource("a")
	m := New(source.fetch, source.watch, lexical)
	require.NoError(t, m.Start(context.Background()))

	m.Stop()
	m.Stop()

	assert.ErrorIs(t, m.Err(), ErrStopped)
}

func TestLatestSnapshotWinsOnSlowConsumer(t *testing.T) {
	t.Parallel()
	source := newFakeSource("v1")
	m := New(source.fetch, source.watch, lexical)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	source.set("v2")
	assert.Eventually(t, func() bool {
		snap := m.Snapshot()
		return len(snap) == 1 && snap[0] == "v2"
	}, time.Second, 5*time.Millisecond)
	source.set("v3")
	assert.Eventually(t, func() bool {
		snap := m.Snapshot()
		return len(snap) == 1 && snap[0] == "v3"
	}, time.Second, 5*time.Millisecond)

	// Nobody read the intermediate updates; the buffered one converges on
	// the latest state.
	deadline := time.After(time.Second)
	for {
		select {
		case snap := <-m.Updates():
			if len(snap) == 1 && snap[0] == "v3" {
				return
			}
		case <-deadline:
			t.Fatal("never received the latest snapshot")
		}
	}
}
