// Package mirror keeps a local, always-current copy of an owner-filtered
// remote collection. On every remote change the whole snapshot is refetched
// and replaced; consumers read the latest snapshot or receive it on a
// channel. For the per-user dataset sizes this app deals with, full
// replacement is cheaper than reconciling diffs.
package mirror

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/walaz05/vivomejor/pkg/logger"
)

// ErrStopped is reported when the mirror was shut down by its consumer
// rather than by a stream failure.
var ErrStopped = errors.New("mirror: stopped")

// FetchFunc loads the full owner-filtered document set. The owner filter is
// bound in by whoever constructs the mirror; the mirror itself has no way to
// widen it.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// WatchFunc opens the remote change feed: a signal per remote change, a
// channel carrying at most one terminal stream error, and a setup error.
type WatchFunc func(ctx context.Context) (<-chan struct{}, <-chan error, error)

// Mirror is a live local view of a remote collection.
type Mirror[T any] struct {
	fetch FetchFunc[T]
	watch WatchFunc
	less  func(a, b T) bool

	mu   sync.RWMutex
	snap []T
	err  error

	updates chan []T
	cancel  context.CancelFunc
	done    chan struct{}
	stop    sync.Once
}

// New builds a mirror. less, when non-nil, is the deterministic local sort
// applied to every snapshot (for stores that do not guarantee order).
func New[T any](fetch FetchFunc[T], watch WatchFunc, less func(a, b T) bool) *Mirror[T] {
	return &Mirror[T]{
		fetch:   fetch,
		watch:   watch,
		less:    less,
		updates: make(chan []T, 1),
		done:    make(chan struct{}),
	}
}

// Start performs the initial fetch, opens the change feed and begins
// mirroring. It returns an error if either the fetch or the subscription
// cannot be established; in that case the mirror is unusable and no
// goroutine is left behind.
func (m *Mirror[T]) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	docs, err := m.fetch(runCtx)
	if err != nil {
		cancel()
		close(m.done)
		close(m.updates)
		m.fail(err)
		return err
	}
	m.replace(docs)

	signals, errs, err := m.watch(runCtx)
	if err != nil {
		cancel()
		close(m.done)
		close(m.updates)
		m.fail(err)
		return err
	}

	go m.run(runCtx, signals, errs)
	return nil
}

func (m *Mirror[T]) run(ctx context.Context, signals <-chan struct{}, errs <-chan error) {
	defer close(m.done)
	defer close(m.updates)

	for {
		select {
		case <-ctx.Done():
			m.fail(ErrStopped)
			return
		case err := <-errs:
			// Terminal stream failure (e.g. permission denial). No
			// auto-retry: retrying is the caller's policy.
			m.fail(err)
			return
		case _, ok := <-signals:
			if !ok {
				m.fail(ErrStopped)
				return
			}
			docs, err := m.fetch(ctx)
			if err != nil {
				logger.Log.WithError(err).Warn("Mirror refetch failed, stream terminated")
				m.fail(err)
				return
			}
			m.replace(docs)
		}
	}
}

// replace swaps in the new full snapshot and publishes it, dropping any
// unconsumed previous update so the consumer always sees the latest state.
func (m *Mirror[T]) replace(docs []T) {
	if m.less != nil {
		sort.SliceStable(docs, func(i, j int) bool { return m.less(docs[i], docs[j]) })
	}

	m.mu.Lock()
	m.snap = docs
	m.mu.Unlock()

	select {
	case <-m.updates:
	default:
	}
	select {
	case m.updates <- docs:
	default:
	}
}

func (m *Mirror[T]) fail(err error) {
	m.mu.Lock()
	if m.err == nil {
		m.err = err
	}
	m.mu.Unlock()
}

// Snapshot returns the latest full document set. The returned slice must be
// treated as read-only.
func (m *Mirror[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Updates delivers each new snapshot. The channel is closed when the mirror
// terminates; check Err afterwards to distinguish a stop from a failure.
func (m *Mirror[T]) Updates() <-chan []T {
	return m.updates
}

// Err reports the terminal failure, ErrStopped after a clean Stop, or nil
// while the mirror is live.
func (m *Mirror[T]) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Stop releases the subscription. Idempotent; it must be called before the
// consumer goes away or the stream leaks.
func (m *Mirror[T]) Stop() {
	m.stop.Do(func() {
		if m.cancel != nil {
			m.cancel()
			<-m.done
		}
	})
}
