package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeProgressStore struct {
	mu      sync.Mutex
	xp      float64
	level   int
	sets    [][2]float64
	signals chan struct{}
}

func newFakeProgressStore(xp float64, level int) *fakeProgressStore {
	return &fakeProgressStore{xp: xp, level: level, signals: make(chan struct{}, 1)}
}

func (s *fakeProgressStore) Ensure(_ context.Context, _ primitive.ObjectID) error { return nil }

func (s *fakeProgressStore) Get(_ context.Context, userID primitive.ObjectID) (*models.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.Progress{UserID: userID, XP: s.xp, Level: s.level}, nil
}

func (s *fakeProgressStore) SetProgress(_ context.Context, _ primitive.ObjectID, xp float64, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xp = xp
	s.level = level
	s.sets = append(s.sets, [2]float64{xp, float64(level)})
	return nil
}

func (s *fakeProgressStore) Watch(_ context.Context, _ primitive.ObjectID) (<-chan struct{}, <-chan error, error) {
	return s.signals, make(chan error), nil
}

// signal mimics a remote change event landing on the stream.
func (s *fakeProgressStore) signal() {
	select {
	case s.signals <- struct{}{}:
	default:
	}
}

type cueRecorder struct {
	mu   sync.Mutex
	cues []Cue
}

func (r *cueRecorder) Play(cue Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

func (r *cueRecorder) played() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cue(nil), r.cues...)
}

type notificationRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *notificationRecorder) Enqueue(message string, kind notify.Kind) notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return notify.Notification{Message: message, Kind: kind}
}

func (r *notificationRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func startLedger(t *testing.T, store *fakeProgressStore) (*Ledger, *cueRecorder, *notificationRecorder) {
	t.Helper()
	cues := &cueRecorder{}
	notifier := &notificationRecorder{}
	ledger := NewLedger(primitive.NewObjectID(), store, cues, notifier)
	require.NoError(t, ledger.Start(context.Background()))
	t.Cleanup(ledger.Stop)
	return ledger, cues, notifier
}

func TestXPToNextLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 150.0, XPToNextLevel(1))
	assert.Equal(t, 300.0, XPToNextLevel(2))
	assert.Equal(t, 750.0, XPToNextLevel(5))
}

func TestAwardXPBelowThreshold(t *testing.T) {
	t.Parallel()
	store := newFakeProgressStore(90, 1)
	ledger, cues, notifier := startLedger(t, store)

	award, err := ledger.AwardXP(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 140.0, award.XP)
	assert.Equal(t, 1, award.Level)
	assert.False(t, award.LeveledUp)

	assert.Equal(t, []Cue{CueSuccess}, cues.played())
	assert.Empty(t, notifier.all())
}

func TestAwardXPLevelUp(t *testing.T) {
	t.Parallel()
	store := newFakeProgressStore(140, 1)
	ledger, cues, notifier := startLedger(t, store)

	award, err := ledger.AwardXP(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 190.0, award.XP, "XP is lifetime-cumulative, not reset on level-up")
	assert.Equal(t, 2, award.Level)
	assert.True(t, award.LeveledUp)

	assert.Equal(t, []Cue{CueSuccess, CueLevelUp}, cues.played())
	messages := notifier.all()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "NIVEL 2")
}

func TestAwardXPAdvancesAtMostOneLevel(t *testing.T) {
	t.Parallel()
	store := newFakeProgressStore(0, 1)
	ledger, cues, _ := startLedger(t, store)

	// 1000 XP crosses the level 1 and level 2 thresholds in one step.
	award, err := ledger.AwardXP(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, award.XP)
	assert.Equal(t, 2, award.Level)
	assert.True(t, award.LeveledUp)

	assert.Equal(t, []Cue{CueSuccess, CueLevelUp}, cues.played())
}

func TestAwardXPRejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()
	store := newFakeProgressStore(0, 1)
	ledger, cues, _ := startLedger(t, store)

	_, err := ledger.AwardXP(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ledger.AwardXP(context.Background(), -10)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Empty(t, store.sets)
	assert.Empty(t, cues.played())
}

func TestAwardXPRequiresIdentity(t *testing.T) {
	t.Parallel()
	ledger := NewLedger(primitive.NilObjectID, newFakeProgressStore(0, 1), &cueRecorder{}, &notificationRecorder{})

	assert.ErrorIs(t, ledger.Start(context.Background()), ErrNoIdentity)
	_, err := ledger.AwardXP(context.Background(), 50)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestLedgerFollowsRemoteChanges(t *testing.T) {
	t.Parallel()
	store := newFakeProgressStore(0, 1)
	ledger, _, _ := startLedger(t, store)

	// Another device levels the user up behind our back.
	store.mu.Lock()
	store.xp = 500
	store.level = 3
	store.mu.Unlock()
	store.signal()

	assert.Eventually(t, func() bool {
		return ledger.Level() == 3 && ledger.XP() == 500
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 450.0, ledger.NextLevelXP())
}
