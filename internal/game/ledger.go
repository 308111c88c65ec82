// Package game owns level and experience points: the award operation, the
// level curve, and the feedback side effects.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/walaz05/vivomejor/internal/mirror"
	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNoIdentity rejects an award with no authenticated user behind it.
	ErrNoIdentity = errors.New("game: no authenticated identity")
	// ErrInvalidAmount rejects a non-positive XP amount before any store call.
	ErrInvalidAmount = errors.New("game: award amount must be positive")
)

// XPToNextLevel is the difficulty curve: the lifetime XP required to leave
// the given level. It is always recomputed from the current level, never
// cached.
func XPToNextLevel(level int) float64 {
	return float64(level) * 100 * 1.5
}

// ProgressStore is the slice of the repository the ledger needs.
type ProgressStore interface {
	Ensure(ctx context.Context, userID primitive.ObjectID) error
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Progress, error)
	SetProgress(ctx context.Context, userID primitive.ObjectID, xp float64, level int) error
	Watch(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, <-chan error, error)
}

// Notifier is the slice of the notification queue the ledger needs.
type Notifier interface {
	Enqueue(message string, kind notify.Kind) notify.Notification
}

// Award is the outcome of one AwardXP call.
type Award struct {
	XP        float64 `json:"xp"`
	Level     int     `json:"level"`
	LeveledUp bool    `json:"leveled_up"`
}

// Ledger is the authoritative in-process view of one identity's progress,
// kept consistent with the remote document through the mirror pattern. It is
// an explicitly owned handle: constructed at session start, stopped at
// session end, never global.
type Ledger struct {
	userID   primitive.ObjectID
	store    ProgressStore
	cues     CuePlayer
	notifier Notifier

	mu    sync.RWMutex
	level int
	xp    float64

	view *mirror.Mirror[models.Progress]
	done chan struct{}
}

// NewLedger builds a ledger for one identity. cues and notifier may not be
// nil; pass LogCuePlayer and a session queue.
func NewLedger(userID primitive.ObjectID, store ProgressStore, cues CuePlayer, notifier Notifier) *Ledger {
	return &Ledger{
		userID:   userID,
		store:    store,
		cues:     cues,
		notifier: notifier,
		level:    1,
		xp:       0,
		done:     make(chan struct{}),
	}
}

// Start initializes the remote document if the identity has none yet and
// begins mirroring it. Local level/xp change only when the stream confirms a
// write; there is no optimistic merge.
func (l *Ledger) Start(ctx context.Context) error {
	if l.userID.IsZero() {
		return ErrNoIdentity
	}

	if err := l.store.Ensure(ctx, l.userID); err != nil {
		return fmt.Errorf("failed to initialize progress: %w", err)
	}

	fetch := func(ctx context.Context) ([]models.Progress, error) {
		p, err := l.store.Get(ctx, l.userID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []models.Progress{*p}, nil
	}
	watch := func(ctx context.Context) (<-chan struct{}, <-chan error, error) {
		return l.store.Watch(ctx, l.userID)
	}

	l.view = mirror.New[models.Progress](fetch, watch, nil)
	if err := l.view.Start(ctx); err != nil {
		return err
	}
	l.apply(l.view.Snapshot())

	go func() {
		defer close(l.done)
		for snap := range l.view.Updates() {
			l.apply(snap)
		}
	}()
	return nil
}

func (l *Ledger) apply(snap []models.Progress) {
	if len(snap) == 0 {
		return
	}
	l.mu.Lock()
	l.xp = snap[0].XP
	l.level = snap[0].Level
	l.mu.Unlock()
}

// AwardXP adds experience points and advances the level by at most one, even
// when the award crosses several thresholds in a single step. The persisted
// update touches only xp and level. The success cue always fires; the
// level-up cue and notification fire only when the level advanced.
func (l *Ledger) AwardXP(ctx context.Context, amount float64) (*Award, error) {
	if l.userID.IsZero() {
		return nil, ErrNoIdentity
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	l.mu.RLock()
	xp, level := l.xp, l.level
	l.mu.RUnlock()

	newXP := xp + amount
	newLevel := level
	leveledUp := false
	if newXP >= XPToNextLevel(level) {
		newLevel++
		leveledUp = true
	}

	if err := l.store.SetProgress(ctx, l.userID, newXP, newLevel); err != nil {
		l.notifier.Enqueue("No se pudo guardar tu progreso", notify.KindError)
		return nil, fmt.Errorf("failed to persist award: %w", err)
	}

	l.cues.Play(CueSuccess)
	if leveledUp {
		l.cues.Play(CueLevelUp)
		l.notifier.Enqueue(fmt.Sprintf("¡NIVEL %d ALCANZADO! 🎉", newLevel), notify.KindSuccess)
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id":    l.userID.Hex(),
		"amount":     amount,
		"new_xp":     newXP,
		"new_level":  newLevel,
		"leveled_up": leveledUp,
	}).Info("XP awarded")

	return &Award{XP: newXP, Level: newLevel, LeveledUp: leveledUp}, nil
}

// Level returns the current mirrored level.
func (l *Ledger) Level() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// XP returns the current mirrored lifetime XP.
func (l *Ledger) XP() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.xp
}

// NextLevelXP returns the threshold for the current level.
func (l *Ledger) NextLevelXP() float64 {
	return XPToNextLevel(l.Level())
}

// Stop releases the underlying subscription. Idempotent.
func (l *Ledger) Stop() {
	if l.view != nil {
		l.view.Stop()
		<-l.done
	}
}
