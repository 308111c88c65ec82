package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/walaz05/vivomejor/internal/game"
	"github.com/walaz05/vivomejor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeItemRepo struct {
	items map[primitive.ObjectID]*models.Item

	completeCalls int
	completeErr   error
	matched       bool
}

func newFakeItemRepo(items ...*models.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[primitive.ObjectID]*models.Item), matched: true}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeItemRepo) Create(_ context.Context, item *models.Item) (*models.Item, error) {
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	r.items[item.ID] = item
	return item, nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errors.New("no documents in result")
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) List(_ context.Context, userID primitive.ObjectID, kind models.ItemKind) ([]models.Item, error) {
	var out []models.Item
	for _, it := range r.items {
		if it.UserID == userID && (kind == "" || it.Kind == kind) {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) CompleteHabit(_ context.Context, id, userID primitive.ObjectID, prev *time.Time, completedAt time.Time) (bool, error) {
	r.completeCalls++
	if r.completeErr != nil {
		return false, r.completeErr
	}
	if !r.matched {
		return false, nil
	}
	item := r.items[id]
	item.Streak++
	item.LastCompleted = &completedAt
	return true, nil
}

func (r *fakeItemRepo) SetGoalCompleted(_ context.Context, id, userID primitive.ObjectID, completed bool) error {
	r.items[id].Completed = completed
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	delete(r.items, id)
	return nil
}

type fakeAwarder struct {
	awards []float64
	err    error
}

func (a *fakeAwarder) AwardXP(_ context.Context, amount float64) (*game.Award, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.awards = append(a.awards, amount)
	return &game.Award{XP: amount, Level: 1}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateItem(t *testing.T) {
	t.Parallel()
	userID := primitive.NewObjectID()

	testCases := []struct {
		Desc   string
		Kind   models.ItemKind
		Name   string
		Target int
		Error  error
	}{
		{Desc: "habit with explicit target", Kind: models.KindHabit, Name: "Leer", Target: 21},
		{Desc: "habit gets default target", Kind: models.KindHabit, Name: "Beber agua"},
		{Desc: "goal", Kind: models.KindGoal, Name: "Correr 10k"},
		{Desc: "empty name rejected", Kind: models.KindHabit, Name: "", Error: ErrEmptyName},
		{Desc: "negative target rejected", Kind: models.KindHabit, Name: "Leer", Target: -3, Error: ErrInvalidTarget},
	}

	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			serv := NewItemService(newFakeItemRepo())
			item, err := serv.CreateItem(context.Background(), userID, tc.Kind, tc.Name, tc.Target)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Kind, item.Kind)
			if tc.Kind == models.KindHabit {
				want := tc.Target
				if want == 0 {
					want = DefaultHabitTarget
				}
				assert.Equal(t, want, item.Target)
				assert.Zero(t, item.Streak)
			}
		})
	}
}

func TestCompleteToday(t *testing.T) {
	t.Parallel()
	userID := primitive.NewObjectID()
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.Local)
	yesterday := now.Add(-24 * time.Hour)
	earlierToday := now.Add(-6 * time.Hour)

	habit := func(last *time.Time, streak int) *models.Item {
		return &models.Item{
			ID:            primitive.NewObjectID(),
			UserID:        userID,
			Kind:          models.KindHabit,
			Name:          "Meditar",
			Streak:        streak,
			LastCompleted: last,
		}
	}

	t.Run("first completion of the day increments streak and awards XP", func(t *testing.T) {
		item := habit(&yesterday, 4)
		repo := newFakeItemRepo(item)
		awarder := &fakeAwarder{}
		serv := &ItemService{repo: repo, now: fixedClock(now)}

		got, err := serv.CompleteToday(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Streak)
		require.NotNil(t, got.LastCompleted)
		assert.True(t, got.LastCompleted.Equal(now))
		assert.Equal(t, []float64{HabitCompletionXP}, awarder.awards)
	})

	t.Run("never-completed habit starts its streak", func(t *testing.T) {
		item := habit(nil, 0)
		repo := newFakeItemRepo(item)
		awarder := &fakeAwarder{}
		serv := &ItemService{repo: repo, now: fixedClock(now)}

		got, err := serv.CompleteToday(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Streak)
	})

	t.Run("second completion the same day is rejected without writes", func(t *testing.T) {
		item := habit(&earlierToday, 5)
		repo := newFakeItemRepo(item)
		awarder := &fakeAwarder{}
		serv := &ItemService{repo: repo, now: fixedClock(now)}

		_, err := serv.CompleteToday(context.Background(), userID, item.ID.Hex(), awarder)
		assert.ErrorIs(t, err, ErrAlreadyCompletedToday)
		assert.Zero(t, repo.completeCalls)
		assert.Empty(t, awarder.awards)
		assert.Equal(t, 5, repo.items[item.ID].Streak)
	})

	t.Run("lost conditional write reads as already completed", func(t *testing.T) {
		item := habit(&yesterday, 4)
		repo := newFakeItemRepo(item)
		repo.matched = false
		awarder := &fakeAwarder{}
		serv := &ItemService{repo: repo, now: fixedClock(now)}

		_, err := serv.CompleteToday(context.Background(), userID, item.ID.Hex(), awarder)
		assert.ErrorIs(t, err, ErrAlreadyCompletedToday)
		assert.Empty(t, awarder.awards)
	})

	t.Run("failed award does not undo the completion", func(t *testing.T) {
		item := habit(&yesterday, 4)
		repo := newFakeItemRepo(item)
		awarder := &fakeAwarder{err: errors.New("store down")}
		serv := &ItemService{repo: repo, now: fixedClock(now)}

		got, err := serv.CompleteToday(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Streak)
	})

	t.Run("completion on a new calendar day after midnight", func(t *testing.T) {
		lateYesterday := time.Date(2026, 3, 13, 23, 59, 0, 0, time.Local)
		justAfterMidnight := time.Date(2026, 3, 14, 0, 1, 0, 0, time.Local)
		item := habit(&lateYesterday, 1)
		repo := newFakeItemRepo(item)
		awarder := &fakeAwarder{}
		serv := &ItemService{repo: repo, now: fixedClock(justAfterMidnight)}

		got, err := serv.CompleteToday(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Streak)
	})

	t.Run("wrong owner", func(t *testing.T) {
		item := habit(nil, 0)
		repo := newFakeItemRepo(item)
		serv := &ItemService{repo: repo, now: fixedClock(now)}

		_, err := serv.CompleteToday(context.Background(), primitive.NewObjectID(), item.ID.Hex(), &fakeAwarder{})
		assert.ErrorIs(t, err, ErrWrongOwner)
	})

	t.Run("goal cannot be completed as habit", func(t *testing.T) {
		item := &models.Item{ID: primitive.NewObjectID(), UserID: userID, Kind: models.KindGoal, Name: "Viajar"}
		repo := newFakeItemRepo(item)
		serv := &ItemService{repo: repo, now: fixedClock(now)}

		_, err := serv.CompleteToday(context.Background(), userID, item.ID.Hex(), &fakeAwarder{})
		assert.ErrorIs(t, err, ErrWrongKind)
	})

	t.Run("unknown item", func(t *testing.T) {
		serv := &ItemService{repo: newFakeItemRepo(), now: fixedClock(now)}
		_, err := serv.CompleteToday(context.Background(), userID, primitive.NewObjectID().Hex(), &fakeAwarder{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestToggleGoal(t *testing.T) {
	t.Parallel()
	userID := primitive.NewObjectID()

	goal := func(completed bool) *models.Item {
		return &models.Item{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Kind:      models.KindGoal,
			Name:      "Ahorrar para el viaje",
			Completed: completed,
		}
	}

	t.Run("completing awards XP once", func(t *testing.T) {
		item := goal(false)
		repo := newFakeItemRepo(item)
		awarder := &fakeAwarder{}
		serv := NewItemService(repo)

		got, err := serv.ToggleGoal(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, []float64{GoalCompletionXP}, awarder.awards)
	})

	t.Run("unchecking awards nothing", func(t *testing.T) {
		item := goal(true)
		repo := newFakeItemRepo(item)
		awarder := &fakeAwarder{}
		serv := NewItemService(repo)

		got, err := serv.ToggleGoal(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		assert.False(t, got.Completed)
		assert.Empty(t, awarder.awards)
	})

	t.Run("re-completing awards again on each false to true edge", func(t *testing.T) {
		item := goal(false)
		repo := newFakeItemRepo(item)
		awarder := &fakeAwarder{}
		serv := NewItemService(repo)

		_, err := serv.ToggleGoal(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		_, err = serv.ToggleGoal(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		_, err = serv.ToggleGoal(context.Background(), userID, item.ID.Hex(), awarder)
		require.NoError(t, err)
		assert.Equal(t, []float64{GoalCompletionXP, GoalCompletionXP}, awarder.awards)
	})

	t.Run("habit cannot be toggled as goal", func(t *testing.T) {
		item := &models.Item{ID: primitive.NewObjectID(), UserID: userID, Kind: models.KindHabit, Name: "Leer"}
		repo := newFakeItemRepo(item)
		serv := NewItemService(repo)

		_, err := serv.ToggleGoal(context.Background(), userID, item.ID.Hex(), &fakeAwarder{})
		assert.ErrorIs(t, err, ErrWrongKind)
	})
}
