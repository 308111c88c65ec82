package services

import (
	"context"
	"sort"
	"testing"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeScheduleRepo struct {
	slots map[int]string
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{slots: make(map[int]string)}
}

func (r *fakeScheduleRepo) Upsert(_ context.Context, userID primitive.ObjectID, hour int, description string) error {
	r.slots[hour] = description
	return nil
}

func (r *fakeScheduleRepo) List(_ context.Context, userID primitive.ObjectID) ([]models.ScheduleSlot, error) {
	hours := make([]int, 0, len(r.slots))
	for h := range r.slots {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	out := make([]models.ScheduleSlot, 0, len(hours))
	for _, h := range hours {
		out = append(out, models.ScheduleSlot{UserID: userID, Hour: h, Description: r.slots[h]})
	}
	return out, nil
}

func (r *fakeScheduleRepo) DeleteByHour(_ context.Context, userID primitive.ObjectID, hour int) error {
	delete(r.slots, hour)
	return nil
}

func TestSetSlot(t *testing.T) {
	t.Parallel()
	userID := primitive.NewObjectID()

	testCases := []struct {
		Desc  string
		Hour  int
		Text  string
		Error error
	}{
		{Desc: "first hour of the day", Hour: models.MinScheduleHour, Text: "Despertar"},
		{Desc: "last hour of the day", Hour: models.MaxScheduleHour, Text: "Dormir"},
		{Desc: "too early", Hour: models.MinScheduleHour - 1, Text: "Nada", Error: ErrInvalidHour},
		{Desc: "past midnight", Hour: 24, Text: "Nada", Error: ErrInvalidHour},
		{Desc: "negative hour", Hour: -1, Text: "Nada", Error: ErrInvalidHour},
		{Desc: "empty description", Hour: 9, Text: "", Error: ErrEmptyText},
	}

	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			serv := NewScheduleService(newFakeScheduleRepo())
			err := serv.SetSlot(context.Background(), userID, tc.Hour, tc.Text)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSetSlotReplacesSameHour(t *testing.T) {
	t.Parallel()
	userID := primitive.NewObjectID()
	repo := newFakeScheduleRepo()
	serv := NewScheduleService(repo)

	require.NoError(t, serv.SetSlot(context.Background(), userID, 9, "Gimnasio"))
	require.NoError(t, serv.SetSlot(context.Background(), userID, 9, "Correr"))

	slots, err := serv.ListSlots(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Correr", slots[0].Description)
}

func TestClearSlot(t *testing.T) {
	t.Parallel()
	userID := primitive.NewObjectID()
	repo := newFakeScheduleRepo()
	serv := NewScheduleService(repo)

	require.NoError(t, serv.SetSlot(context.Background(), userID, 9, "Gimnasio"))
	require.NoError(t, serv.ClearSlot(context.Background(), userID, 9))

	slots, err := serv.ListSlots(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// Clearing an empty hour is fine; clearing outside the range is not.
	assert.NoError(t, serv.ClearSlot(context.Background(), userID, 10))
	assert.ErrorIs(t, serv.ClearSlot(context.Background(), userID, 3), ErrInvalidHour)
}
