package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/internal/services"
	"github.com/walaz05/vivomejor/internal/session"
	"github.com/sirupsen/logrus"
)

type StreakReminder struct {
	ItemService *services.ItemService
	Sessions    *session.Manager
}

// NewStreakReminder creates a new instance of StreakReminder
func NewStreakReminder(itemService *services.ItemService, sessions *session.Manager) *StreakReminder {
	return &StreakReminder{
		ItemService: itemService,
		Sessions:    sessions,
	}
}

// RunEveningScan reminds each live session about habits still pending today,
// so a streak is not lost to forgetfulness. Only sessions that are currently
// active get a toast; there is no one to show it to otherwise.
func (s *StreakReminder) RunEveningScan(ctx context.Context) error {
	now := time.Now()

	for _, sess := range s.Sessions.Active() {
		habits, err := s.ItemService.ListItems(ctx, sess.UserID, models.KindHabit)
		if err != nil {
			logrus.WithError(err).WithField("user_id", sess.UserID.Hex()).Error("Failed to list habits for reminder")
			continue
		}

		pending := 0
		for _, habit := range habits {
			if habit.LastCompleted == nil || !sameCalendarDay(*habit.LastCompleted, now) {
				pending++
			}
		}
		if pending == 0 {
			continue
		}

		sess.Notifications.Enqueue(
			fmt.Sprintf("Te quedan %d hábitos por completar hoy 💪", pending),
			notify.KindInfo,
		)
	}

	logrus.Info("Streak reminder scan completed")
	return nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
