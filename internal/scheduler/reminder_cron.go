package cron

import (
	"context"

	"github.com/walaz05/vivomejor/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReminderCronJobs schedules the evening habit sweep. The cron spec
// comes from config so deployments can move it off 21:00.
func StartReminderCronJobs(reminder *jobs.StreakReminder, spec string) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		if err := reminder.RunEveningScan(context.Background()); err != nil {
			logrus.WithError(err).Error("Streak reminder scan failed")
		}
	})
	if err != nil {
		logrus.WithError(err).WithField("spec", spec).Error("Invalid reminder cron spec, job not scheduled")
	}

	c.Start()
	return c
}
