package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Brightboard-Labs/brightboard/backend/database"
	"github.com/Brightboard-Labs/brightboard/backend/realtime"
)

const dueSoonWindow = 24 * time.Hour

// ReminderJob periodically emits task-due-soon events for unfinished tasks
// due within the next day. Like every broadcast, this is fire-and-forget: a
// failed scan is logged and retried on the next tick.
type ReminderJob struct {
	tasks       *database.TaskRepo
	broadcaster realtime.Broadcaster
	cron        *cron.Cron
	schedule    string
	logger      zerolog.Logger
}

func NewReminderJob(db database.Database, broadcaster realtime.Broadcaster, schedule string) *ReminderJob {
	if schedule == "" {
		schedule = "@every 15m"
	}
	return &ReminderJob{
		tasks:       db.TaskRepo(),
		broadcaster: broadcaster,
		cron:        cron.New(),
		schedule:    schedule,
		logger:      log.With().Str("jobName", "reminderJob").Logger(),
	}
}

// Start schedules the job. Returns an error only for an invalid schedule.
func (j *ReminderJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.scan); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info().Str("schedule", j.schedule).Msg("reminder job started")
	return nil
}

// Stop halts the scheduler and waits for a running scan to finish.
func (j *ReminderJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *ReminderJob) scan() {
	now := time.Now().UTC()
	tasks, err := j.tasks.DueSoon(now, now.Add(dueSoonWindow))
	if err != nil {
		j.logger.Error().Err(err).Msg("due-soon scan failed")
		return
	}

	for _, task := range tasks {
		// a scheduler tick has no acting user
		j.broadcaster.Publish(realtime.Event{
			Kind:      realtime.TaskDueSoon,
			ProjectID: task.ProjectID,
			ActorID:   uuid.Nil,
			Payload:   task,
		})
	}

	if len(tasks) > 0 {
		j.logger.Info().Int("count", len(tasks)).Msg("due-soon reminders published")
	}
}
