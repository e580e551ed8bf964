package workers

import (
	"time"

	"salonhub_backend/internal/logger"
	"salonhub_backend/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// NotificationWorker раз в сутки удаляет прочитанные уведомления
// старше retention-окна, чтобы таблица не разрасталась.
type NotificationWorker struct {
	db               *gorm.DB
	notificationRepo repositories.NotificationRepository
	retentionDays    int
	scheduler        gocron.Scheduler
}

func NewNotificationWorker(
	db *gorm.DB,
	notificationRepo repositories.NotificationRepository,
	retentionDays int,
) *NotificationWorker {
	return &NotificationWorker{
		db:               db,
		notificationRepo: notificationRepo,
		retentionDays:    retentionDays,
	}
}

func (w *NotificationWorker) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.scheduler = sched

	if _, err := sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(w.purgeRead),
	); err != nil {
		return err
	}

	sched.Start()
	logger.Info("notification purge worker started", "retention_days", w.retentionDays)
	return nil
}

func (w *NotificationWorker) Stop() {
	if w.scheduler != nil {
		logger.WorkerLog("notification-purge", "shutdown", w.scheduler.Shutdown())
	}
}

func (w *NotificationWorker) purgeRead() {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	deleted, err := w.notificationRepo.DeleteReadOlderThan(w.db, cutoff)
	if err != nil {
		logger.WorkerLog("notification-purge", "purge", err)
		return
	}

	logger.Info("read notifications purged",
		"worker", "notification-purge",
		"deleted", deleted,
		"cutoff", cutoff.Format(time.RFC3339),
	)
}
