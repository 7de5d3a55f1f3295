package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"jobTrack/internal/database"
	"jobTrack/internal/errcode"
)

// ReminderScanHandler 周期扫描到期的跟进提醒并逐条推送。
type ReminderScanHandler struct {
	db        *gorm.DB
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewReminderScanHandler 创建扫描处理器。
func NewReminderScanHandler(db *gorm.DB, publisher Publisher, logger *slog.Logger) *ReminderScanHandler {
	return &ReminderScanHandler{
		db:        db,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessTask 实现 asynq.Handler。
// 推送成功后立即清空 reminder_at，保证同一条提醒只发一次。
func (h *ReminderScanHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	var due []database.Application
	if err := h.db.WithContext(ctx).
		Preload("Job").
		Where("reminder_at IS NOT NULL AND reminder_at <= ?", h.now()).
		Find(&due).Error; err != nil {
		h.logger.Error("scan due reminders failed", slog.Any("error", err))
		return err
	}
	if len(due) == 0 {
		return nil
	}

	delivered := 0
	for _, app := range due {
		log := h.logger.With(
			slog.Uint64("application_id", uint64(app.ID)),
			slog.Uint64("user_id", uint64(app.UserID)),
		)

		reminderAt := ""
		if app.ReminderAt != nil {
			reminderAt = app.ReminderAt.Format(time.RFC3339)
		}
		notify := ReminderNotifyMessage{
			Type:          notifyTypeReminder,
			ApplicationID: app.ID,
			JobTitle:      app.Job.Title,
			ReminderAt:    reminderAt,
			ErrorCode:     errcode.OK,
		}
		if err := publishUserNotify(ctx, h.publisher, app.UserID, notify); err != nil {
			log.Error("publish reminder notification failed", slog.Any("error", err))
			continue
		}

		if err := h.db.WithContext(ctx).Model(&app).Update("reminder_at", nil).Error; err != nil {
			log.Error("clear reminder failed", slog.Any("error", err))
			continue
		}
		delivered++
	}

	h.logger.Info("reminder scan completed",
		slog.Int("due", len(due)),
		slog.Int("delivered", delivered),
	)
	return nil
}
