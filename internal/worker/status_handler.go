package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"jobTrack/internal/database"
	"jobTrack/internal/errcode"
	"jobTrack/internal/tasks"
)

// Publisher 是通知下发所需的最小 Redis 能力，便于测试替换。
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// StatusNotifyHandler 负责消费申请状态变更通知任务。
type StatusNotifyHandler struct {
	db        *gorm.DB
	publisher Publisher
	logger    *slog.Logger
}

// NewStatusNotifyHandler 创建任务处理器。
func NewStatusNotifyHandler(db *gorm.DB, publisher Publisher, logger *slog.Logger) *StatusNotifyHandler {
	return &StatusNotifyHandler{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *StatusNotifyHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.StatusNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("application_id", int(payload.ApplicationID)),
	)

	// 最后一次重试仍失败时，把系统错误推给申请人，避免静默丢失。
	defer func() {
		if retErr == nil || payload.UserID == 0 {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}
		notify := StatusNotifyMessage{
			Type:          notifyTypeStatus,
			ApplicationID: payload.ApplicationID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := publishUserNotify(ctx, h.publisher, payload.UserID, notify); err != nil {
			log.Error("publish status error notification failed", slog.Any("error", err))
		}
	}()

	var app database.Application
	if err := h.db.WithContext(ctx).Preload("Job").First(&app, payload.ApplicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("application not found, notifying owner and skipping")
			if payload.UserID != 0 {
				notify := StatusNotifyMessage{
					Type:          notifyTypeStatus,
					ApplicationID: payload.ApplicationID,
					CorrelationID: payload.CorrelationID,
					ErrorCode:     errcode.ResourceMissing,
					ErrorMessage:  "application no longer exists",
				}
				if err := publishUserNotify(ctx, h.publisher, payload.UserID, notify); err != nil {
					log.Error("publish missing-application notification failed", slog.Any("error", err))
				}
			}
			return nil
		}
		log.Error("query application failed", slog.Any("error", err))
		return err
	}

	notify := StatusNotifyMessage{
		Type:          notifyTypeStatus,
		ApplicationID: app.ID,
		JobTitle:      app.Job.Title,
		Status:        app.Status,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := publishUserNotify(ctx, h.publisher, app.UserID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("status notification delivered", slog.String("status", app.Status))
	return nil
}

func publishUserNotify(ctx context.Context, publisher Publisher, userID uint, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := publisher.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
