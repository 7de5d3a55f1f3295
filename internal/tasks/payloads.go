package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeStatusNotify = "application:status_notify"
	TypeReminderScan = "reminder:due_scan"
)

// StatusNotifyPayload 描述状态变更通知所需的最小信息。
// UserID 冗余存一份：记录事后被删时仍能通知到对应频道。
type StatusNotifyPayload struct {
	ApplicationID uint   `json:"application_id"`
	UserID        uint   `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewStatusNotifyTask 构造一个新的申请状态通知任务。
func NewStatusNotifyTask(id, userID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(StatusNotifyPayload{
		ApplicationID: id,
		UserID:        userID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStatusNotify, payload), nil
}

// NewReminderScanTask 构造一次到期提醒扫描任务，由调度器周期触发。
func NewReminderScanTask() *asynq.Task {
	return asynq.NewTask(TypeReminderScan, nil)
}
