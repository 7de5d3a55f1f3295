package worker

// 统一的 WebSocket 消息协议（通过 Redis Pub/Sub 转发给前端）。
// 注意：这里的字段名与前端解析保持一致。
type StatusNotifyMessage struct {
	Type          string `json:"type"`
	ApplicationID uint   `json:"application_id"`
	JobTitle      string `json:"job_title"`
	Status        string `json:"status"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}

// ReminderNotifyMessage 提示某条申请的跟进提醒已到期。
type ReminderNotifyMessage struct {
	Type          string `json:"type"`
	ApplicationID uint   `json:"application_id"`
	JobTitle      string `json:"job_title"`
	ReminderAt    string `json:"reminder_at"`
	ErrorCode     int    `json:"error_code"`
}

const (
	notifyTypeStatus   = "status_changed"
	notifyTypeReminder = "reminder_due"
)
