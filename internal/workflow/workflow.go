// Package workflow 管理申请状态机：阶段校验、首次响应时间戳与响应分析。
package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"jobTrack/internal/database"
)

// 申请流水线的全部阶段。pending 既是初始状态，也允许被管理员重新设回。
const (
	StagePending            = "pending"
	StageUnderReview        = "under_review"
	StagePhoneScreen        = "phone_screen"
	StageTechnicalInterview = "technical_interview"
	StageHRInterview        = "hr_interview"
	StageOffer              = "offer"
	StageRejected           = "rejected"
)

// Stages 是已识别阶段的有序集合。阶段之间没有邻接约束：
// 管理员可以从任意阶段切换到任意已识别阶段（含回退 pending），
// 唯一校验是目标值属于该集合。
var Stages = []string{
	StagePending,
	StageUnderReview,
	StagePhoneScreen,
	StageTechnicalInterview,
	StageHRInterview,
	StageOffer,
	StageRejected,
}

var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrNotFound      = errors.New("application not found")
)

// ValidStage 判断 s 是否属于已识别阶段集合。
func ValidStage(s string) bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Finalized 判断阶段是否锁定申请人的档案编辑（offer / rejected）。
func Finalized(s string) bool {
	return s == StageOffer || s == StageRejected
}

// Engine 在申请记录上执行状态规则。角色检查在路由层完成。
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEngine 构造工作流引擎。
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// Transition 把申请切换到 requested 阶段。
// respondedAt 是一次性锁存：仅在首次离开 pending 时写入，之后不再变动。
func (e *Engine) Transition(ctx context.Context, applicationID uint, requested string) (*database.Application, error) {
	if !ValidStage(requested) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, requested)
	}

	var app database.Application
	if err := e.db.WithContext(ctx).First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query application: %w", err)
	}

	updates := map[string]any{"status": requested}
	if app.RespondedAt == nil && app.Status == StagePending && requested != StagePending {
		ts := e.now()
		updates["responded_at"] = ts
		app.RespondedAt = &ts
	}

	if err := e.db.WithContext(ctx).Model(&app).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	app.Status = requested
	return &app, nil
}

// InterviewInput 的四个字段相互独立，nil 表示不修改。
type InterviewInput struct {
	At       *time.Time
	Location *string
	Link     *string
	Notes    *string
}

// ScheduleInterview 写入面试子记录。
// 即使状态没有变化，首次安排面试也算一次响应：respondedAt 若仍为空则在此写入。
func (e *Engine) ScheduleInterview(ctx context.Context, applicationID uint, in InterviewInput) (*database.Application, error) {
	var app database.Application
	if err := e.db.WithContext(ctx).First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query application: %w", err)
	}

	updates := map[string]any{}
	if in.At != nil {
		updates["interview_at"] = *in.At
		app.InterviewAt = in.At
	}
	if in.Location != nil {
		updates["interview_location"] = *in.Location
		app.InterviewLocation = *in.Location
	}
	if in.Link != nil {
		updates["interview_link"] = *in.Link
		app.InterviewLink = *in.Link
	}
	if in.Notes != nil {
		updates["interview_notes"] = *in.Notes
		app.InterviewNotes = *in.Notes
	}
	if app.RespondedAt == nil {
		ts := e.now()
		updates["responded_at"] = ts
		app.RespondedAt = &ts
	}

	if len(updates) == 0 {
		return &app, nil
	}

	if err := e.db.WithContext(ctx).Model(&app).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update interview: %w", err)
	}

	return &app, nil
}

// Report 汇总单个申请人的响应分析。
type Report struct {
	Total               int            `json:"total"`
	Responded           int            `json:"responded"`
	ResponseRate        int            `json:"responseRate"`
	AvgResponseTimeDays *float64       `json:"avgResponseTimeDays"`
	ByStatus            map[string]int `json:"byStatus"`
}

// Analytics 是纯读操作：统计 userID 名下申请的响应率与平均响应时间。
// 分母为零时一律返回 0 / null，绝不产生除零。
func (e *Engine) Analytics(ctx context.Context, userID uint) (Report, error) {
	var apps []database.Application
	if err := e.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&apps).Error; err != nil {
		return Report{}, fmt.Errorf("list applications: %w", err)
	}

	report := Report{
		Total:    len(apps),
		ByStatus: map[string]int{},
	}

	var totalResponseDays float64
	for _, app := range apps {
		report.ByStatus[app.Status]++
		if app.RespondedAt == nil {
			continue
		}
		report.Responded++
		totalResponseDays += app.RespondedAt.Sub(app.CreatedAt).Hours() / 24
	}

	if report.Total > 0 {
		rate := float64(report.Responded) / float64(report.Total) * 100
		report.ResponseRate = int(math.Round(rate))
	}
	if report.Responded > 0 {
		avg := totalResponseDays / float64(report.Responded)
		avg = math.Round(avg*10) / 10
		report.AvgResponseTimeDays = &avg
	}

	return report, nil
}
