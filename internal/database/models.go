package database

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示系统中的账号信息（求职者或管理员）。
type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:64"`
	PasswordHash string `gorm:"size:255"`
	Role         string `gorm:"size:16;default:applicant"`
	Applications []Application
}

// Job 表示一条招聘岗位信息。仅管理员可写，公开可读。
type Job struct {
	gorm.Model
	Title        string `gorm:"size:255"`
	Company      string `gorm:"size:255"`
	Location     string `gorm:"size:255"`
	Description  string `gorm:"type:text"`
	About        string `gorm:"type:text"`
	Requirements string `gorm:"type:text"`
	SalaryMin    *int64
	SalaryMax    *int64
	LocationType string `gorm:"size:16;default:onsite"`
	JobType      string `gorm:"size:16;default:full_time"`
}

// Application 表示一次求职申请。每个 (job, user) 组合最多一条。
type Application struct {
	gorm.Model
	JobID  uint `gorm:"index;uniqueIndex:idx_applications_job_user"`
	Job    Job  `gorm:"constraint:OnDelete:CASCADE"`
	UserID uint `gorm:"index;uniqueIndex:idx_applications_job_user"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`

	FullName   string `gorm:"size:255"`
	Phone      string `gorm:"size:64"`
	Linkedin   string `gorm:"size:512"`
	ExtraNotes string `gorm:"type:text"`

	// CV 在对象存储中的 key，记录本身不关心存储介质。
	CVKey string `gorm:"size:512"`

	Status string `gorm:"size:32;default:pending"`

	// 首次离开 pending（或首次安排面试）时写入，之后不再变动。
	RespondedAt *time.Time

	// 面试子记录，仅管理员可写，字段相互独立。
	InterviewAt       *time.Time
	InterviewLocation string `gorm:"size:255"`
	InterviewLink     string `gorm:"size:512"`
	InterviewNotes    string `gorm:"type:text"`

	// 提醒时间，仅申请人自己可写。
	ReminderAt *time.Time

	// 备注线程：追加写入的 JSON 数组，条目一旦写入不可修改。
	Notes datatypes.JSON `gorm:"type:jsonb"`
}

// Note 是 Application.Notes 中的一条备注。
type Note struct {
	Text       string    `json:"text"`
	AuthorRole string    `json:"authorRole"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DecodeNotes 解析备注线程；空列为空切片。
func (a *Application) DecodeNotes() ([]Note, error) {
	if len(a.Notes) == 0 {
		return []Note{}, nil
	}
	var notes []Note
	if err := json.Unmarshal(a.Notes, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

// AppendNote 在备注线程末尾追加一条记录并重新编码。
func (a *Application) AppendNote(note Note) error {
	notes, err := a.DecodeNotes()
	if err != nil {
		return err
	}
	notes = append(notes, note)
	encoded, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	a.Notes = datatypes.JSON(encoded)
	return nil
}
