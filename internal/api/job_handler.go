package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobTrack/internal/api/middleware"
	"jobTrack/internal/database"
)

// JobHandler 负责岗位目录的读写。读公开，写仅管理员（路由层保证）。
type JobHandler struct {
	db *gorm.DB
}

// NewJobHandler 构造 JobHandler。
func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{db: db}
}

var errInvalidIDParam = errors.New("invalid id")

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, errInvalidIDParam
	}
	return uint(id), nil
}

type jobRequest struct {
	Title        string  `json:"title" binding:"required,max=255"`
	Company      string  `json:"company" binding:"required,max=255"`
	Location     string  `json:"location" binding:"required,max=255"`
	Description  string  `json:"description" binding:"required"`
	About        string  `json:"about"`
	Requirements string  `json:"requirements"`
	SalaryMin    *int64  `json:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax    *int64  `json:"salaryMax" binding:"omitempty,min=0"`
	LocationType string  `json:"locationType" binding:"omitempty,oneof=remote onsite hybrid"`
	JobType      string  `json:"jobType" binding:"omitempty,oneof=full_time part_time internship"`
}

type listJobsQuery struct {
	Sort         string `form:"sort" binding:"omitempty,oneof=newest oldest"`
	LocationType string `form:"locationType" binding:"omitempty,oneof=remote onsite hybrid"`
	JobType      string `form:"jobType" binding:"omitempty,oneof=full_time part_time internship"`
}

type jobResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	About        string    `json:"about,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	SalaryMin    *int64    `json:"salaryMin,omitempty"`
	SalaryMax    *int64    `json:"salaryMax,omitempty"`
	LocationType string    `json:"locationType"`
	JobType      string    `json:"jobType"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newJobResponse(job database.Job) jobResponse {
	return jobResponse{
		ID:           job.ID,
		Title:        job.Title,
		Company:      job.Company,
		Location:     job.Location,
		Description:  job.Description,
		About:        job.About,
		Requirements: job.Requirements,
		SalaryMin:    job.SalaryMin,
		SalaryMax:    job.SalaryMax,
		LocationType: job.LocationType,
		JobType:      job.JobType,
		CreatedAt:    job.CreatedAt,
	}
}

func (r jobRequest) toModel() database.Job {
	job := database.Job{
		Title:        r.Title,
		Company:      r.Company,
		Location:     r.Location,
		Description:  r.Description,
		About:        r.About,
		Requirements: r.Requirements,
		SalaryMin:    r.SalaryMin,
		SalaryMax:    r.SalaryMax,
		LocationType: r.LocationType,
		JobType:      r.JobType,
	}
	if job.LocationType == "" {
		job.LocationType = "onsite"
	}
	if job.JobType == "" {
		job.JobType = "full_time"
	}
	return job
}

// Create 新建岗位。
func (h *JobHandler) Create(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	job := req.toModel()
	if err := h.db.WithContext(c.Request.Context()).Create(&job).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create job failed", slog.Any("error", err))
		Internal(c, "failed to create job")
		return
	}

	c.JSON(http.StatusCreated, newJobResponse(job))
}

// List 公开列出岗位，默认按创建时间倒序，支持精确过滤。
func (h *JobHandler) List(c *gin.Context) {
	var query listJobsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, err.Error())
		return
	}

	tx := h.db.WithContext(c.Request.Context()).Model(&database.Job{})
	if query.LocationType != "" {
		tx = tx.Where("location_type = ?", query.LocationType)
	}
	if query.JobType != "" {
		tx = tx.Where("job_type = ?", query.JobType)
	}
	if query.Sort == "oldest" {
		tx = tx.Order("created_at ASC")
	} else {
		tx = tx.Order("created_at DESC")
	}

	var jobs []database.Job
	if err := tx.Find(&jobs).Error; err != nil {
		middleware.LoggerFromContext(c).Error("list jobs failed", slog.Any("error", err))
		Internal(c, "failed to list jobs")
		return
	}

	items := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, newJobResponse(job))
	}
	c.JSON(http.StatusOK, items)
}

// Get 公开返回单个岗位。
func (h *JobHandler) Get(c *gin.Context) {
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid job id")
		return
	}

	var job database.Job
	if err := h.db.WithContext(c.Request.Context()).First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return
		}
		middleware.LoggerFromContext(c).Error("query job failed", slog.Any("error", err))
		Internal(c, "failed to query job")
		return
	}

	c.JSON(http.StatusOK, newJobResponse(job))
}

// Update 覆盖岗位字段。
func (h *JobHandler) Update(c *gin.Context) {
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid job id")
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var job database.Job
	if err := h.db.WithContext(ctx).First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return
		}
		middleware.LoggerFromContext(c).Error("query job failed", slog.Any("error", err))
		Internal(c, "failed to query job")
		return
	}

	next := req.toModel()
	updates := map[string]any{
		"title":         next.Title,
		"company":       next.Company,
		"location":      next.Location,
		"description":   next.Description,
		"about":         next.About,
		"requirements":  next.Requirements,
		"salary_min":    next.SalaryMin,
		"salary_max":    next.SalaryMax,
		"location_type": next.LocationType,
		"job_type":      next.JobType,
	}
	if err := h.db.WithContext(ctx).Model(&job).Updates(updates).Error; err != nil {
		middleware.LoggerFromContext(c).Error("update job failed", slog.Any("error", err))
		Internal(c, "failed to update job")
		return
	}

	if err := h.db.WithContext(ctx).First(&job, jobID).Error; err != nil {
		middleware.LoggerFromContext(c).Error("reload job failed", slog.Any("error", err))
		Internal(c, "failed to reload job")
		return
	}
	c.JSON(http.StatusOK, newJobResponse(job))
}

// Delete 删除岗位。
func (h *JobHandler) Delete(c *gin.Context) {
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid job id")
		return
	}

	ctx := c.Request.Context()
	result := h.db.WithContext(ctx).Delete(&database.Job{}, jobID)
	if result.Error != nil {
		middleware.LoggerFromContext(c).Error("delete job failed", slog.Any("error", result.Error))
		Internal(c, "failed to delete job")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "job not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}
