package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobTrack/internal/api/middleware"
	"jobTrack/internal/auth"
	"jobTrack/internal/database"
	"jobTrack/internal/intake"
	"jobTrack/internal/storage"
	"jobTrack/internal/tasks"
	"jobTrack/internal/workflow"
)

// ObjectStorage 是申请处理器依赖的对象存储能力，便于测试替换。
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	OpenObject(ctx context.Context, objectKey string) (io.ReadCloser, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// ApplicationHandler 负责申请记录的全部路由。
type ApplicationHandler struct {
	db          *gorm.DB
	engine      *workflow.Engine
	storage     ObjectStorage
	asynqClient *asynq.Client
	logger      *slog.Logger
	clamdAddr   string
	maxCVBytes  int64
}

// NewApplicationHandler 构造申请处理器。asynqClient 可为 nil（通知降级为关闭）。
func NewApplicationHandler(
	db *gorm.DB,
	engine *workflow.Engine,
	storageClient ObjectStorage,
	asynqClient *asynq.Client,
	logger *slog.Logger,
	clamdAddr string,
	maxCVBytes int64,
) *ApplicationHandler {
	if maxCVBytes <= 0 {
		maxCVBytes = intake.DefaultMaxCVBytes
	}
	return &ApplicationHandler{
		db:          db,
		engine:      engine,
		storage:     storageClient,
		asynqClient: asynqClient,
		logger:      logger,
		clamdAddr:   clamdAddr,
		maxCVBytes:  maxCVBytes,
	}
}

type noteResponse struct {
	Text       string    `json:"text"`
	AuthorRole string    `json:"authorRole"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

type applicationResponse struct {
	ID                uint           `json:"id"`
	JobID             uint           `json:"jobId"`
	Job               *jobResponse   `json:"job,omitempty"`
	UserID            uint           `json:"userId"`
	FullName          string         `json:"fullName"`
	Phone             string         `json:"phone"`
	Linkedin          string         `json:"linkedin,omitempty"`
	ExtraNotes        string         `json:"extraNotes,omitempty"`
	CVKey             string         `json:"cvKey"`
	Status            string         `json:"status"`
	RespondedAt       *time.Time     `json:"respondedAt"`
	InterviewAt       *time.Time     `json:"interviewAt,omitempty"`
	InterviewLocation string         `json:"interviewLocation,omitempty"`
	InterviewLink     string         `json:"interviewLink,omitempty"`
	InterviewNotes    string         `json:"interviewNotes,omitempty"`
	ReminderAt        *time.Time     `json:"reminderAt,omitempty"`
	Notes             []noteResponse `json:"notes"`
	CreatedAt         time.Time      `json:"createdAt"`
}

func newApplicationResponse(log *slog.Logger, app database.Application, includeJob bool) applicationResponse {
	resp := applicationResponse{
		ID:                app.ID,
		JobID:             app.JobID,
		UserID:            app.UserID,
		FullName:          app.FullName,
		Phone:             app.Phone,
		Linkedin:          app.Linkedin,
		ExtraNotes:        app.ExtraNotes,
		CVKey:             app.CVKey,
		Status:            app.Status,
		RespondedAt:       app.RespondedAt,
		InterviewAt:       app.InterviewAt,
		InterviewLocation: app.InterviewLocation,
		InterviewLink:     app.InterviewLink,
		InterviewNotes:    app.InterviewNotes,
		ReminderAt:        app.ReminderAt,
		CreatedAt:         app.CreatedAt,
	}

	if includeJob && app.Job.ID != 0 {
		job := newJobResponse(app.Job)
		resp.Job = &job
	}

	notes, err := app.DecodeNotes()
	if err != nil {
		// 单条坏数据不该拖垮整个响应，记录后以空线程兜底。
		if log == nil {
			log = slog.Default()
		}
		log.Error("decode notes failed",
			slog.Uint64("application_id", uint64(app.ID)),
			slog.Any("error", err),
		)
		notes = []database.Note{}
	}
	resp.Notes = make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		resp.Notes = append(resp.Notes, noteResponse(n))
	}
	return resp
}

// Apply 处理求职者对某个岗位的申请（multipart，含 CV 文件）。
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	jobID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid job id")
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("job_id", uint64(jobID)),
	)

	var job database.Job
	if err := h.db.WithContext(ctx).First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return
		}
		logger.Error("query job failed", slog.Any("error", err))
		Internal(c, "failed to query job")
		return
	}

	// 同一岗位每人最多一条申请。
	var existing int64
	if err := h.db.WithContext(ctx).
		Model(&database.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&existing).Error; err != nil {
		logger.Error("duplicate check failed", slog.Any("error", err))
		Internal(c, "failed to check existing application")
		return
	}
	if existing > 0 {
		DuplicateApplication(c)
		return
	}

	fullName := c.PostForm("fullName")
	phone := c.PostForm("phone")
	if fullName == "" || phone == "" {
		BadRequest(c, "fullName and phone are required")
		return
	}

	fh, err := c.FormFile("cv")
	if err != nil {
		BadRequest(c, "cv file is required")
		return
	}

	objectKey, err := h.storeCV(c, userID, fh)
	if err != nil {
		return // storeCV 已写入响应
	}

	app := database.Application{
		JobID:      jobID,
		UserID:     userID,
		FullName:   fullName,
		Phone:      phone,
		Linkedin:   c.PostForm("linkedin"),
		ExtraNotes: c.PostForm("extraNotes"),
		CVKey:      objectKey,
		Status:     workflow.StagePending,
		Notes:      datatypes.JSON("[]"),
	}
	if err := h.db.WithContext(ctx).Create(&app).Error; err != nil {
		logger.Error("create application failed", slog.Any("error", err))
		Internal(c, "failed to create application")
		return
	}

	logger.Info("application submitted", slog.Uint64("application_id", uint64(app.ID)))
	app.Job = job
	c.JSON(http.StatusCreated, newApplicationResponse(middleware.LoggerFromContext(c), app, true))
}

// storeCV 校验、扫描并上传 CV，出错时负责写响应并返回非 nil 错误。
func (h *ApplicationHandler) storeCV(c *gin.Context, userID uint, fh *multipart.FileHeader) (string, error) {
	logger := middleware.LoggerFromContext(c)

	if err := intake.ValidateCV(fh, h.maxCVBytes); err != nil {
		BadRequest(c, err.Error())
		return "", err
	}

	reader, err := fh.Open()
	if err != nil {
		Internal(c, "failed to open uploaded file")
		return "", err
	}
	scanErr := intake.ScanStream(h.clamdAddr, reader)
	reader.Close()
	if scanErr != nil {
		if errors.Is(scanErr, intake.ErrMaliciousFile) {
			BadRequest(c, scanErr.Error())
			return "", scanErr
		}
		logger.Error("scan cv failed", slog.Any("error", scanErr))
		Internal(c, "failed to scan file")
		return "", scanErr
	}

	reader, err = fh.Open()
	if err != nil {
		Internal(c, "failed to reopen uploaded file")
		return "", err
	}
	defer reader.Close()

	contentType := intake.ContentType(fh)
	objectKey := intake.ObjectKey(userID, contentType)
	if _, err := h.storage.UploadFile(c.Request.Context(), objectKey, reader, fh.Size, contentType); err != nil {
		logger.Error("upload cv failed", slog.Any("error", err))
		Internal(c, "failed to store cv")
		return "", err
	}
	return objectKey, nil
}

// ListMine 返回当前求职者的全部申请，最新在前。
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var apps []database.Application
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Preload("Job").
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		middleware.LoggerFromContext(c).Error("list applications failed", slog.Any("error", err))
		Internal(c, "failed to list applications")
		return
	}

	items := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		items = append(items, newApplicationResponse(middleware.LoggerFromContext(c), app, true))
	}
	c.JSON(http.StatusOK, items)
}

// MySummary 返回当前求职者按状态分组的计数。
func (h *ApplicationHandler) MySummary(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	report, err := h.engine.Analytics(c.Request.Context(), userID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("summary failed", slog.Any("error", err))
		Internal(c, "failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    report.Total,
		"byStatus": report.ByStatus,
	})
}

// MyAnalytics 返回当前求职者的响应分析。
func (h *ApplicationHandler) MyAnalytics(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	report, err := h.engine.Analytics(c.Request.Context(), userID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("analytics failed", slog.Any("error", err))
		Internal(c, "failed to compute analytics")
		return
	}

	c.JSON(http.StatusOK, report)
}

// getOwnedApplication 加载申请并校验归属；出错时负责写响应。
func (h *ApplicationHandler) getOwnedApplication(c *gin.Context, idParam string, preloadJob bool) (*database.Application, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}

	appID, err := parseIDParam(c, idParam)
	if err != nil {
		BadRequest(c, "invalid application id")
		return nil, false
	}

	tx := h.db.WithContext(c.Request.Context())
	if preloadJob {
		tx = tx.Preload("Job")
	}

	var app database.Application
	if err := tx.First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "application not found")
			return nil, false
		}
		middleware.LoggerFromContext(c).Error("query application failed", slog.Any("error", err))
		Internal(c, "failed to query application")
		return nil, false
	}

	if app.UserID != userID {
		Forbidden(c, "not your application")
		return nil, false
	}
	return &app, true
}

// GetMine 返回求职者自己的单条申请。
func (h *ApplicationHandler) GetMine(c *gin.Context) {
	app, ok := h.getOwnedApplication(c, "id", true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newApplicationResponse(middleware.LoggerFromContext(c), *app, true))
}

// UpdateMine 更新求职者档案字段（multipart，可选新 CV）。
// 一旦进入 offer / rejected，该路径整体锁定；提醒与备注不受此锁约束。
func (h *ApplicationHandler) UpdateMine(c *gin.Context) {
	app, ok := h.getOwnedApplication(c, "id", false)
	if !ok {
		return
	}

	if workflow.Finalized(app.Status) {
		Locked(c)
		return
	}

	updates := map[string]any{}
	if v, present := c.GetPostForm("fullName"); present {
		if v == "" {
			BadRequest(c, "fullName must not be empty")
			return
		}
		updates["full_name"] = v
	}
	if v, present := c.GetPostForm("phone"); present {
		if v == "" {
			BadRequest(c, "phone must not be empty")
			return
		}
		updates["phone"] = v
	}
	if v, present := c.GetPostForm("linkedin"); present {
		updates["linkedin"] = v
	}
	if v, present := c.GetPostForm("extraNotes"); present {
		updates["extra_notes"] = v
	}

	oldKey := ""
	if fh, err := c.FormFile("cv"); err == nil {
		objectKey, err := h.storeCV(c, app.UserID, fh)
		if err != nil {
			return
		}
		oldKey = app.CVKey
		updates["cv_key"] = objectKey
	}

	ctx := c.Request.Context()
	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(app).Updates(updates).Error; err != nil {
			middleware.LoggerFromContext(c).Error("update application failed", slog.Any("error", err))
			Internal(c, "failed to update application")
			return
		}
	}

	// 旧 CV 清理失败不影响本次更新。
	if oldKey != "" {
		if err := h.storage.DeleteObject(ctx, oldKey); err != nil {
			middleware.LoggerFromContext(c).Error("delete old cv failed",
				slog.String("object_key", oldKey), slog.Any("error", err))
		}
	}

	var reloaded database.Application
	if err := h.db.WithContext(ctx).Preload("Job").First(&reloaded, app.ID).Error; err != nil {
		middleware.LoggerFromContext(c).Error("reload application failed", slog.Any("error", err))
		Internal(c, "failed to reload application")
		return
	}
	c.JSON(http.StatusOK, newApplicationResponse(middleware.LoggerFromContext(c), reloaded, true))
}

type trackingRequest struct {
	ReminderAt *time.Time `json:"reminderAt"`
	ExtraNotes *string    `json:"extraNotes"`
}

// UpdateTracking 更新求职者的跟踪字段（提醒时间与自述备注）。
// 已定稿的申请仍可更新：锁只作用于档案路径。
func (h *ApplicationHandler) UpdateTracking(c *gin.Context) {
	app, ok := h.getOwnedApplication(c, "id", false)
	if !ok {
		return
	}

	var req trackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.ReminderAt != nil {
		updates["reminder_at"] = *req.ReminderAt
	}
	if req.ExtraNotes != nil {
		updates["extra_notes"] = *req.ExtraNotes
	}
	if len(updates) == 0 {
		BadRequest(c, "nothing to update")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(app).Updates(updates).Error; err != nil {
		middleware.LoggerFromContext(c).Error("update tracking failed", slog.Any("error", err))
		Internal(c, "failed to update tracking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tracking updated"})
}

type reminderRequest struct {
	ReminderAt *time.Time `json:"reminderAt"`
}

// UpdateReminder 设置或清除提醒时间（null 即清除）。仅归属求职者可调用。
func (h *ApplicationHandler) UpdateReminder(c *gin.Context) {
	app, ok := h.getOwnedApplication(c, "id", false)
	if !ok {
		return
	}

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	var value any
	if req.ReminderAt != nil {
		value = *req.ReminderAt
	}
	if err := h.db.WithContext(c.Request.Context()).Model(app).Update("reminder_at", value).Error; err != nil {
		middleware.LoggerFromContext(c).Error("update reminder failed", slog.Any("error", err))
		Internal(c, "failed to update reminder")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reminder updated"})
}

type noteRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddNote 在自己的申请上追加一条备注。定稿后仍然允许。
func (h *ApplicationHandler) AddNote(c *gin.Context) {
	app, ok := h.getOwnedApplication(c, "id", false)
	if !ok {
		return
	}
	h.appendNote(c, app)
}

// AdminAddNote 管理员在任意申请上追加备注。
func (h *ApplicationHandler) AdminAddNote(c *gin.Context) {
	appID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid application id")
		return
	}

	var app database.Application
	if err := h.db.WithContext(c.Request.Context()).First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "application not found")
			return
		}
		middleware.LoggerFromContext(c).Error("query application failed", slog.Any("error", err))
		Internal(c, "failed to query application")
		return
	}
	h.appendNote(c, &app)
}

func (h *ApplicationHandler) appendNote(c *gin.Context, app *database.Application) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	role, ok := roleFromContext(c)
	if !ok {
		role = auth.RoleApplicant
	}

	ctx := c.Request.Context()
	var author database.User
	if err := h.db.WithContext(ctx).First(&author, userID).Error; err != nil {
		middleware.LoggerFromContext(c).Error("query note author failed", slog.Any("error", err))
		Internal(c, "failed to query author")
		return
	}

	note := database.Note{
		Text:       req.Text,
		AuthorRole: role.String(),
		AuthorName: author.Username,
		CreatedAt:  time.Now(),
	}
	if err := app.AppendNote(note); err != nil {
		middleware.LoggerFromContext(c).Error("append note failed", slog.Any("error", err))
		Internal(c, "failed to append note")
		return
	}

	if err := h.db.WithContext(ctx).Model(app).Update("notes", app.Notes).Error; err != nil {
		middleware.LoggerFromContext(c).Error("save notes failed", slog.Any("error", err))
		Internal(c, "failed to save note")
		return
	}
	c.JSON(http.StatusCreated, newApplicationResponse(middleware.LoggerFromContext(c), *app, false))
}

// AdminList 返回全部申请，最新在前。
func (h *ApplicationHandler) AdminList(c *gin.Context) {
	var apps []database.Application
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Job").
		Preload("User").
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		middleware.LoggerFromContext(c).Error("admin list failed", slog.Any("error", err))
		Internal(c, "failed to list applications")
		return
	}

	items := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		items = append(items, newApplicationResponse(middleware.LoggerFromContext(c), app, true))
	}
	c.JSON(http.StatusOK, items)
}

// AdminGet 返回任意单条申请。
func (h *ApplicationHandler) AdminGet(c *gin.Context) {
	appID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid application id")
		return
	}

	var app database.Application
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Job").
		Preload("User").
		First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "application not found")
			return
		}
		middleware.LoggerFromContext(c).Error("query application failed", slog.Any("error", err))
		Internal(c, "failed to query application")
		return
	}
	c.JSON(http.StatusOK, newApplicationResponse(middleware.LoggerFromContext(c), app, true))
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateStatus 执行状态转移，成功后异步通知申请人。
func (h *ApplicationHandler) AdminUpdateStatus(c *gin.Context) {
	appID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid application id")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	app, err := h.engine.Transition(c.Request.Context(), appID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrInvalidStatus):
			BadRequest(c, "invalid status")
		case errors.Is(err, workflow.ErrNotFound):
			NotFound(c, "application not found")
		default:
			middleware.LoggerFromContext(c).Error("transition failed", slog.Any("error", err))
			Internal(c, "failed to update status")
		}
		return
	}

	h.enqueueStatusNotify(c, app.ID, app.UserID)
	c.JSON(http.StatusOK, newApplicationResponse(middleware.LoggerFromContext(c), *app, false))
}

type interviewRequest struct {
	InterviewAt *time.Time `json:"interviewAt"`
	Location    *string    `json:"location"`
	Link        *string    `json:"link"`
	Notes       *string    `json:"notes"`
}

// AdminScheduleInterview 写入面试子记录。
func (h *ApplicationHandler) AdminScheduleInterview(c *gin.Context) {
	appID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid application id")
		return
	}

	var req interviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	app, err := h.engine.ScheduleInterview(c.Request.Context(), appID, workflow.InterviewInput{
		At:       req.InterviewAt,
		Location: req.Location,
		Link:     req.Link,
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			NotFound(c, "application not found")
			return
		}
		middleware.LoggerFromContext(c).Error("schedule interview failed", slog.Any("error", err))
		Internal(c, "failed to schedule interview")
		return
	}

	c.JSON(http.StatusOK, newApplicationResponse(middleware.LoggerFromContext(c), *app, false))
}

// AdminDownloadCV 以原始内容回传 CV（管理员）。
func (h *ApplicationHandler) AdminDownloadCV(c *gin.Context) {
	appID, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid application id")
		return
	}

	ctx := c.Request.Context()
	var app database.Application
	if err := h.db.WithContext(ctx).First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "application not found")
			return
		}
		middleware.LoggerFromContext(c).Error("query application failed", slog.Any("error", err))
		Internal(c, "failed to query application")
		return
	}

	rc, err := h.storage.OpenObject(ctx, app.CVKey)
	if err != nil {
		middleware.LoggerFromContext(c).Error("open cv failed", slog.Any("error", err))
		Internal(c, "failed to open cv")
		return
	}
	defer rc.Close()

	// CV 上限 5 MiB，直接读入内存以便在响应前发现 NoSuchKey。
	data, err := io.ReadAll(rc)
	if err != nil {
		if storage.IsNoSuchKey(err) {
			NotFound(c, "cv not found")
			return
		}
		middleware.LoggerFromContext(c).Error("read cv failed", slog.Any("error", err))
		Internal(c, "failed to read cv")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+path.Base(app.CVKey)+"\"")
	c.Data(http.StatusOK, intake.ContentTypeForKey(app.CVKey), data)
}

// MyCVLink 为归属求职者生成自己 CV 的限时下载链接。
func (h *ApplicationHandler) MyCVLink(c *gin.Context) {
	app, ok := h.getOwnedApplication(c, "id", false)
	if !ok {
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), app.CVKey, 10*time.Minute)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate cv link failed", slog.Any("error", err))
		Internal(c, "failed to generate download link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// enqueueStatusNotify 入队状态变更通知；失败只记日志，不影响本次请求。
func (h *ApplicationHandler) enqueueStatusNotify(c *gin.Context, applicationID, userID uint) {
	if h.asynqClient == nil {
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewStatusNotifyTask(applicationID, userID, correlationID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("create notify task failed", slog.Any("error", err))
		return
	}
	if _, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		middleware.LoggerFromContext(c).Error("enqueue notify task failed", slog.Any("error", err))
	}
}
