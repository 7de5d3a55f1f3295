package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jobTrack/internal/auth"
	"jobTrack/internal/database"
	"jobTrack/internal/workflow"
)

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	b, _ := io.ReadAll(reader)
	s.uploaded[objectName] = b
	return &minio.UploadInfo{}, nil
}

func (s *fakeStorage) OpenObject(_ context.Context, objectKey string) (io.ReadCloser, error) {
	b, ok := s.uploaded[objectKey]
	if !ok {
		b = nil
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://example.invalid/" + objectKey, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	delete(s.uploaded, objectKey)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	// 内存库绑定单个连接，避免连接池拿到空库。
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) database.User {
	t.Helper()
	user := database.User{Username: username, PasswordHash: "hashed", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedJob(t *testing.T, db *gorm.DB, title string) database.Job {
	t.Helper()
	job := database.Job{
		Title:        title,
		Company:      "Initech",
		Location:     "Berlin",
		Description:  "build things",
		LocationType: "onsite",
		JobType:      "full_time",
	}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func seedApplication(t *testing.T, db *gorm.DB, userID, jobID uint, status string) database.Application {
	t.Helper()
	app := database.Application{
		JobID:    jobID,
		UserID:   userID,
		FullName: "Jordan Doe",
		Phone:    "+49-123",
		CVKey:    "cv/legacy/a.pdf",
		Status:   status,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return app
}

// newTestRouter 挂载申请相关路由，并用假中间件注入身份。
func newTestRouter(h *ApplicationHandler, userID uint, role auth.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	identity := func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", role)
	}

	router.POST("/api/applications/:id", identity, h.Apply)
	router.GET("/api/applications/my", identity, h.ListMine)
	router.GET("/api/applications/my/analytics", identity, h.MyAnalytics)
	router.GET("/api/applications/my/:id", identity, h.GetMine)
	router.PUT("/api/applications/my/:id", identity, h.UpdateMine)
	router.GET("/api/applications/my/:id/cv-link", identity, h.MyCVLink)
	router.PUT("/api/applications/:id/reminder", identity, h.UpdateReminder)
	router.POST("/api/applications/:id/notes", identity, h.AddNote)
	router.PUT("/api/applications/:id/status", identity, h.AdminUpdateStatus)
	router.PUT("/api/applications/:id/interview", identity, h.AdminScheduleInterview)
	return router
}

func newTestHandler(t *testing.T) (*ApplicationHandler, *gorm.DB, *fakeStorage) {
	t.Helper()
	db := newTestDB(t)
	store := newFakeStorage()
	h := NewApplicationHandler(db, workflow.NewEngine(db), store, nil, nil, "", 0)
	return h, db, store
}

func newCVForm(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="cv"; filename="`+filename+`"`)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create cv part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write cv content: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func doRequest(router *gin.Engine, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestApply_CreatesPendingApplication(t *testing.T) {
	h, db, store := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	body, contentType := newCVForm(t, map[string]string{
		"fullName": "Jordan Doe",
		"phone":    "+49-123",
		"linkedin": "https://linkedin.example/jordan",
	}, "cv.pdf", "application/pdf", []byte("%PDF-1.4 fake"))

	w := doRequest(router, http.MethodPost, "/api/applications/1", body, contentType)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var resp applicationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != workflow.StagePending {
		t.Fatalf("expected pending status, got %q", resp.Status)
	}
	if resp.RespondedAt != nil {
		t.Fatalf("respondedAt must be nil on submission, got %v", resp.RespondedAt)
	}
	if resp.JobID != job.ID {
		t.Fatalf("expected jobId %d got %d", job.ID, resp.JobID)
	}
	if !strings.HasPrefix(resp.CVKey, "cv/1/") || !strings.HasSuffix(resp.CVKey, ".pdf") {
		t.Fatalf("unexpected cv key %q", resp.CVKey)
	}
	if _, ok := store.uploaded[resp.CVKey]; !ok {
		t.Fatalf("cv was not uploaded under %q", resp.CVKey)
	}
}

func TestApply_RejectsDuplicate(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	seedApplication(t, db, user.ID, job.ID, workflow.StagePending)
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	body, contentType := newCVForm(t, map[string]string{
		"fullName": "Jordan Doe",
		"phone":    "+49-123",
	}, "cv.pdf", "application/pdf", []byte("%PDF-1.4 fake"))

	w := doRequest(router, http.MethodPost, "/api/applications/1", body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), msgDuplicateApplication) {
		t.Fatalf("expected duplicate message, got %s", w.Body.String())
	}
}

func TestApply_RejectsOversizedCV(t *testing.T) {
	h, db, store := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	seedJob(t, db, "Backend Engineer")
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	oversized := bytes.Repeat([]byte("a"), 6<<20)
	body, contentType := newCVForm(t, map[string]string{
		"fullName": "Jordan Doe",
		"phone":    "+49-123",
	}, "cv.pdf", "application/pdf", oversized)

	w := doRequest(router, http.MethodPost, "/api/applications/1", body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.uploaded) != 0 {
		t.Fatalf("oversized cv must not be uploaded")
	}
}

func TestApply_RejectsUnsupportedType(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	seedJob(t, db, "Backend Engineer")
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	body, contentType := newCVForm(t, map[string]string{
		"fullName": "Jordan Doe",
		"phone":    "+49-123",
	}, "cv.exe", "application/octet-stream", []byte("MZ"))

	w := doRequest(router, http.MethodPost, "/api/applications/1", body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestApply_UnknownJob(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	body, contentType := newCVForm(t, map[string]string{
		"fullName": "Jordan Doe",
		"phone":    "+49-123",
	}, "cv.pdf", "application/pdf", []byte("%PDF-1.4 fake"))

	w := doRequest(router, http.MethodPost, "/api/applications/99", body, contentType)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetMine_RejectsForeignApplication(t *testing.T) {
	h, db, _ := newTestHandler(t)
	owner := seedUser(t, db, "owner", "applicant")
	other := seedUser(t, db, "other", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	seedApplication(t, db, owner.ID, job.ID, workflow.StagePending)

	router := newTestRouter(h, other.ID, auth.RoleApplicant)
	w := doRequest(router, http.MethodGet, "/api/applications/my/1", nil, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestUpdateMine_LockedAfterFinalization(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	seedApplication(t, db, user.ID, job.ID, workflow.StageOffer)
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	body, contentType := newCVForm(t, map[string]string{"phone": "+49-999"}, "", "", nil)
	w := doRequest(router, http.MethodPut, "/api/applications/my/1", body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), msgApplicationLocked) {
		t.Fatalf("expected locked message, got %s", w.Body.String())
	}
}

func TestUpdateReminder_AllowedAfterFinalization(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	seedApplication(t, db, user.ID, job.ID, workflow.StageRejected)
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	payload := `{"reminderAt":"2026-10-01T09:00:00Z"}`
	w := doRequest(router, http.MethodPut, "/api/applications/1/reminder", strings.NewReader(payload), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var app database.Application
	if err := db.First(&app, 1).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if app.ReminderAt == nil {
		t.Fatalf("reminderAt not persisted")
	}
}

func TestUpdateReminder_NullClears(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	app := seedApplication(t, db, user.ID, job.ID, workflow.StagePending)
	at := time.Now().Add(24 * time.Hour)
	if err := db.Model(&app).Update("reminder_at", at).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	w := doRequest(router, http.MethodPut, "/api/applications/1/reminder", strings.NewReader(`{"reminderAt":null}`), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var reloaded database.Application
	if err := db.First(&reloaded, 1).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if reloaded.ReminderAt != nil {
		t.Fatalf("reminderAt should be cleared, got %v", reloaded.ReminderAt)
	}
}

func TestAdminUpdateStatus_StampsFirstResponse(t *testing.T) {
	h, db, _ := newTestHandler(t)
	admin := seedUser(t, db, "admin", "admin")
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	seedApplication(t, db, user.ID, job.ID, workflow.StagePending)
	router := newTestRouter(h, admin.ID, auth.RoleAdmin)

	w := doRequest(router, http.MethodPut, "/api/applications/1/status",
		strings.NewReader(`{"status":"under_review"}`), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp applicationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != workflow.StageUnderReview {
		t.Fatalf("expected under_review got %q", resp.Status)
	}
	if resp.RespondedAt == nil {
		t.Fatalf("respondedAt must be stamped on first leave of pending")
	}
}

func TestAdminUpdateStatus_RejectsUnknownStage(t *testing.T) {
	h, db, _ := newTestHandler(t)
	admin := seedUser(t, db, "admin", "admin")
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	seedApplication(t, db, user.ID, job.ID, workflow.StagePending)
	router := newTestRouter(h, admin.ID, auth.RoleAdmin)

	w := doRequest(router, http.MethodPut, "/api/applications/1/status",
		strings.NewReader(`{"status":"ghosted"}`), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminScheduleInterview_UpdatesSubRecord(t *testing.T) {
	h, db, _ := newTestHandler(t)
	admin := seedUser(t, db, "admin", "admin")
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	seedApplication(t, db, user.ID, job.ID, workflow.StagePending)
	router := newTestRouter(h, admin.ID, auth.RoleAdmin)

	payload := `{"interviewAt":"2026-09-15T14:00:00Z","location":"HQ Room 3"}`
	w := doRequest(router, http.MethodPut, "/api/applications/1/interview",
		strings.NewReader(payload), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp applicationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.InterviewAt == nil || resp.InterviewLocation != "HQ Room 3" {
		t.Fatalf("interview sub-record not updated: %+v", resp)
	}
	if resp.RespondedAt == nil {
		t.Fatalf("scheduling an interview counts as the first response")
	}
}

func TestAddNote_AppendsToThread(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	seedApplication(t, db, user.ID, job.ID, workflow.StageOffer)
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	w := doRequest(router, http.MethodPost, "/api/applications/1/notes",
		strings.NewReader(`{"text":"sent a follow-up email"}`), "application/json")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var resp applicationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Notes) != 1 {
		t.Fatalf("expected 1 note got %d", len(resp.Notes))
	}
	if resp.Notes[0].AuthorRole != "applicant" || resp.Notes[0].AuthorName != "jordan" {
		t.Fatalf("unexpected note author: %+v", resp.Notes[0])
	}
}

func TestMyCVLink_ReturnsSignedURL(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	app := seedApplication(t, db, user.ID, job.ID, workflow.StagePending)
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	w := doRequest(router, http.MethodGet, "/api/applications/my/1/cv-link", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), app.CVKey) {
		t.Fatalf("expected signed url for %q, got %s", app.CVKey, w.Body.String())
	}
}

func TestGetMine_CorruptNotesFallBackToEmptyThread(t *testing.T) {
	h, db, _ := newTestHandler(t)
	user := seedUser(t, db, "jordan", "applicant")
	job := seedJob(t, db, "Backend Engineer")
	app := seedApplication(t, db, user.ID, job.ID, workflow.StagePending)
	if err := db.Model(&app).Update("notes", datatypes.JSON(`{broken`)).Error; err != nil {
		t.Fatalf("corrupt notes column: %v", err)
	}
	router := newTestRouter(h, user.ID, auth.RoleApplicant)

	w := doRequest(router, http.MethodGet, "/api/applications/my/1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp applicationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Notes == nil || len(resp.Notes) != 0 {
		t.Fatalf("expected empty notes thread, got %+v", resp.Notes)
	}
}
