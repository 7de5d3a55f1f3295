package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jobTrack/internal/database"
	"jobTrack/internal/errcode"
	"jobTrack/internal/tasks"
)

func TestReminderScan_PublishesDueAndClearsReminder(t *testing.T) {
	db := newTestDB(t)
	app := seedNotifyFixture(t, db, "pending")
	due := time.Now().Add(-time.Hour).UTC()
	if err := db.Model(&database.Application{}).Where("id = ?", app.ID).Update("reminder_at", due).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	pub := &fakePublisher{}
	h := NewReminderScanHandler(db, pub, testLogger())
	if err := h.ProcessTask(context.Background(), tasks.NewReminderScanTask()); err != nil {
		t.Fatalf("process task: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 publish got %d", len(pub.published))
	}
	var msg ReminderNotifyMessage
	if err := json.Unmarshal(pub.published[0].payload, &msg); err != nil {
		t.Fatalf("decode notification: %v", err)
	}
	if msg.Type != notifyTypeReminder || msg.ApplicationID != app.ID || msg.JobTitle != "Backend Engineer" {
		t.Fatalf("unexpected notification: %+v", msg)
	}
	if msg.ErrorCode != errcode.OK {
		t.Fatalf("expected error code %d got %d", errcode.OK, msg.ErrorCode)
	}

	// 推送即清空，同一条提醒只发一次。
	var reloaded database.Application
	if err := db.First(&reloaded, app.ID).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if reloaded.ReminderAt != nil {
		t.Fatalf("reminderAt should be cleared after delivery, got %v", reloaded.ReminderAt)
	}

	if err := h.ProcessTask(context.Background(), tasks.NewReminderScanTask()); err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("second scan must not re-deliver, got %d publishes", len(pub.published))
	}
}

func TestReminderScan_IgnoresFutureReminders(t *testing.T) {
	db := newTestDB(t)
	app := seedNotifyFixture(t, db, "pending")
	future := time.Now().Add(48 * time.Hour).UTC()
	if err := db.Model(&database.Application{}).Where("id = ?", app.ID).Update("reminder_at", future).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	pub := &fakePublisher{}
	h := NewReminderScanHandler(db, pub, testLogger())
	if err := h.ProcessTask(context.Background(), tasks.NewReminderScanTask()); err != nil {
		t.Fatalf("process task: %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("future reminder must not fire, got %d publishes", len(pub.published))
	}
}
