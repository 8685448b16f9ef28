package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/taskbot/internal/model"
)

func newTestStore(t *testing.T) (*TaskStore, *time.Time) {
	t.Helper()
	s := NewTaskStore(setupRepo(t, DriverPure))
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestTaskStoreLifecycle(t *testing.T) {
	s, now := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, model.NewTask{Title: "  Buy milk ", DueDate: "2026-02-10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Title != "Buy milk" || created.Priority != model.PriorityMedium || created.Status != model.StatusPending {
		t.Fatalf("unexpected created task: %#v", created)
	}

	*now = now.Add(time.Hour)
	done := model.StatusCompleted
	high := model.PriorityHigh
	updated, err := s.UpdateTask(ctx, created.ID, model.TaskPatch{Status: &done, Priority: &high})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(*now) || !updated.UpdatedAt.Equal(*now) || updated.Priority != high {
		t.Fatalf("unexpected updated task: %#v", updated)
	}
	if err := updated.Validate(); err != nil {
		t.Fatalf("updated task should be valid: %v", err)
	}

	toggled, err := s.ToggleTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Status != model.StatusPending || toggled.CompletedAt != nil {
		t.Fatalf("toggle should reopen the task: %#v", toggled)
	}

	list, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || list[0].Priority != high || list[0].DueDate != "2026-02-10" {
		t.Fatalf("unexpected list: %#v", list)
	}

	if err := s.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTask(ctx, created.ID); !model.IsStatus(err, 404) {
		t.Fatalf("expected 404 on second delete, got %v", err)
	}
}

func TestTaskStoreValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cases := []model.NewTask{
		{Title: "   "},
		{Title: strings.Repeat("x", model.MaxTitleLen+1)},
		{Title: "ok", Description: strings.Repeat("d", model.MaxDescriptionLen+1)},
		{Title: "ok", Priority: "urgent"},
	}
	for _, in := range cases {
		if _, err := s.CreateTask(ctx, in); !model.IsStatus(err, 400) {
			t.Fatalf("expected 400 for %+v, got %v", in, err)
		}
	}

	empty := ""
	if _, err := s.UpdateTask(ctx, "whatever", model.TaskPatch{Title: &empty}); !model.IsStatus(err, 400) {
		t.Fatalf("expected 400 for empty title patch, got %v", err)
	}
	title := "fine"
	if _, err := s.UpdateTask(ctx, "missing", model.TaskPatch{Title: &title}); !model.IsStatus(err, 404) {
		t.Fatalf("expected 404 for missing task, got %v", err)
	}
}
