package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskvault/taskvault/internal/common"
	"github.com/taskvault/taskvault/internal/server/models"
)

func newTaskFixture() (*TaskService, *memStore) {
	store := newMemStore()
	return NewTaskService(nil, store, testConfig()), store
}

func TestTaskCreate(t *testing.T) {
	svc, _ := newTaskFixture()

	due := time.Now().Add(48 * time.Hour)
	task, err := svc.Create(context.Background(), "owner-1", TaskInput{
		Title:       "  write report  ",
		Description: "quarterly numbers",
		Status:      models.TaskStatusInProgress,
		Priority:    models.TaskPriorityHigh,
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == "" {
		t.Errorf("task created without an ID")
	}
	if task.UserID != "owner-1" {
		t.Errorf("task owner = %q, want owner-1", task.UserID)
	}
	if task.Title != "write report" {
		t.Errorf("title not trimmed: %q", task.Title)
	}
}

func TestTaskCreateDefaults(t *testing.T) {
	svc, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), "owner-1", TaskInput{Title: "minimal"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("default status = %q, want pending", task.Status)
	}
	if task.Priority != models.TaskPriorityMedium {
		t.Errorf("default priority = %q, want medium", task.Priority)
	}
}

func TestTaskCreateValidation(t *testing.T) {
	svc, _ := newTaskFixture()

	long := make([]byte, maxTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name string
		in   TaskInput
	}{
		{"empty title", TaskInput{Title: "   "}},
		{"title too long", TaskInput{Title: string(long)}},
		{"unknown status", TaskInput{Title: "ok", Status: "archived"}},
		{"unknown priority", TaskInput{Title: "ok", Priority: "critical"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), "owner-1", tt.in); !errors.Is(err, common.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestTaskListIsScopedToOwner(t *testing.T) {
	svc, _ := newTaskFixture()

	for _, owner := range []string{"owner-1", "owner-1", "owner-2"} {
		if _, err := svc.Create(context.Background(), owner, TaskInput{Title: "task for " + owner}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mine, err := svc.List(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("owner-1 sees %d tasks, want 2", len(mine))
	}
	for _, task := range mine {
		if task.UserID != "owner-1" {
			t.Errorf("foreign task leaked into listing: %+v", task)
		}
	}
}

func TestTaskGetIsolation(t *testing.T) {
	svc, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), "owner-1", TaskInput{Title: "private"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), "owner-1", task.ID); err != nil {
		t.Errorf("owner denied own task: %v", err)
	}
	if _, err := svc.Get(context.Background(), "owner-2", task.ID); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("foreign owner: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "owner-1", "no-such-task"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("absent task: expected ErrNotFound, got %v", err)
	}
}

func TestTaskUpdate(t *testing.T) {
	svc, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), "owner-1", TaskInput{Title: "draft"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), "owner-1", task.ID, TaskInput{
		Title:    "final",
		Status:   models.TaskStatusCompleted,
		Priority: models.TaskPriorityLow,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "final" || updated.Status != models.TaskStatusCompleted {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Description != "" {
		t.Errorf("full update should replace description, got %q", updated.Description)
	}

	if _, err := svc.Update(context.Background(), "owner-2", task.ID, TaskInput{Title: "hijack"}); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("foreign update: expected ErrForbidden, got %v", err)
	}
}

func TestTaskPatch(t *testing.T) {
	svc, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), "owner-1", TaskInput{
		Title:       "keep me",
		Description: "original description",
		Priority:    models.TaskPriorityUrgent,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := models.TaskStatusInProgress
	patched, err := svc.Patch(context.Background(), "owner-1", task.ID, TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if patched.Status != models.TaskStatusInProgress {
		t.Errorf("status not patched: %q", patched.Status)
	}
	if patched.Title != "keep me" || patched.Description != "original description" || patched.Priority != models.TaskPriorityUrgent {
		t.Errorf("patch clobbered untouched fields: %+v", patched)
	}

	empty := ""
	if _, err := svc.Patch(context.Background(), "owner-1", task.ID, TaskPatch{Title: &empty}); !errors.Is(err, common.ErrValidation) {
		t.Errorf("empty patched title: expected ErrValidation, got %v", err)
	}
	bad := models.TaskStatus("archived")
	if _, err := svc.Patch(context.Background(), "owner-1", task.ID, TaskPatch{Status: &bad}); !errors.Is(err, common.ErrValidation) {
		t.Errorf("bad patched status: expected ErrValidation, got %v", err)
	}
}

func TestTaskDelete(t *testing.T) {
	svc, store := newTaskFixture()

	task, err := svc.Create(context.Background(), "owner-1", TaskInput{Title: "done soon"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), "owner-2", task.ID); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("foreign delete: expected ErrForbidden, got %v", err)
	}
	if _, ok := store.tasks[task.ID]; !ok {
		t.Fatalf("task removed by a forbidden delete")
	}

	if err := svc.Delete(context.Background(), "owner-1", task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "owner-1", task.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestTaskStoreUnavailable(t *testing.T) {
	store := newMemStore()
	store.block = true

	cfg := testConfig()
	cfg.StoreTimeout = 10 * time.Millisecond
	svc := NewTaskService(nil, store, cfg)

	if _, err := svc.List(context.Background(), "owner-1"); !errors.Is(err, common.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
