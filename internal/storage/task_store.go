package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/taskbot/internal/model"
)

// TaskStore exposes a Repository through the chat session's store
// contract. Failures come back as *model.StoreError with HTTP-style codes so
// the local and REST backends read the same to callers.
type TaskStore struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewTaskStore(repo Repository) *TaskStore {
	return &TaskStore{repo: repo, now: time.Now, newID: uuid.NewString}
}

func (s *TaskStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		return nil, storeError(err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, toModel(row))
	}
	return out, nil
}

func (s *TaskStore) GetTask(ctx context.Context, id string) (model.Task, error) {
	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, storeError(err)
	}
	return toModel(row), nil
}

func (s *TaskStore) CreateTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, &model.StoreError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	now := s.now().UTC()
	task := model.Task{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    priority,
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateTask(ctx, fromModel(task)); err != nil {
		return model.Task{}, storeError(err)
	}
	return task, nil
}

func (s *TaskStore) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := patch.Validate(); err != nil {
		return model.Task{}, &model.StoreError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, storeError(err)
	}
	task := patch.Apply(toModel(row), s.now().UTC())
	if err := s.repo.UpdateTask(ctx, fromModel(task)); err != nil {
		return model.Task{}, storeError(err)
	}
	return task, nil
}

// ToggleTask flips a task between pending and completed.
func (s *TaskStore) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, storeError(err)
	}
	next := model.StatusCompleted
	if model.Status(row.Status) == model.StatusCompleted {
		next = model.StatusPending
	}
	return s.UpdateTask(ctx, id, model.TaskPatch{Status: &next})
}

func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return storeError(err)
	}
	return nil
}

func storeError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return &model.StoreError{Status: http.StatusNotFound, Message: "Task not found"}
	}
	return &model.StoreError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("storage: %v", err)}
}

func toModel(row Task) model.Task {
	return model.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		DueDate:     row.DueDate,
		Priority:    model.Priority(row.Priority),
		Status:      model.Status(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		CompletedAt: row.CompletedAt,
	}
}

func fromModel(t model.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}
