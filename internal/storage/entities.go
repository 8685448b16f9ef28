package storage

import "time"

// Task is one row of the tasks table. An empty DueDate means no due date.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

type TaskListFilter struct {
	Status string
	Limit  int
	Offset int
}
