package httpstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandeepkv93/taskbot/internal/model"
)

// The API serialises naive UTC datetimes without an offset, so timestamps
// are decoded with a fallback layout.
var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

type apiTime struct {
	time.Time
	Valid bool
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = apiTime{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*t = apiTime{}
		return nil
	}
	for _, layout := range apiTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = apiTime{Time: parsed.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("httpstore: unrecognised timestamp %q", raw)
}

// wireTask mirrors the API's TaskRead shape.
type wireTask struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Status      string  `json:"status"`
	CreatedAt   apiTime `json:"created_at"`
	UpdatedAt   apiTime `json:"updated_at"`
	CompletedAt apiTime `json:"completed_at"`
}

func (w wireTask) toModel() model.Task {
	t := model.Task{
		ID:        w.ID,
		Title:     w.Title,
		Status:    model.Status(w.Status),
		Priority:  model.PriorityMedium,
		CreatedAt: w.CreatedAt.Time,
		UpdatedAt: w.UpdatedAt.Time,
	}
	if w.Description != nil {
		t.Description = *w.Description
	}
	if w.Priority != nil && *w.Priority != "" {
		t.Priority = model.Priority(*w.Priority)
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if w.DueDate != nil {
		t.DueDate = dueDate(*w.DueDate)
	}
	if w.CompletedAt.Valid {
		at := w.CompletedAt.Time
		t.CompletedAt = &at
	}
	return t
}

func toModels(in []wireTask) []model.Task {
	out := make([]model.Task, 0, len(in))
	for _, w := range in {
		out = append(out, w.toModel())
	}
	return out
}

// dueDate reduces an API datetime to its calendar date and passes anything
// else through untouched.
func dueDate(raw string) string {
	if len(raw) >= 10 {
		if _, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return raw[:10]
		}
	}
	return raw
}
