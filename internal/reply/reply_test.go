package reply

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sandeepkv93/taskbot/internal/model"
)

func TestSuccessReplies(t *testing.T) {
	cases := map[string]string{
		Created("Buy milk"): `✅ Successfully created task: "Buy milk". You can view it in your task list.`,
		Updated("Laundry"):  `✏️ Successfully updated task: "Laundry". Changes have been applied to your task.`,
		Deleted("Rent"):     `🗑️ Successfully deleted task: "Rent". Refreshing your task list now...`,
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestDeleteNotFoundListsFirstFive(t *testing.T) {
	var tasks []model.Task
	for i := 1; i <= 7; i++ {
		tasks = append(tasks, model.Task{Title: fmt.Sprintf("t%d", i)})
	}
	got := DeleteNotFound(tasks)
	want := `I couldn't find a task matching your description. Available tasks: "t1", "t2", "t3", "t4", "t5". Could you be more specific?`
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if DeleteNotFound(nil) != UpdateNotFound {
		t.Fatalf("empty collection should not list candidates: %q", DeleteNotFound(nil))
	}
}

func TestDeleteFailed(t *testing.T) {
	notFound := fmt.Errorf("delete: %w", &model.StoreError{Status: 404, Message: "Task not found"})
	if got := DeleteFailed("Rent", notFound); got != `The task "Rent" could not be found. It may have been deleted already.` {
		t.Fatalf("unexpected 404 reply %q", got)
	}
	forbidden := &model.StoreError{Status: 403, Message: "forbidden"}
	if got := DeleteFailed("Rent", forbidden); got != `You don't have permission to delete the task "Rent".` {
		t.Fatalf("unexpected 403 reply %q", got)
	}
	if got := DeleteFailed("Rent", errors.New("boom")); got != DeleteGeneric {
		t.Fatalf("unexpected generic reply %q", got)
	}
	if got := DeleteFailed("Rent", &model.StoreError{Status: 500}); strings.Contains(got, "500") {
		t.Fatalf("raw status leaked: %q", got)
	}
}

func TestTaskListEmpty(t *testing.T) {
	if got := TaskList(nil); got != NoTasks {
		t.Fatalf("expected empty-state reply, got %q", got)
	}
}

func TestTaskTableLayout(t *testing.T) {
	tasks := []model.Task{
		{Title: "Buy milk", Status: model.StatusPending, Priority: model.PriorityHigh, DueDate: "2026-02-10"},
		{Title: "Prepare the quarterly budget report", Status: model.StatusCompleted, Priority: model.PriorityLow},
	}
	lines := strings.Split(strings.TrimSuffix(TaskTable(tasks), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and two rows, got %d lines", len(lines))
	}

	header := "#   Task" + strings.Repeat(" ", 24) + "Status" + strings.Repeat(" ", 10) +
		"Priority" + strings.Repeat(" ", 8) + "Due Date" + strings.Repeat(" ", 10)
	if lines[0] != header {
		t.Fatalf("header mismatch:\n%q\n%q", lines[0], header)
	}
	if lines[1] != strings.Repeat("-", 70) {
		t.Fatalf("rule mismatch: %q", lines[1])
	}

	row1 := "1  " + "Buy milk" + strings.Repeat(" ", 17) + "⏳ Pending     " + "🔴 high    " + "2026-02-10  "
	if lines[2] != row1 {
		t.Fatalf("row mismatch:\n%q\n%q", lines[2], row1)
	}
	row2 := "2  " + "Prepare the quarterly b" + "  " + "✅ Completed   " + "🟢 low     " + "None        "
	if lines[3] != row2 {
		t.Fatalf("row mismatch:\n%q\n%q", lines[3], row2)
	}
}

func TestTaskListWrapsTable(t *testing.T) {
	got := TaskList([]model.Task{{Title: "Laundry"}})
	if !strings.HasPrefix(got, "📋 *Here are your tasks:*\n\n```\n#") {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if !strings.HasSuffix(got, "```\n\n💡 *Tip: You can add, update, or delete tasks by telling me what you'd like to do!*") {
		t.Fatalf("unexpected suffix: %q", got)
	}
	if !strings.Contains(got, "⏳ Pending") || !strings.Contains(got, "🟡 medium") {
		t.Fatalf("defaults not applied: %q", got)
	}
}
