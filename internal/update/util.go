package update

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/sandeepkv93/taskbot/internal/model"
)

func taskColumns(paneWidth int) []table.Column {
	const fixed = 10 + 8 + 11
	title := paneWidth - fixed - 6
	if title < 8 {
		title = 8
	}
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Status", Width: 10},
		{Title: "Priority", Width: 8},
		{Title: "Due", Width: 11},
	}
}

func taskRows(tasks []model.Task) []table.Row {
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		status := string(t.Status)
		if status == "" {
			status = string(model.StatusPending)
		}
		priority := string(t.Priority)
		if priority == "" {
			priority = string(model.PriorityMedium)
		}
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		rows = append(rows, table.Row{t.Title, status, priority, due})
	}
	return rows
}

func countCompleted(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == model.StatusCompleted {
			n++
		}
	}
	return n
}

func formatClock(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.Local().Format("15:04")
}
