// Package reply renders the assistant's chat messages.
package reply

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sandeepkv93/taskbot/internal/guard"
	"github.com/sandeepkv93/taskbot/internal/model"
)

const (
	NoTasks            = "You don't have any tasks yet. You can add a new task by telling me what you'd like to do!"
	UpdateNotFound     = "I couldn't find a task matching your description. Could you be more specific?"
	CouldNotUnderstand = "Sorry, I couldn't understand which task you meant or what to change. Could you rephrase that?"
)

// Apologies for failed store calls. The underlying error is never shown.
const (
	CreateFailed     = "Sorry, I encountered an error creating your task. Please try again."
	UpdateFailed     = "Sorry, I encountered an error updating your task. Please try again."
	DeleteGeneric    = "Sorry, I encountered an error deleting your task. Please try again."
	DeleteLookupFail = "Sorry, I encountered an error processing your deletion request. Please try again."
	ViewFailed       = "Sorry, I encountered an error retrieving your tasks. Please try again."
	GenericFailure   = "Sorry, I encountered an error processing your request."
)

const (
	tableIntro       = "📋 *Here are your tasks:*"
	tableTip         = "💡 *Tip: You can add, update, or delete tasks by telling me what you'd like to do!*"
	tableTitleLimit  = 23
	tableRuleWidth   = 70
	listedCandidates = 5
)

// Greeting opens every transcript.
func Greeting() string {
	return guard.CapabilityReply
}

func Created(title string) string {
	return fmt.Sprintf("✅ Successfully created task: \"%s\". You can view it in your task list.", title)
}

func Updated(title string) string {
	return fmt.Sprintf("✏️ Successfully updated task: \"%s\". Changes have been applied to your task.", title)
}

func Deleted(title string) string {
	return fmt.Sprintf("🗑️ Successfully deleted task: \"%s\". Refreshing your task list now...", title)
}

// DeleteNotFound asks for clarification and lists up to five titles to pick
// from.
func DeleteNotFound(tasks []model.Task) string {
	if len(tasks) == 0 {
		return UpdateNotFound
	}
	n := min(len(tasks), listedCandidates)
	quoted := make([]string, 0, n)
	for _, t := range tasks[:n] {
		quoted = append(quoted, `"`+t.Title+`"`)
	}
	return fmt.Sprintf("I couldn't find a task matching your description. Available tasks: %s. Could you be more specific?", strings.Join(quoted, ", "))
}

// DeleteFailed words a failed delete call. Not-found and permission errors
// from the store name the task; anything else gets the generic apology.
func DeleteFailed(title string, err error) string {
	switch {
	case model.IsStatus(err, http.StatusNotFound):
		return fmt.Sprintf("The task \"%s\" could not be found. It may have been deleted already.", title)
	case model.IsStatus(err, http.StatusForbidden):
		return fmt.Sprintf("You don't have permission to delete the task \"%s\".", title)
	default:
		return DeleteGeneric
	}
}

// TaskList renders the view reply: the empty-state line, or the task table
// wrapped in a code block and followed by the tip.
func TaskList(tasks []model.Task) string {
	if len(tasks) == 0 {
		return NoTasks
	}
	var b strings.Builder
	b.WriteString(tableIntro)
	b.WriteString("\n\n```\n")
	b.WriteString(TaskTable(tasks))
	b.WriteString("```\n\n")
	b.WriteString(tableTip)
	return b.String()
}

// TaskTable renders the monospace table body, one line per task.
func TaskTable(tasks []model.Task) string {
	var b strings.Builder
	b.WriteString("#" + strings.Repeat(" ", 3) + "Task" + strings.Repeat(" ", 24) +
		"Status" + strings.Repeat(" ", 10) + "Priority" + strings.Repeat(" ", 8) +
		"Due Date" + strings.Repeat(" ", 10) + "\n")
	b.WriteString(strings.Repeat("-", tableRuleWidth) + "\n")

	for i, t := range tasks {
		status := t.Status
		if status == "" {
			status = model.StatusPending
		}
		priority := t.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		due := t.DueDate
		if due == "" {
			due = "None"
		}

		b.WriteString(pad(strconv.Itoa(i+1), 3))
		b.WriteString(pad(truncate(t.Title, tableTitleLimit), 25))
		b.WriteString(statusEmoji(status) + " " + pad(capitalize(string(status)), 12))
		b.WriteString(priorityEmoji(priority) + " " + pad(string(priority), 8))
		b.WriteString(pad(due, 12))
		b.WriteString("\n")
	}
	return b.String()
}

func statusEmoji(s model.Status) string {
	if strings.EqualFold(string(s), string(model.StatusCompleted)) {
		return "✅"
	}
	return "⏳"
}

func priorityEmoji(p model.Priority) string {
	switch strings.ToLower(string(p)) {
	case string(model.PriorityHigh):
		return "🔴"
	case string(model.PriorityMedium):
		return "🟡"
	case string(model.PriorityLow):
		return "🟢"
	default:
		return ""
	}
}

// pad right-fills s to width display cells. Values already wider are left
// as they are.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
