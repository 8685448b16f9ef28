package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type MessageData struct {
	FromUser bool
	Content  string
	Time     string
}

type TranscriptData struct {
	Messages []MessageData
	// Pending is a user turn whose reply has not arrived yet.
	Pending  string
	Spinner  string
	Width    int
	Markdown bool
}

var (
	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderTranscript(data TranscriptData) string {
	width := orDefault(data.Width, 58)
	blocks := make([]string, 0, len(data.Messages)+2)
	for _, msg := range data.Messages {
		blocks = append(blocks, renderMessage(msg, width, data.Markdown))
	}
	if data.Pending != "" {
		blocks = append(blocks, renderMessage(MessageData{FromUser: true, Content: data.Pending}, width, false))
		blocks = append(blocks, botLabelStyle.Render("taskbot")+" "+strings.TrimSpace(data.Spinner+" thinking..."))
	}
	return strings.Join(blocks, "\n\n")
}

func renderMessage(msg MessageData, width int, markdown bool) string {
	label := botLabelStyle.Render("taskbot")
	if msg.FromUser {
		label = userLabelStyle.Render("you")
	}
	if msg.Time != "" {
		label += " " + timeStyle.Render(msg.Time)
	}

	var body string
	switch {
	case !msg.FromUser && markdown:
		body = RenderMarkdownWidth(msg.Content, width)
	default:
		body = lipgloss.NewStyle().Width(width).Render(msg.Content)
	}
	return label + "\n" + body
}

// RenderTaskSummary is the one-line count shown above the task table.
func RenderTaskSummary(total, completed int) string {
	if total == 0 {
		return "no tasks yet"
	}
	return fmt.Sprintf("%d tasks, %d completed", total, completed)
}
