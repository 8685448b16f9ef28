package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskbot/internal/model"
	"github.com/sandeepkv93/taskbot/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		refreshTasksCmd(m.ctx, m.lister),
		waitForEffectCmd(m.effects),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.syncBubbleData()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case ReplyMsg:
		m.Awaiting = false
		m.Pending = ""
		m.Messages = m.session.Transcript()
		if !typed.Accepted {
			m.Status = StatusBar{Text: "message was not sent", IsError: true}
		}
		m.syncBubbleData()
		return m, nil
	case TaskEventMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("task %s: %s", typed.Event.Kind, typed.Event.Task.Title)}
		return m, tea.Batch(refreshTasksCmd(m.ctx, m.lister), waitForEffectCmd(m.effects))
	case TasksLoadedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: "could not load tasks: " + typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.LastError = nil
		m.Tasks = typed.Tasks
		m.syncBubbleData()
		return m, nil
	case spinner.TickMsg:
		if !m.Awaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(typed)
		m.syncBubbleData()
		return m, cmd
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Send):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		if m.Awaiting {
			m.Status = StatusBar{Text: "still waiting for the last reply"}
			return m, nil
		}
		m.input.Reset()
		m.Awaiting = true
		m.Pending = text
		m.Status = StatusBar{}
		m.syncBubbleData()
		return m, tea.Batch(submitCmd(m.ctx, m.session, text), m.spin.Tick)
	case key.Matches(msg, m.Keys.Refresh):
		return m, refreshTasksCmd(m.ctx, m.lister)
	case key.Matches(msg, m.Keys.PageUp):
		m.transcript.PageUp()
		return m, nil
	case key.Matches(msg, m.Keys.PageDown):
		m.transcript.PageDown()
		return m, nil
	}
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := m.Status.Text
	if status == "" && m.Awaiting {
		status = m.spin.View() + " working"
	}
	left := views.RenderPane("Chat", m.transcript.View()+"\n\n"+m.input.View())
	right := views.RenderPane("Tasks", views.RenderTaskSummary(len(m.Tasks), countCompleted(m.Tasks))+"\n\n"+m.taskTable.View())
	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("taskbot | %s", m.session.State()),
		LeftPane:      left,
		RightPane:     right,
		LeftWidth:     m.chatWidth(),
		RightWidth:    m.paneW,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Footer:        m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
	})
}

func (m Model) renderTranscript() string {
	data := views.TranscriptData{
		Messages: make([]views.MessageData, 0, len(m.Messages)),
		Pending:  m.Pending,
		Width:    m.chatWidth() - 2,
		Markdown: m.markdown,
	}
	if m.Awaiting {
		data.Spinner = m.spin.View()
	}
	for _, msg := range m.Messages {
		data.Messages = append(data.Messages, views.MessageData{
			FromUser: msg.Sender == model.SenderUser,
			Content:  msg.Content,
			Time:     formatClock(msg.Timestamp),
		})
	}
	return views.RenderTranscript(data)
}
