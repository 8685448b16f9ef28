package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskbot/internal/chat"
	"github.com/sandeepkv93/taskbot/internal/model"
)

const refreshTimeout = 10 * time.Second

type TaskEventKind string

const (
	TaskCreated TaskEventKind = "created"
	TaskUpdated TaskEventKind = "updated"
	TaskDeleted TaskEventKind = "deleted"
)

type TaskEvent struct {
	Kind TaskEventKind
	Task model.Task
}

// Effects fans session mutations into a channel the TUI drains between
// frames. Sends never block; when the buffer is full the event is dropped
// and the next refresh catches up.
type Effects struct {
	ch chan TaskEvent
}

func NewEffects(buffer int) *Effects {
	if buffer <= 0 {
		buffer = 16
	}
	return &Effects{ch: make(chan TaskEvent, buffer)}
}

func (e *Effects) C() <-chan TaskEvent { return e.ch }

func (e *Effects) Hooks() chat.Hooks {
	return chat.Hooks{
		OnCreated: func(t model.Task) { e.emit(TaskCreated, t) },
		OnUpdated: func(t model.Task) { e.emit(TaskUpdated, t) },
		OnDeleted: func(t model.Task) { e.emit(TaskDeleted, t) },
	}
}

func (e *Effects) emit(kind TaskEventKind, t model.Task) {
	select {
	case e.ch <- TaskEvent{Kind: kind, Task: t}:
	default:
	}
}

func waitForEffectCmd(ch <-chan TaskEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TaskEventMsg{Event: ev}
	}
}

func submitCmd(ctx context.Context, session *chat.Session, text string) tea.Cmd {
	return func() tea.Msg {
		reply, ok := session.Submit(ctx, text)
		return ReplyMsg{Reply: reply, Accepted: ok}
	}
}

func refreshTasksCmd(ctx context.Context, lister TaskLister) tea.Cmd {
	if lister == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()
		tasks, err := lister.ListTasks(ctx)
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}
