package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskbot/internal/chat"
	"github.com/sandeepkv93/taskbot/internal/model"
	"github.com/sandeepkv93/taskbot/internal/reply"
)

type memStore struct {
	mu      sync.Mutex
	tasks   []model.Task
	nextID  int
	listErr error
}

func (s *memStore) ListTasks(context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *memStore) CreateTask(_ context.Context, in model.NewTask) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := model.Task{
		ID:       fmt.Sprintf("t%d", s.nextID),
		Title:    in.Title,
		DueDate:  in.DueDate,
		Priority: in.Priority,
		Status:   model.StatusPending,
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *memStore) UpdateTask(_ context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks[i] = patch.Apply(t, time.Now())
			return s.tasks[i], nil
		}
	}
	return model.Task{}, &model.StoreError{Status: 404, Message: "Task not found"}
}

func (s *memStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return &model.StoreError{Status: 404, Message: "Task not found"}
}

func newTestModel(t *testing.T) (Model, *memStore, *Effects) {
	t.Helper()
	store := &memStore{}
	effects := NewEffects(4)
	session := chat.NewSession(store, chat.WithHooks(effects.Hooks()))
	return NewModel(session, store, effects.C(), Options{}), store, effects
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

// findMsg runs cmd, descending into batches, and returns the first message
// of type T.
func findMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	var zero T
	if cmd == nil {
		t.Fatalf("expected a command, got nil")
	}
	switch msg := cmd().(type) {
	case T:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if found, ok := tryMsg[T](c); ok {
				return found
			}
		}
	}
	t.Fatalf("no %T produced", zero)
	return zero
}

func tryMsg[T tea.Msg](cmd tea.Cmd) (T, bool) {
	var zero T
	switch msg := cmd().(type) {
	case T:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if found, ok := tryMsg[T](c); ok {
				return found, true
			}
		}
	}
	return zero, false
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.paneW != defaultTaskPaneWidth {
		t.Fatalf("expected default pane width, got %d", m.paneW)
	}
	if len(m.Messages) != 1 || m.Messages[0].Sender != model.SenderBot {
		t.Fatalf("expected greeting only, got %#v", m.Messages)
	}
	if m.Awaiting {
		t.Fatalf("new model should be idle")
	}
}

func TestSubmitRoundTrip(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(t, m, "show me my tasks")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.Awaiting || m.Pending != "show me my tasks" {
		t.Fatalf("expected pending turn, got awaiting=%v pending=%q", m.Awaiting, m.Pending)
	}
	if m.input.Value() != "" {
		t.Fatalf("input should be cleared after send, got %q", m.input.Value())
	}

	replyMsg := findMsg[ReplyMsg](t, cmd)
	if !replyMsg.Accepted || replyMsg.Reply.Content != reply.NoTasks {
		t.Fatalf("unexpected reply %#v", replyMsg)
	}
	updated, _ = m.Update(replyMsg)
	m = updated.(Model)
	if m.Awaiting || m.Pending != "" {
		t.Fatalf("expected idle after reply")
	}
	if len(m.Messages) != 3 || m.Messages[2].Content != reply.NoTasks {
		t.Fatalf("unexpected messages %#v", m.Messages)
	}
}

func TestEnterIgnoredWhileAwaiting(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(t, m, "show me my tasks")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	m = typeText(t, m, "add buy milk")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd != nil {
		t.Fatalf("expected no command while awaiting")
	}
	if m.Pending != "show me my tasks" || m.input.Value() != "add buy milk" {
		t.Fatalf("second turn should stay in the input, pending=%q input=%q", m.Pending, m.input.Value())
	}
	if m.Status.Text == "" {
		t.Fatalf("expected a status hint")
	}
}

func TestBlankEnterDoesNothing(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(t, m, "   ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || updated.(Model).Awaiting {
		t.Fatalf("blank input should not submit")
	}
}

func TestTaskEventRefreshesPane(t *testing.T) {
	m, _, effects := newTestModel(t)
	m = typeText(t, m, "add buy milk")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	updated, _ = m.Update(findMsg[ReplyMsg](t, cmd))
	m = updated.(Model)

	ev := findMsg[TaskEventMsg](t, waitForEffectCmd(effects.C()))
	if ev.Event.Kind != TaskCreated || ev.Event.Task.Title != "Buy milk" {
		t.Fatalf("unexpected event %#v", ev)
	}
	updated, cmd = m.Update(ev)
	m = updated.(Model)
	if !strings.Contains(m.Status.Text, "Buy milk") {
		t.Fatalf("expected status to name the task, got %q", m.Status.Text)
	}

	loaded := findMsg[TasksLoadedMsg](t, cmd)
	updated, _ = m.Update(loaded)
	m = updated.(Model)
	if len(m.Tasks) != 1 || len(m.taskTable.Rows()) != 1 {
		t.Fatalf("expected one task row, got %d tasks %d rows", len(m.Tasks), len(m.taskTable.Rows()))
	}
	if row := m.taskTable.Rows()[0]; row[0] != "Buy milk" || row[1] != "pending" || row[2] != "medium" || row[3] != "-" {
		t.Fatalf("unexpected row %#v", row)
	}
}

func TestTasksLoadError(t *testing.T) {
	m, store, _ := newTestModel(t)
	store.listErr = errors.New("db locked")
	loaded := findMsg[TasksLoadedMsg](t, refreshTasksCmd(context.Background(), store))
	updated, _ := m.Update(loaded)
	m = updated.(Model)
	if !m.Status.IsError || m.LastError == nil {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestEffectsDropWhenFull(t *testing.T) {
	e := NewEffects(1)
	h := e.Hooks()
	h.OnCreated(model.Task{Title: "a"})
	h.OnDeleted(model.Task{Title: "b"})
	if got := len(e.C()); got != 1 {
		t.Fatalf("expected one buffered event, got %d", got)
	}
	if ev := <-e.C(); ev.Kind != TaskCreated {
		t.Fatalf("expected first event kept, got %v", ev.Kind)
	}
}

func TestWindowResize(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m = updated.(Model)
	if m.chatWidth() != 160-defaultTaskPaneWidth-6 {
		t.Fatalf("unexpected chat width %d", m.chatWidth())
	}
	if m.transcript.Height != 40-chromeHeight {
		t.Fatalf("unexpected transcript height %d", m.transcript.Height)
	}
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
	if updated.(Model).View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestViewShowsPanes(t *testing.T) {
	m, _, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"taskbot", "Chat", "Tasks", "no tasks yet"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}
