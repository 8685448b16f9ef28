// Package chat runs the conversation: one user message in, one assistant
// reply out, with at most one task-store call in flight.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/taskbot/internal/commands"
	"github.com/sandeepkv93/taskbot/internal/guard"
	"github.com/sandeepkv93/taskbot/internal/model"
	"github.com/sandeepkv93/taskbot/internal/reply"
	"github.com/sandeepkv93/taskbot/internal/resolve"
	"go.uber.org/zap"
)

type Store interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, in model.NewTask) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type State int

const (
	StateIdle State = iota
	StateAwaiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Hooks are notified after a successful store mutation so a host view can
// refresh. They run on the submitting goroutine.
type Hooks struct {
	OnCreated func(model.Task)
	OnUpdated func(model.Task)
	OnDeleted func(model.Task)
}

type Option func(*Session)

func WithInterpreter(in *commands.Interpreter) Option {
	return func(s *Session) {
		if in != nil {
			s.interp = in
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDs(next func() string) Option {
	return func(s *Session) {
		if next != nil {
			s.newID = next
		}
	}
}

func WithHooks(h Hooks) Option {
	return func(s *Session) {
		s.hooks = h
	}
}

type Session struct {
	store  Store
	interp *commands.Interpreter
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
	hooks  Hooks

	mu         sync.Mutex
	state      State
	transcript []model.Message
}

// NewSession builds a session over store. The transcript starts with the
// assistant's greeting.
func NewSession(store Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		interp: commands.NewInterpreter(guard.DefaultRules()),
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.transcript = []model.Message{s.message(s.capability(), model.SenderBot)}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the messages so far, oldest first.
func (s *Session) Transcript() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Submit runs one turn and returns the assistant's reply. It reports false
// without touching the transcript when text is blank or another turn is in
// flight. The turn runs to completion even if ctx is cancelled.
func (s *Session) Submit(ctx context.Context, text string) (model.Message, bool) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, false
	}

	s.mu.Lock()
	if s.state == StateAwaiting {
		s.mu.Unlock()
		return model.Message{}, false
	}
	s.transcript = append(s.transcript, s.message(text, model.SenderUser))
	s.state = StateAwaiting
	s.mu.Unlock()

	content := s.respond(context.WithoutCancel(ctx), text)

	s.mu.Lock()
	defer s.mu.Unlock()
	bot := s.message(content, model.SenderBot)
	s.transcript = append(s.transcript, bot)
	s.state = StateIdle
	return bot, true
}

func (s *Session) respond(ctx context.Context, text string) (content string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("turn panicked", zap.Any("panic", r))
			content = reply.GenericFailure
		}
	}()

	cmd, err := s.interp.Parse(text)
	if err != nil {
		var ce *commands.CommandError
		if errors.As(err, &ce) && ce.Code == commands.ErrCodeIncomplete {
			s.logger.Debug("extraction incomplete", zap.String("intent", string(ce.Intent)))
			return reply.CouldNotUnderstand
		}
		s.logger.Debug("no intent", zap.Error(err))
		return s.capability()
	}
	if cmd.Verdict != nil {
		s.logger.Debug("guarded input", zap.String("kind", string(cmd.Verdict.Kind)), zap.String("term", cmd.Verdict.Term))
	} else {
		s.logger.Debug("classified", zap.String("intent", string(cmd.Type)))
	}

	res, err := commands.Execute(cmd, s.handlers(ctx))
	if err != nil {
		s.logger.Warn("execute failed", zap.String("intent", string(cmd.Type)), zap.Error(err))
		return reply.GenericFailure
	}
	return res.Message
}

func (s *Session) handlers(ctx context.Context) commands.Handlers {
	return commands.Handlers{
		View:   func() (commands.Result, error) { return s.view(ctx), nil },
		Create: func(f commands.Fields) (commands.Result, error) { return s.create(ctx, f), nil },
		Update: func(f commands.Fields) (commands.Result, error) { return s.update(ctx, f), nil },
		Delete: func(f commands.Fields) (commands.Result, error) { return s.delete(ctx, f), nil },
	}
}

func (s *Session) view(ctx context.Context) commands.Result {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logger.Warn("list tasks failed", zap.Error(err))
		return commands.Result{Message: reply.ViewFailed}
	}
	return commands.Result{Message: reply.TaskList(tasks)}
}

func (s *Session) create(ctx context.Context, f commands.Fields) commands.Result {
	in := f.NewTask()
	in.DueDate = commands.ResolveDueDate(in.DueDate, s.now())
	task, err := s.store.CreateTask(ctx, in)
	if err != nil {
		s.logger.Warn("create task failed", zap.String("title", in.Title), zap.Error(err))
		return commands.Result{Message: reply.CreateFailed}
	}
	if s.hooks.OnCreated != nil {
		s.hooks.OnCreated(task)
	}
	return commands.Result{Message: reply.Created(in.Title)}
}

func (s *Session) update(ctx context.Context, f commands.Fields) commands.Result {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logger.Warn("list tasks failed", zap.String("intent", "update"), zap.Error(err))
		return commands.Result{Message: reply.UpdateFailed}
	}
	match, ok := s.resolve(f, tasks)
	if !ok {
		return commands.Result{Message: reply.UpdateNotFound}
	}
	patch := f.Patch()
	if patch.IsEmpty() {
		return commands.Result{Message: reply.CouldNotUnderstand}
	}
	task, err := s.store.UpdateTask(ctx, match.Task.ID, patch)
	if err != nil {
		s.logger.Warn("update task failed", zap.String("id", match.Task.ID), zap.Error(err))
		return commands.Result{Message: reply.UpdateFailed}
	}
	if s.hooks.OnUpdated != nil {
		s.hooks.OnUpdated(task)
	}
	return commands.Result{Message: reply.Updated(match.Task.Title)}
}

func (s *Session) delete(ctx context.Context, f commands.Fields) commands.Result {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logger.Warn("list tasks failed", zap.String("intent", "delete"), zap.Error(err))
		return commands.Result{Message: reply.DeleteLookupFail}
	}
	match, ok := s.resolve(f, tasks)
	if !ok {
		return commands.Result{Message: reply.DeleteNotFound(tasks)}
	}
	if err := s.store.DeleteTask(ctx, match.Task.ID); err != nil {
		s.logger.Warn("delete task failed", zap.String("id", match.Task.ID), zap.Error(err))
		return commands.Result{Message: reply.DeleteFailed(match.Task.Title, err)}
	}
	if s.hooks.OnDeleted != nil {
		s.hooks.OnDeleted(match.Task)
	}
	return commands.Result{Message: reply.Deleted(match.Task.Title)}
}

// resolve prefers an explicit id over a title reference.
func (s *Session) resolve(f commands.Fields, tasks []model.Task) (resolve.Match, bool) {
	var (
		m  resolve.Match
		ok bool
	)
	if f.TaskID != "" {
		m, ok = resolve.ByID(f.TaskID, tasks)
	} else {
		m, ok = resolve.ByTitle(f.TitleRef, tasks)
	}
	if ok {
		s.logger.Debug("resolved task",
			zap.String("id", m.Task.ID),
			zap.String("method", string(m.Method)),
			zap.Float64("score", m.Score),
		)
	} else {
		s.logger.Debug("no task matched", zap.String("ref", f.TitleRef), zap.String("task_id", f.TaskID))
	}
	return m, ok
}

func (s *Session) capability() string {
	if s.interp.Guards.CapabilityReply != "" {
		return s.interp.Guards.CapabilityReply
	}
	return reply.Greeting()
}

func (s *Session) message(content string, sender model.Sender) model.Message {
	return model.Message{ID: s.newID(), Content: content, Sender: sender, Timestamp: s.now()}
}
