package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sandeepkv93/taskbot/internal/guard"
	"github.com/sandeepkv93/taskbot/internal/model"
)

type Type string

const (
	TypeGuarded Type = "guarded"
	TypeView    Type = "view"
	TypeCreate  Type = "create"
	TypeUpdate  Type = "update"
	TypeDelete  Type = "delete"
)

type ErrorCode string

const (
	ErrCodeEmptyInput     ErrorCode = "empty_input"
	ErrCodeUnknownIntent  ErrorCode = "unknown_intent"
	ErrCodeIncomplete     ErrorCode = "extraction_incomplete"
	ErrCodeHandlerMissing ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Intent  Type
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Fields are the values pulled out of a message. An empty field was not
// mentioned; it never means "clear this value".
type Fields struct {
	TitleRef    string
	TaskID      string
	NewTitle    string
	Description string
	DueDate     string
	Priority    model.Priority
	Status      model.Status
}

func (f Fields) hasUpdates() bool {
	return f.NewTitle != "" || f.Description != "" || f.Priority != "" || f.Status != ""
}

// NewTitle carries the created title.
func (f Fields) NewTask() model.NewTask {
	return model.NewTask{
		Title:       f.NewTitle,
		Description: f.Description,
		DueDate:     f.DueDate,
		Priority:    f.Priority,
	}
}

func (f Fields) Patch() model.TaskPatch {
	var p model.TaskPatch
	if f.NewTitle != "" {
		v := f.NewTitle
		p.Title = &v
	}
	if f.Description != "" {
		v := f.Description
		p.Description = &v
	}
	if f.Priority != "" {
		v := f.Priority
		p.Priority = &v
	}
	if f.Status != "" {
		v := f.Status
		p.Status = &v
	}
	return p
}

type Command struct {
	Type    Type
	Raw     string
	Reply   string
	Verdict *guard.Verdict
	Fields  Fields
}

// Rule pairs an intent predicate with its extractor. Match sees the
// lower-cased, trimmed text; Extract sees the raw trimmed text. When a
// tentative rule fails extraction the next rule is tried; otherwise the
// failure is reported as extraction_incomplete.
type Rule struct {
	Type      Type
	Match     func(lower string) bool
	Extract   func(raw string) (Fields, bool)
	Tentative bool
}

var (
	updateKeywords = []string{"update", "change", "modify", "edit", "adjust", "set", "make"}
	deleteKeywords = []string{"delete", "remove", "cancel", "complete", "done"}
	viewRequests   = []string{
		"show me my tasks", "view task list", "show all tasks", "what tasks do i have?",
		"list my tasks", "display my todo list", "see my tasks", "check my tasks",
		"get my tasks", "show my to-do list", "view my tasks", "show task list",
		"view all tasks", "what do i have to do?", "show me tasks", "list tasks",
	}
)

// DefaultRules returns the rule order Update, Delete, View, Create. Update
// runs first so that phrases like "set laundry as done" are not taken as
// deletions.
func DefaultRules() []Rule {
	return []Rule{
		{Type: TypeUpdate, Match: containsAny(updateKeywords), Extract: ExtractUpdate},
		{Type: TypeDelete, Match: containsAny(deleteKeywords), Extract: ExtractDelete},
		{Type: TypeView, Match: IsViewRequest, Extract: func(string) (Fields, bool) { return Fields{}, true }},
		{Type: TypeCreate, Match: func(string) bool { return true }, Extract: ExtractCreate, Tentative: true},
	}
}

// IsViewRequest reports whether text is one of the canonical list phrases.
// Only exact matches count.
func IsViewRequest(text string) bool {
	return slices.Contains(viewRequests, strings.ToLower(strings.TrimSpace(text)))
}

type Interpreter struct {
	Guards guard.Rules
	Rules  []Rule
}

func NewInterpreter(guards guard.Rules) *Interpreter {
	return &Interpreter{Guards: guards, Rules: DefaultRules()}
}

func Parse(input string) (Command, error) {
	return NewInterpreter(guard.DefaultRules()).Parse(input)
}

func (in *Interpreter) Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "message is empty"}
	}
	if v, ok := in.Guards.Check(raw); ok {
		return Command{Type: TypeGuarded, Raw: input, Reply: v.Reply, Verdict: &v}, nil
	}

	lower := strings.ToLower(raw)
	for _, rule := range in.Rules {
		if !rule.Match(lower) {
			continue
		}
		fields, ok := rule.Extract(raw)
		if ok {
			return Command{Type: rule.Type, Raw: input, Fields: fields}, nil
		}
		if rule.Tentative {
			continue
		}
		return Command{}, &CommandError{Code: ErrCodeIncomplete, Intent: rule.Type, Message: fmt.Sprintf("could not extract %s details", rule.Type)}
	}
	return Command{}, &CommandError{Code: ErrCodeUnknownIntent, Message: "no rule matched"}
}

func containsAny(keywords []string) func(string) bool {
	return func(lower string) bool {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
}
