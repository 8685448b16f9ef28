package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	View   func() (Result, error)
	Create func(Fields) (Result, error)
	Update func(Fields) (Result, error)
	Delete func(Fields) (Result, error)
}

// Execute dispatches cmd to its handler. Guarded commands carry their own
// reply and need no handler.
func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeGuarded:
		return Result{Message: cmd.Reply}, nil
	case TypeView:
		if handlers.View == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Intent: cmd.Type, Message: "view handler not configured"}
		}
		return handlers.View()
	case TypeCreate:
		if handlers.Create == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Intent: cmd.Type, Message: "create handler not configured"}
		}
		return handlers.Create(cmd.Fields)
	case TypeUpdate:
		if handlers.Update == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Intent: cmd.Type, Message: "update handler not configured"}
		}
		return handlers.Update(cmd.Fields)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Intent: cmd.Type, Message: "delete handler not configured"}
		}
		return handlers.Delete(cmd.Fields)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownIntent, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
