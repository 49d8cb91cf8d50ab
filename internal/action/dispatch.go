package action

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/venkatesh3007/flexui/internal/schema"
)

// Status classifies the outcome of a dispatch.
type Status int

const (
	// StatusSuccess means at least one handler ran without error.
	StatusSuccess Status = iota
	// StatusBlocked means an interceptor vetoed the action. Not an error.
	StatusBlocked
	// StatusNoHandler means nothing was registered for the action.
	StatusNoHandler
	// StatusError means validation failed or every handler that ran errored.
	StatusError
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusBlocked:
		return "blocked"
	case StatusNoHandler:
		return "no_handler"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result records the outcome of one dispatch. Action is the post-interceptor
// action that handlers actually saw (nil when blocked before any ran).
type Result struct {
	ID          uuid.UUID
	Status      Status
	Action      *schema.Action
	HandlersRun int
	Err         error
}

// Dispatcher routes actions through the interceptor chain and fans them out
// to handlers. The dispatcher guarantees ordering only — interceptors before
// handlers, priority order within each tier — not which goroutine a handler
// runs on.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over a registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch validates the action, runs the interceptor chain, and fans out
// to handlers. Callback actions route by their embedded event name; every
// other type routes by the action's type string. A handler error or panic
// is captured and does not stop sibling handlers.
func (d *Dispatcher) Dispatch(ctx context.Context, a *schema.Action) Result {
	res := Result{ID: uuid.New(), Action: a}

	if a == nil {
		res.Status = StatusError
		res.Err = fmt.Errorf("nil action")
		return res
	}
	if err := a.Validate(); err != nil {
		res.Status = StatusError
		res.Err = err
		return res
	}

	for _, reg := range d.registry.interceptorChain() {
		out, allow := reg.interceptor.Intercept(ctx, a)
		if !allow {
			res.Status = StatusBlocked
			res.Action = a
			return res
		}
		if out != nil {
			a = out
		}
	}
	res.Action = a

	var regs []handlerReg
	if a.Type == schema.ActionCallback {
		regs = d.registry.eventHandlers(a.Event())
	} else {
		regs = d.registry.typeHandlers(a.Type)
	}

	var firstErr error
	succeeded := 0
	for _, reg := range regs {
		res.HandlersRun++
		if err := runHandler(ctx, reg.handler, a); err != nil {
			log.Printf("action: handler error for %s: %v", a.Type, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		succeeded++
	}

	switch {
	case succeeded > 0:
		res.Status = StatusSuccess
	case firstErr != nil:
		res.Status = StatusError
		res.Err = firstErr
	default:
		res.Status = StatusNoHandler
	}
	return res
}

// runHandler invokes a handler, converting a panic into an error so one
// misbehaving registrant cannot take down the dispatch.
func runHandler(ctx context.Context, h Handler, a *schema.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.HandleAction(ctx, a)
}
