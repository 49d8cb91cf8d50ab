// Package action routes user-interaction intents to registered handlers
// through an ordered interceptor chain.
package action

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/venkatesh3007/flexui/internal/schema"
)

// Handler processes a dispatched action. Implementations must be safe for
// concurrent calls from different goroutines; anything that touches UI
// objects must marshal itself onto the host UI thread.
type Handler interface {
	HandleAction(ctx context.Context, a *schema.Action) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, a *schema.Action) error

func (f HandlerFunc) HandleAction(ctx context.Context, a *schema.Action) error {
	return f(ctx, a)
}

// Interceptor sees every action before any handler runs. It may pass the
// action through, return a transformed replacement, or veto it by returning
// allow=false, which terminates dispatch with a Blocked result.
type Interceptor interface {
	Intercept(ctx context.Context, a *schema.Action) (out *schema.Action, allow bool)
}

// InterceptorFunc adapts a plain function to the Interceptor interface.
type InterceptorFunc func(ctx context.Context, a *schema.Action) (*schema.Action, bool)

func (f InterceptorFunc) Intercept(ctx context.Context, a *schema.Action) (*schema.Action, bool) {
	return f(ctx, a)
}

type handlerReg struct {
	id       string
	priority int
	seq      uint64
	handler  Handler
}

type interceptorReg struct {
	id          string
	priority    int
	seq         uint64
	interceptor Interceptor
}

// Registry holds action handlers keyed by action type or callback event
// name, plus the interceptor chain. Registration and dispatch may happen
// concurrently from arbitrary goroutines; dispatch takes a snapshot under a
// read lock and runs handlers outside it.
type Registry struct {
	mu           sync.RWMutex
	byType       map[string][]handlerReg
	byEvent      map[string][]handlerReg
	interceptors []interceptorReg
	seq          uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType:  make(map[string][]handlerReg),
		byEvent: make(map[string][]handlerReg),
	}
}

// RegisterHandler registers a handler for an exact action type. Higher
// priority runs first; equal priorities keep registration order. The
// returned id unregisters the handler.
func (r *Registry) RegisterHandler(actionType string, priority int, h Handler) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.seq++
	r.byType[actionType] = append(r.byType[actionType], handlerReg{id: id, priority: priority, seq: r.seq, handler: h})
	return id
}

// RegisterEventHandler registers a handler for a callback event name.
func (r *Registry) RegisterEventHandler(event string, priority int, h Handler) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.seq++
	r.byEvent[event] = append(r.byEvent[event], handlerReg{id: id, priority: priority, seq: r.seq, handler: h})
	return id
}

// RegisterInterceptor adds an interceptor to the chain. Higher priority
// runs first; equal priorities keep registration order.
func (r *Registry) RegisterInterceptor(priority int, i Interceptor) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.seq++
	r.interceptors = append(r.interceptors, interceptorReg{id: id, priority: priority, seq: r.seq, interceptor: i})
	return id
}

// Unregister removes the handler or interceptor with the given id. Removing
// an unknown id is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, regs := range r.byType {
		r.byType[key] = removeReg(regs, id)
	}
	for key, regs := range r.byEvent {
		r.byEvent[key] = removeReg(regs, id)
	}
	for i, reg := range r.interceptors {
		if reg.id == id {
			r.interceptors = append(r.interceptors[:i:i], r.interceptors[i+1:]...)
			break
		}
	}
}

func removeReg(regs []handlerReg, id string) []handlerReg {
	for i, reg := range regs {
		if reg.id == id {
			return append(regs[:i:i], regs[i+1:]...)
		}
	}
	return regs
}

// handlersFor snapshots the handlers for a key in dispatch order.
func (r *Registry) handlersFor(table map[string][]handlerReg, key string) []handlerReg {
	r.mu.RLock()
	regs := table[key]
	out := make([]handlerReg, len(regs))
	copy(out, regs)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].priority != out[j].priority {
			return out[i].priority > out[j].priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// typeHandlers returns handlers registered for an action type.
func (r *Registry) typeHandlers(actionType string) []handlerReg {
	return r.handlersFor(r.byType, actionType)
}

// eventHandlers returns handlers registered for a callback event name.
func (r *Registry) eventHandlers(event string) []handlerReg {
	return r.handlersFor(r.byEvent, event)
}

// interceptorChain snapshots the interceptor chain in dispatch order.
func (r *Registry) interceptorChain() []interceptorReg {
	r.mu.RLock()
	out := make([]interceptorReg, len(r.interceptors))
	copy(out, r.interceptors)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].priority != out[j].priority {
			return out[i].priority > out[j].priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}
