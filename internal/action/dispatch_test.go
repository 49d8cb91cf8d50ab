package action

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/value"
)

func makeAction(actionType string, pairs ...string) *schema.Action {
	data := value.NewMap()
	for i := 0; i < len(pairs); i += 2 {
		data.Set(pairs[i], value.String(pairs[i+1]))
	}
	return &schema.Action{Type: actionType, Data: data}
}

func recordingHandler(log *[]string, name string) Handler {
	return HandlerFunc(func(_ context.Context, _ *schema.Action) error {
		*log = append(*log, name)
		return nil
	})
}

func TestDispatch_PriorityOrder(t *testing.T) {
	reg := NewRegistry()
	var calls []string
	reg.RegisterHandler("navigate", 1, recordingHandler(&calls, "low"))
	reg.RegisterHandler("navigate", 10, recordingHandler(&calls, "high"))
	reg.RegisterHandler("navigate", 10, recordingHandler(&calls, "high-second"))

	res := NewDispatcher(reg).Dispatch(context.Background(), makeAction("navigate", "screen", "home"))

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 3, res.HandlersRun)
	// Higher priority first; ties keep registration order.
	assert.Equal(t, []string{"high", "high-second", "low"}, calls)
}

func TestDispatch_NoHandler(t *testing.T) {
	d := NewDispatcher(NewRegistry())
	res := d.Dispatch(context.Background(), makeAction("navigate", "screen", "home"))
	assert.Equal(t, StatusNoHandler, res.Status)
	assert.Zero(t, res.HandlersRun)
}

func TestDispatch_ValidationFailure(t *testing.T) {
	reg := NewRegistry()
	called := false
	reg.RegisterHandler("navigate", 0, HandlerFunc(func(context.Context, *schema.Action) error {
		called = true
		return nil
	}))

	res := NewDispatcher(reg).Dispatch(context.Background(), makeAction("navigate"))

	assert.Equal(t, StatusError, res.Status)
	assert.Error(t, res.Err)
	assert.False(t, called, "handlers must not run for invalid actions")
}

func TestDispatch_CallbackFanOutByEvent(t *testing.T) {
	reg := NewRegistry()
	var calls []string
	reg.RegisterEventHandler("refresh", 0, recordingHandler(&calls, "refresh-1"))
	reg.RegisterEventHandler("refresh", 0, recordingHandler(&calls, "refresh-2"))
	reg.RegisterEventHandler("other", 0, recordingHandler(&calls, "other"))
	// A handler registered under the literal type "callback" must not fire.
	reg.RegisterHandler("callback", 0, recordingHandler(&calls, "by-type"))

	res := NewDispatcher(reg).Dispatch(context.Background(), makeAction("callback", "event", "refresh"))

	assert.Equal(t, StatusSuccess, res.Status)
	assert.ElementsMatch(t, []string{"refresh-1", "refresh-2"}, calls)
}

func TestDispatch_HandlerErrorDoesNotStopSiblings(t *testing.T) {
	reg := NewRegistry()
	var calls []string
	boom := errors.New("boom")
	reg.RegisterEventHandler("x", 10, HandlerFunc(func(context.Context, *schema.Action) error {
		return boom
	}))
	reg.RegisterEventHandler("x", 1, recordingHandler(&calls, "survivor"))

	res := NewDispatcher(reg).Dispatch(context.Background(), makeAction("callback", "event", "x"))

	// One handler succeeded, so the dispatch counts as success.
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"survivor"}, calls)
}

func TestDispatch_AllHandlersFailReportsFirstError(t *testing.T) {
	reg := NewRegistry()
	first := errors.New("first")
	reg.RegisterHandler("custom", 10, HandlerFunc(func(context.Context, *schema.Action) error {
		return first
	}))
	reg.RegisterHandler("custom", 1, HandlerFunc(func(context.Context, *schema.Action) error {
		return errors.New("second")
	}))

	res := NewDispatcher(reg).Dispatch(context.Background(), makeAction("custom"))

	assert.Equal(t, StatusError, res.Status)
	assert.ErrorIs(t, res.Err, first)
	assert.Equal(t, 2, res.HandlersRun)
}

func TestDispatch_HandlerPanicIsCaptured(t *testing.T) {
	reg := NewRegistry()
	var calls []string
	reg.RegisterEventHandler("x", 10, HandlerFunc(func(context.Context, *schema.Action) error {
		panic("kaboom")
	}))
	reg.RegisterEventHandler("x", 1, recordingHandler(&calls, "survivor"))

	res := NewDispatcher(reg).Dispatch(context.Background(), makeAction("callback", "event", "x"))

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"survivor"}, calls)
}

func TestDispatch_InterceptorBlocks(t *testing.T) {
	reg := NewRegistry()
	called := false
	reg.RegisterHandler("navigate", 0, HandlerFunc(func(context.Context, *schema.Action) error {
		called = true
		return nil
	}))
	reg.RegisterInterceptor(0, InterceptorFunc(func(_ context.Context, a *schema.Action) (*schema.Action, bool) {
		return nil, false
	}))

	res := NewDispatcher(reg).Dispatch(context.Background(), makeAction("navigate", "screen", "home"))

	assert.Equal(t, StatusBlocked, res.Status)
	assert.False(t, called)
	assert.Zero(t, res.HandlersRun)
}

func TestDispatch_InterceptorTransforms(t *testing.T) {
	reg := NewRegistry()
	var seen *schema.Action
	reg.RegisterHandler("navigate", 0, HandlerFunc(func(_ context.Context, a *schema.Action) error {
		seen = a
		return nil
	}))
	reg.RegisterInterceptor(0, InterceptorFunc(func(_ context.Context, a *schema.Action) (*schema.Action, bool) {
		return makeAction("navigate", "screen", "login"), true
	}))

	res := NewDispatcher(reg).Dispatch(context.Background(), makeAction("navigate", "screen", "home"))

	assert.Equal(t, StatusSuccess, res.Status)
	require.NotNil(t, seen)
	assert.Equal(t, "login", seen.Field("screen"))
	assert.Equal(t, "login", res.Action.Field("screen"))
}

func TestDispatch_InterceptorOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string
	mark := func(name string) Interceptor {
		return InterceptorFunc(func(_ context.Context, a *schema.Action) (*schema.Action, bool) {
			order = append(order, name)
			return a, true
		})
	}
	reg.RegisterInterceptor(1, mark("low"))
	reg.RegisterInterceptor(5, mark("high"))
	reg.RegisterInterceptor(5, mark("high-second"))

	NewDispatcher(reg).Dispatch(context.Background(), makeAction("custom"))

	assert.Equal(t, []string{"high", "high-second", "low"}, order)
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	var calls []string
	id := reg.RegisterHandler("custom", 0, recordingHandler(&calls, "gone"))
	reg.RegisterHandler("custom", 0, recordingHandler(&calls, "kept"))
	reg.Unregister(id)

	NewDispatcher(reg).Dispatch(context.Background(), makeAction("custom"))

	assert.Equal(t, []string{"kept"}, calls)
}

func TestRegistry_ConcurrentRegistrationAndDispatch(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			id := reg.RegisterHandler("custom", n, HandlerFunc(func(context.Context, *schema.Action) error {
				return nil
			}))
			reg.Unregister(id)
		}(i)
		go func(n int) {
			defer wg.Done()
			reg.RegisterInterceptor(n, InterceptorFunc(func(_ context.Context, a *schema.Action) (*schema.Action, bool) {
				return a, true
			}))
			d.Dispatch(context.Background(), makeAction(fmt.Sprintf("custom-%d", n)))
		}(i)
	}
	wg.Wait()
}
