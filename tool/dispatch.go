package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	ai "github.com/xpand-io/bedrockai"
)

// DefaultTimeout bounds each tool call unless overridden.
const DefaultTimeout = 30 * time.Second

// Dispatcher executes batches of tool use requests against a Registry.
//
// It always returns exactly one result per request, in request order,
// correlated by the model-assigned call ID. Failures are isolated per call:
// an unknown tool, malformed argument JSON, handler error, panic, or timeout
// becomes an error-status result and never disturbs sibling calls.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
	serial   bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTimeout sets the per-call execution timeout.
func WithTimeout(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.timeout = d
	}
}

// WithSerial forces sequential execution even for multi-call batches.
func WithSerial() DispatcherOption {
	return func(dp *Dispatcher) {
		dp.serial = true
	}
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes the given tool use requests and returns their results in
// request order. A single request runs inline; two or more run concurrently,
// one goroutine per call, each joined under its own deadline. A call that has
// not completed by its deadline is abandoned: its context is cancelled, a
// timeout error result takes its place, and the handler goroutine is left to
// notice the cancellation on its own.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []ai.ToolUse) []ai.ToolResult {
	switch {
	case len(calls) == 0:
		return nil
	case len(calls) == 1 || d.serial:
		results := make([]ai.ToolResult, len(calls))
		for i, call := range calls {
			results[i] = d.executeBounded(ctx, call)
		}
		return results
	default:
		results := make([]ai.ToolResult, len(calls))
		var wg sync.WaitGroup
		for i, call := range calls {
			wg.Add(1)
			go func(idx int, call ai.ToolUse) {
				defer wg.Done()
				results[idx] = d.executeBounded(ctx, call)
			}(i, call)
		}
		wg.Wait()
		return results
	}
}

// executeBounded runs one call under the per-call timeout. The inner
// goroutine owns the actual handler invocation so a hung handler cannot
// block the join.
func (d *Dispatcher) executeBounded(ctx context.Context, call ai.ToolUse) ai.ToolResult {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan ai.ToolResult, 1)
	go func() {
		done <- d.execute(callCtx, call)
	}()

	select {
	case result := <-done:
		return result
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return ai.NewErrorResult(call.ID, fmt.Sprintf("tool '%s' timed out after %s", call.Name, d.timeout))
		}
		return ai.NewErrorResult(call.ID, fmt.Sprintf("tool '%s' cancelled: %v", call.Name, callCtx.Err()))
	}
}

// execute resolves one call to a result. It never returns a failed call as
// anything other than an error-status result.
func (d *Dispatcher) execute(ctx context.Context, call ai.ToolUse) (result ai.ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ai.NewErrorResult(call.ID, fmt.Sprintf("tool '%s' panicked: %v", call.Name, r))
		}
	}()

	if parseErr, ok := call.MalformedInput(); ok {
		return ai.NewErrorResult(call.ID, fmt.Sprintf("malformed tool input JSON for tool '%s': %s", call.Name, parseErr))
	}

	handler, lookupErr := d.registry.Handler(call.Name)
	if lookupErr != nil {
		var notFound *ErrToolNotFound
		if errors.As(lookupErr, &notFound) {
			return ai.NewErrorResult(call.ID, fmt.Sprintf("Unknown tool '%s'", notFound.Name))
		}
		return ai.NewErrorResult(call.ID, lookupErr.Error())
	}

	value, err := handler(ctx, call)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ai.NewErrorResult(call.ID, fmt.Sprintf("tool '%s' timed out after %s", call.Name, d.timeout))
		}
		return ai.NewErrorResult(call.ID, err.Error())
	}

	return ai.ToolResult{
		ToolUseID: call.ID,
		Content:   []ai.ResultContent{normalize(value)},
		Status:    ai.ResultStatusSuccess,
	}
}

// normalize maps a handler return value to wire-safe result content. Maps
// become a single JSON entry; sequences become a single JSON entry wrapping
// the elements under an "items" key (so a list and a map stay distinguishable
// after serialization); strings become a text entry; everything else becomes
// its string rendering. Non-primitive values pass through a JSON
// marshal/unmarshal round trip first so custom types reduce to plain maps,
// slices and primitives.
func normalize(value any) ai.ResultContent {
	switch v := value.(type) {
	case nil:
		return ai.NewTextResult("")
	case string:
		return ai.NewTextResult(v)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return ai.NewTextResult(fmt.Sprint(value))
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return ai.NewTextResult(fmt.Sprint(value))
	}

	switch pv := plain.(type) {
	case map[string]any:
		return ai.NewJSONResult(pv)
	case []any:
		return ai.NewJSONResult(map[string]any{"items": pv})
	case string:
		return ai.NewTextResult(pv)
	default:
		return ai.NewTextResult(fmt.Sprint(value))
	}
}
