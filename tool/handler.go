package tool

import (
	"context"

	ai "github.com/xpand-io/bedrockai"
)

// Handler is a function that executes a tool call. The context carries the
// per-call deadline and cancellation. The returned value may be a string, a
// map, a slice, or any JSON-serializable value; the dispatcher normalizes it
// into result content. Returning an error produces an error-status result.
type Handler func(ctx context.Context, call ai.ToolUse) (any, error)

// TypedHandler is a handler with typed arguments, unmarshaled automatically
// from the tool call's JSON input. See Bind.
type TypedHandler[T any] func(ctx context.Context, args T) (any, error)
