// Package tool provides the tool registry and the dispatcher that executes
// model-requested tool calls.
//
// A tool is a named capability: a [bedrockai.Tool] definition (name,
// description, JSON Schema for its parameters) paired with a [Handler]. Any
// function with the handler signature is a valid tool; there is no base type
// to embed. Register handlers on a [Registry] and hand the registry to the
// agent, or dispatch batches directly through a [Dispatcher].
//
// # Typed handlers
//
// [Bind] derives the parameter schema from a struct type and unmarshals
// arguments automatically:
//
//	type SearchArgs struct {
//	    Query string `json:"query" desc:"Search query" required:"true"`
//	    Limit int    `json:"limit" desc:"Max results"`
//	}
//
//	tool.MustBindTo(registry, "search", "Search the catalog",
//	    func(ctx context.Context, args SearchArgs) (any, error) {
//	        return runSearch(ctx, args.Query, args.Limit)
//	    })
//
// # Execution semantics
//
// The dispatcher produces exactly one result per request, in request order,
// correlated by the model-assigned call ID. A handler failure, panic, unknown
// tool name, malformed argument JSON, or per-call timeout becomes an
// error-status result; it never propagates as an error and never disturbs
// sibling calls in the same batch.
package tool
