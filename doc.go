// Package bedrockai provides a conversational-agent orchestration layer for
// Claude models, served directly or through AWS Bedrock.
//
// The root package holds the shared data model: conversation messages built
// from typed content blocks (text, tool use, tool results, reasoning), request
// options, tool definitions, and the error taxonomy. Behavior lives in the
// subpackages:
//
//   - [github.com/xpand-io/bedrockai/stream]: typed protocol events and the
//     accumulator that folds a streaming response into structured content.
//   - [github.com/xpand-io/bedrockai/tool]: tool registry and the dispatcher
//     that executes model-requested tool calls with failure isolation.
//   - [github.com/xpand-io/bedrockai/agent]: the orchestration loop that
//     resolves tool calls automatically until the model produces an answer.
//   - [github.com/xpand-io/bedrockai/provider/anthropic] and
//     [github.com/xpand-io/bedrockai/provider/bedrock]: concrete stream
//     sources over the official Anthropic Go SDK.
//
// # Basic Usage
//
//	source := bedrock.New(ctx)
//	registry := tool.NewRegistry()
//	tool.MustBindTo(registry, "weather", "Get current weather for a city",
//	    func(ctx context.Context, args WeatherArgs) (any, error) {
//	        return lookupWeather(args.City)
//	    })
//
//	a := agent.New(source, registry)
//	result, err := a.Query(ctx, "What's the weather in Oslo?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Text)
//
// Conversations can be resumed by feeding a prior [agent.Result].Messages back
// via [agent.WithHistory]; the message slice is plain JSON-serializable data.
package bedrockai
