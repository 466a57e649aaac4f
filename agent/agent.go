package agent

import (
	"context"
	"strings"

	ai "github.com/xpand-io/bedrockai"
	"github.com/xpand-io/bedrockai/internal/store"
	"github.com/xpand-io/bedrockai/stream"
	"github.com/xpand-io/bedrockai/tool"
)

// MaxIterations caps the number of streaming passes in one Query. Exceeding
// it fails the run with ai.IterationLimitError.
const MaxIterations = 20

// Agent orchestrates autonomous tool-calling conversations over a stream
// source and a tool registry.
type Agent struct {
	source   stream.Source
	registry *tool.Registry
}

// New creates an Agent. The registry may be empty for tool-less use.
func New(source stream.Source, registry *tool.Registry) *Agent {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &Agent{source: source, registry: registry}
}

// Result is the outcome of one completed Query run. It is a snapshot: the
// agent does not retain or mutate it after returning.
type Result struct {
	// Text is the final answer: the last pass's accumulated text only.
	// It may legitimately be empty; that is not a failure.
	Text string `json:"text"`

	// Messages is the full ordered conversation, including turns added by
	// tool-use rounds. Feed it back via WithHistory to resume.
	Messages []ai.Message `json:"messages"`

	// Usage is the token usage accumulated across all passes.
	Usage ai.Usage `json:"usage"`
}

// TotalTokens returns input plus output tokens across the whole run.
func (r *Result) TotalTokens() int {
	return r.Usage.TotalTokens()
}

// Query runs the orchestration loop for one prompt and blocks until the
// model produces a final answer, an error occurs, or the iteration cap is
// hit.
//
// Stream and transport failures propagate as-is and are never retried here;
// tool execution failures never surface as errors, they are returned to the
// model as error-status results so it can react.
func (a *Agent) Query(ctx context.Context, prompt string, opts ...Option) (*Result, error) {
	options := ApplyOptions(opts...)

	if strings.TrimSpace(prompt) == "" {
		return nil, ai.NewConfigError("prompt must not be empty")
	}

	reqOpts := ai.ApplyOptions(append(
		[]ai.Option{ai.WithTools(a.registry.Tools())},
		options.RequestOptions...,
	)...)
	if err := reqOpts.Validate(); err != nil {
		return nil, err
	}

	var dispatchOpts []tool.DispatcherOption
	if options.ToolTimeout > 0 {
		dispatchOpts = append(dispatchOpts, tool.WithTimeout(options.ToolTimeout))
	}
	if options.SerialTools {
		dispatchOpts = append(dispatchOpts, tool.WithSerial())
	}
	dispatcher := tool.NewDispatcher(a.registry, dispatchOpts...)

	logger := options.Logger
	history := store.NewMessageStoreFrom(options.History)
	history.Append(ai.NewUserMessage(prompt))

	result := &Result{}

	for iteration := 1; ; iteration++ {
		if iteration > MaxIterations {
			return nil, &ai.IterationLimitError{Limit: MaxIterations}
		}

		logger.Debug("starting pass", "iteration", iteration, "messages", history.Len())

		events, err := a.source.Open(ctx, stream.Request{
			Messages: history.Messages(),
			Options:  *reqOpts,
		})
		if err != nil {
			return nil, err
		}

		acc := stream.NewAccumulator(options.Observer)
		if err := acc.Consume(events); err != nil {
			return nil, err
		}

		result.Usage.Add(acc.Usage())

		toolUses := acc.ToolUses()
		if acc.StopReason() == ai.StopReasonToolUse && len(toolUses) > 0 {
			history.Append(assistantTurn(acc, toolUses))

			logger.Debug("dispatching tool calls", "iteration", iteration, "count", len(toolUses))
			results := dispatcher.Dispatch(ctx, toolUses)
			history.Append(ai.NewToolResultMessage(results...))
			continue
		}

		// Terminal pass. Only the last pass's text is reported; interim
		// narration from tool-use rounds never leaks into the answer.
		result.Text = acc.Text()
		if acc.Text() != "" || len(acc.ReasoningBlocks()) > 0 {
			history.Append(assistantTurn(acc, nil))
		}
		logger.Debug("run complete", "iterations", iteration, "stopReason", acc.StopReason())
		break
	}

	result.Messages = history.Messages()
	return result, nil
}

// assistantTurn assembles the assistant message for one pass: completed
// reasoning blocks first, then text if non-empty, then any tool use blocks.
// Callers must not record a turn that would be entirely empty.
func assistantTurn(acc *stream.Accumulator, toolUses []ai.ToolUse) ai.Message {
	var blocks []ai.ContentBlock
	for _, r := range acc.ReasoningBlocks() {
		blocks = append(blocks, ai.NewReasoningBlock(r))
	}
	if text := acc.Text(); text != "" {
		blocks = append(blocks, ai.NewTextBlock(text))
	}
	for _, tu := range toolUses {
		blocks = append(blocks, ai.NewToolUseBlock(tu))
	}
	return ai.Message{Role: ai.RoleAssistant, Blocks: blocks}
}
