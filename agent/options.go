package agent

import (
	"log/slog"
	"time"

	ai "github.com/xpand-io/bedrockai"
	"github.com/xpand-io/bedrockai/stream"
)

// Options configures one Query run.
type Options struct {
	// RequestOptions configures each model request (model, max tokens,
	// temperature, system prompt, thinking budget, response schema).
	RequestOptions []ai.Option

	// Observer receives one chunk per processed stream event. Optional.
	Observer stream.ChunkHandler

	// History seeds the conversation with prior turns, typically a previous
	// Result.Messages, before the new prompt is appended.
	History []ai.Message

	// Logger receives debug logging. Defaults to a discard logger.
	Logger *slog.Logger

	// ToolTimeout bounds each tool call. Defaults to tool.DefaultTimeout.
	ToolTimeout time.Duration

	// SerialTools forces sequential tool execution for multi-call batches.
	SerialTools bool
}

// Option is a functional option for configuring a Query run.
type Option func(*Options)

// WithRequestOptions sets the per-request model configuration.
func WithRequestOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.RequestOptions = append(o.RequestOptions, opts...)
	}
}

// WithObserver sets the progress callback invoked synchronously for each
// stream event, in event order.
func WithObserver(h stream.ChunkHandler) Option {
	return func(o *Options) {
		o.Observer = h
	}
}

// WithHistory seeds the run with prior conversation turns.
func WithHistory(messages []ai.Message) Option {
	return func(o *Options) {
		o.History = messages
	}
}

// WithLogger sets the logger for loop progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithToolTimeout sets the per-tool-call execution timeout.
func WithToolTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ToolTimeout = d
	}
}

// WithSerialTools forces sequential tool execution.
func WithSerialTools() Option {
	return func(o *Options) {
		o.SerialTools = true
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
