package bedrockai

import "encoding/json"

// Options contains configuration for one model request. The orchestration
// loop treats everything here as opaque pass-through data for the stream
// source; it only uses Tools for loop control.
type Options struct {
	Model          string
	MaxTokens      int
	Temperature    *float64
	System         string
	Tools          []Tool
	ThinkingBudget int
	ResponseSchema json.RawMessage
}

// Option is a functional option for configuring model requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 1.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithSystem sets the system prompt.
func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

// WithTools sets the tool definitions offered to the model.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithThinking enables extended reasoning with the given token budget.
func WithThinking(budgetTokens int) Option {
	return func(o *Options) {
		o.ThinkingBudget = budgetTokens
	}
}

// WithResponseSchema requests structured output conforming to the given
// JSON Schema.
func WithResponseSchema(schema json.RawMessage) Option {
	return func(o *Options) {
		o.ResponseSchema = schema
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the options for caller mistakes. It returns a ConfigError
// and is called before any network interaction.
func (o *Options) Validate() error {
	if o.Temperature != nil && (*o.Temperature < 0 || *o.Temperature > 1) {
		return NewConfigError("temperature %v out of range [0, 1]", *o.Temperature)
	}
	if o.MaxTokens < 0 {
		return NewConfigError("max tokens must be non-negative, got %d", o.MaxTokens)
	}
	if o.ThinkingBudget < 0 {
		return NewConfigError("thinking budget must be non-negative, got %d", o.ThinkingBudget)
	}
	seen := make(map[string]bool, len(o.Tools))
	for _, t := range o.Tools {
		if t.Name == "" {
			return NewConfigError("tool with empty name")
		}
		if seen[t.Name] {
			return NewConfigError("duplicate tool name %q", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}
