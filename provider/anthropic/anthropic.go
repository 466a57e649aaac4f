// Package anthropic provides a stream.Source over the Anthropic API,
// authenticated with an API key.
//
// For access through AWS Bedrock use the sibling bedrock package; the two
// share all request and event conversion logic.
package anthropic

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	provider "github.com/xpand-io/bedrockai/internal/provider/anthropic"
	"github.com/xpand-io/bedrockai/stream"
)

// DefaultModel is used when the request options name no model.
const DefaultModel = "claude-sonnet-4-5"

// Source implements stream.Source over the Anthropic Messages API.
type Source struct {
	client *sdk.Client
	model  string
}

// New creates a Source. Without options the API key is read from the
// ANTHROPIC_API_KEY environment variable.
func New(opts ...SourceOption) *Source {
	s := &Source{model: DefaultModel}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		client := sdk.NewClient()
		s.client = &client
	}
	return s
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithAPIKey sets the API key explicitly instead of using the environment.
func WithAPIKey(key string) SourceOption {
	return func(s *Source) {
		client := sdk.NewClient(option.WithAPIKey(key))
		s.client = &client
	}
}

// WithModel sets the default model for requests.
func WithModel(model string) SourceOption {
	return func(s *Source) {
		s.model = model
	}
}

// Open starts one streaming request and returns its typed event channel.
func (s *Source) Open(ctx context.Context, req stream.Request) (<-chan stream.Event, error) {
	if req.Options.Model == "" {
		req.Options.Model = s.model
	}
	return provider.OpenStream(ctx, s.client, req)
}

var _ stream.Source = (*Source)(nil)
