// Package bedrock provides a stream.Source for Claude models served through
// AWS Bedrock. Authentication uses the standard AWS credential chain (or an
// explicit aws.Config); everything past the transport is shared with the
// direct-API anthropic provider.
package bedrock

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/aws/aws-sdk-go-v2/aws"
	provider "github.com/xpand-io/bedrockai/internal/provider/anthropic"
	"github.com/xpand-io/bedrockai/stream"
)

// DefaultModel is used when the request options name no model.
const DefaultModel = "anthropic.claude-sonnet-4-5-20250929-v1:0"

// Source implements stream.Source over the Bedrock runtime.
type Source struct {
	client *sdk.Client
	model  string
}

// New creates a Source using the default AWS credential chain (environment,
// shared config files, instance metadata).
func New(ctx context.Context, opts ...SourceOption) *Source {
	s := &Source{model: DefaultModel}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		client := sdk.NewClient(bedrock.WithLoadDefaultConfig(ctx))
		s.client = &client
	}
	return s
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithConfig uses an explicit AWS configuration instead of the default chain.
func WithConfig(cfg aws.Config) SourceOption {
	return func(s *Source) {
		client := sdk.NewClient(bedrock.WithConfig(cfg))
		s.client = &client
	}
}

// WithModel sets the default Bedrock model ID for requests.
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
