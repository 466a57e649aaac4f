// Package stream defines the typed protocol events of a streaming model
// response and the accumulator that folds one event sequence into structured
// message content: text, completed tool use requests, reasoning blocks, the
// stop reason, and token usage.
//
// Events are produced by a [Source] implementation (see the provider
// packages) and consumed strictly in arrival order by one [Accumulator] per
// request. The accumulator reports progress synchronously to an optional
// [ChunkHandler].
package stream

import (
	"context"

	ai "github.com/xpand-io/bedrockai"
)

// EventType identifies the kind of protocol event.
type EventType string

const (
	// EventMessageStart opens a streaming response.
	EventMessageStart EventType = "message_start"

	// EventContentBlockStart opens one content block.
	EventContentBlockStart EventType = "content_block_start"

	// EventContentBlockDelta carries an incremental piece of the open block.
	EventContentBlockDelta EventType = "content_block_delta"

	// EventContentBlockStop closes the open content block.
	EventContentBlockStop EventType = "content_block_stop"

	// EventMessageStop terminates the response with a stop reason.
	EventMessageStop EventType = "message_stop"

	// EventMetadata carries an incremental token usage delta.
	EventMetadata EventType = "metadata"
)

// BlockKind identifies what kind of content block an EventContentBlockStart
// opens.
type BlockKind string

const (
	BlockText      BlockKind = "text"
	BlockToolUse   BlockKind = "tool_use"
	BlockReasoning BlockKind = "reasoning"
)

// DeltaKind identifies the payload variant of an EventContentBlockDelta.
type DeltaKind string

const (
	// DeltaText is a fragment of assistant text.
	DeltaText DeltaKind = "text"

	// DeltaToolInput is a fragment of raw tool argument JSON. Fragments are
	// not individually valid JSON; they must be concatenated before parsing.
	DeltaToolInput DeltaKind = "tool_input"

	// DeltaReasoningText is a fragment of reasoning text.
	DeltaReasoningText DeltaKind = "reasoning_text"

	// DeltaReasoningSignature carries the opaque signature of a reasoning block.
	DeltaReasoningSignature DeltaKind = "reasoning_signature"
)

// Event is one typed protocol event. Type selects which fields are populated.
// A non-nil Err is terminal for the stream; sources must deliver transport
// failures as categorized errors rather than malformed events.
type Event struct {
	Type EventType

	// BlockKind, ToolUseID and ToolName are set on EventContentBlockStart.
	// The ID is assigned by the model and is echoed on the eventual result.
	BlockKind BlockKind
	ToolUseID string
	ToolName  string

	// Delta and Text are set on EventContentBlockDelta; Text carries the
	// fragment (text, raw JSON, reasoning text, or signature per Delta).
	Delta DeltaKind
	Text  string

	// StopReason is set on EventMessageStop.
	StopReason string

	// Usage is set on EventMetadata and carries an incremental delta,
	// not a running total.
	Usage ai.Usage

	// Err carries a transport or protocol failure. Terminal.
	Err error
}

// Request bundles everything a Source needs to open one streaming pass:
// the ordered prior turns and the opaque request configuration.
type Request struct {
	Messages []ai.Message
	Options  ai.Options
}

// Source opens streaming model requests. Implementations demultiplex the
// transport into discrete typed events and close the channel when the
// response ends or after delivering an Err event.
type Source interface {
	Open(ctx context.Context, req Request) (<-chan Event, error)
}
