package stream

import ai "github.com/xpand-io/bedrockai"

// ChunkKind identifies the kind of a progress notification.
type ChunkKind string

const (
	// ChunkMessageStart fires when a streaming response opens.
	ChunkMessageStart ChunkKind = "message_start"

	// ChunkText fires for each assistant text fragment.
	ChunkText ChunkKind = "text"

	// ChunkToolUseStart fires when the model opens a tool use block.
	ChunkToolUseStart ChunkKind = "tool_use_start"

	// ChunkToolUseDelta fires for each raw tool argument fragment.
	ChunkToolUseDelta ChunkKind = "tool_use_delta"

	// ChunkToolUseEnd fires when a tool use block completes.
	ChunkToolUseEnd ChunkKind = "tool_use_end"

	// ChunkReasoning fires for each reasoning text fragment.
	ChunkReasoning ChunkKind = "reasoning"

	// ChunkReasoningSignature fires when a reasoning signature arrives.
	ChunkReasoningSignature ChunkKind = "reasoning_signature"

	// ChunkContentBlockStop fires when a non-tool block closes.
	ChunkContentBlockStop ChunkKind = "content_block_stop"

	// ChunkMessageStop fires when the response terminates.
	ChunkMessageStop ChunkKind = "message_stop"

	// ChunkMetadata fires for each usage update.
	ChunkMetadata ChunkKind = "metadata"
)

// Chunk is one normalized progress notification, delivered synchronously and
// in event order. Used for real-time display of a response as it streams.
type Chunk struct {
	Kind ChunkKind

	// Text carries the fragment for ChunkText, ChunkToolUseDelta,
	// ChunkReasoning and ChunkReasoningSignature.
	Text string

	// ToolUseID and ToolName are set on tool use chunks.
	ToolUseID string
	ToolName  string

	// StopReason is set on ChunkMessageStop.
	StopReason string

	// UsageDelta and UsageTotal are set on ChunkMetadata: the increment
	// carried by the event and the running total after applying it.
	UsageDelta ai.Usage
	UsageTotal ai.Usage
}

// ChunkHandler receives progress notifications. A nil handler is legal and
// disables notification delivery.
type ChunkHandler func(Chunk)
