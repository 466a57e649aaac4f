package bedrockai

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockType discriminates the variants of a ContentBlock.
type BlockType string

const (
	BlockTypeText       BlockType = "text"
	BlockTypeToolUse    BlockType = "tool_use"
	BlockTypeToolResult BlockType = "tool_result"
	BlockTypeReasoning  BlockType = "reasoning"
)

// ContentBlock is one typed unit of message content. It is a tagged union:
// Type selects the variant and only that variant's fields are populated.
// Blocks round-trip through JSON unchanged, which is what makes a prior
// conversation restorable as the exact input for a new run.
type ContentBlock struct {
	Type BlockType `json:"type"`

	// Text content. Only used when Type is BlockTypeText.
	Text string `json:"text,omitempty"`

	// Tool use fields. Only used when Type is BlockTypeToolUse.
	// ID is assigned by the model and correlates the eventual result.
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// Tool result fields. Only used when Type is BlockTypeToolResult.
	ToolUseID string          `json:"toolUseId,omitempty"`
	Content   []ResultContent `json:"content,omitempty"`
	Status    ResultStatus    `json:"status,omitempty"`

	// Reasoning fields. Only used when Type is BlockTypeReasoning.
	// Signature is an opaque token some models attach for later verification.
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// NewTextBlock creates a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockTypeText, Text: text}
}

// NewToolUseBlock creates a tool use content block from a dispatch request.
func NewToolUseBlock(tu ToolUse) ContentBlock {
	return ContentBlock{Type: BlockTypeToolUse, ID: tu.ID, Name: tu.Name, Input: tu.Input}
}

// NewToolResultBlock creates a tool result content block.
func NewToolResultBlock(tr ToolResult) ContentBlock {
	return ContentBlock{Type: BlockTypeToolResult, ToolUseID: tr.ToolUseID, Content: tr.Content, Status: tr.Status}
}

// NewReasoningBlock creates a reasoning content block.
func NewReasoningBlock(r Reasoning) ContentBlock {
	return ContentBlock{Type: BlockTypeReasoning, Thinking: r.Thinking, Signature: r.Signature}
}

// AsToolUse extracts the tool use request from a BlockTypeToolUse block.
func (b ContentBlock) AsToolUse() ToolUse {
	return ToolUse{ID: b.ID, Name: b.Name, Input: b.Input}
}

// Message represents a single turn in a conversation: a role plus an ordered
// sequence of content blocks. Block order is significant and preserved verbatim.
type Message struct {
	// MessageID is an optional unique identifier for the message.
	MessageID string         `json:"messageId,omitempty"`
	Role      Role           `json:"role"`
	Blocks    []ContentBlock `json:"blocks"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// NewUserMessage creates a user turn from plain text.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Blocks: []ContentBlock{NewTextBlock(text)}}
}

// NewToolResultMessage creates the user turn that carries tool results back to
// the model, one block per executed request, in request order.
func NewToolResultMessage(results ...ToolResult) Message {
	blocks := make([]ContentBlock, 0, len(results))
	for _, tr := range results {
		blocks = append(blocks, NewToolResultBlock(tr))
	}
	return Message{Role: RoleUser, Blocks: blocks}
}

// Reasoning is a completed chain-of-thought block produced during streaming.
type Reasoning struct {
	Thinking  string `json:"thinking"`
	Signature string `json:"signature,omitempty"`
}

// Usage tracks token consumption for a request or an accumulated run.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Add folds an incremental usage delta into the receiver.
func (u *Usage) Add(delta Usage) {
	u.InputTokens += delta.InputTokens
	u.OutputTokens += delta.OutputTokens
}

// TotalTokens returns input plus output tokens.
func (u Usage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// Stop reasons reported by the model at the end of a streaming pass.
const (
	StopReasonEndTurn      = "end_turn"
	StopReasonToolUse      = "tool_use"
	StopReasonMaxTokens    = "max_tokens"
	StopReasonStopSequence = "stop_sequence"
)
