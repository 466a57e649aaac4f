package bedrockai

import "encoding/json"

// Tool defines a capability the model can request by name.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does (helps the model decide when to use it).
	Description string
	// InputSchema is a JSON Schema object defining the tool parameters.
	InputSchema json.RawMessage
}

// ToolUse represents a request from the model to invoke a tool.
type ToolUse struct {
	// ID is assigned by the model and must be echoed on the matching result.
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Input carries the parsed JSON arguments, or the malformed-input
	// sentinel produced by the stream accumulator when the streamed argument
	// fragments did not concatenate into valid JSON.
	Input json.RawMessage `json:"input"`
}

// Malformed-input sentinel keys. When the accumulated tool arguments fail to
// parse, Input is set to an object carrying the raw buffer and the parser
// error under these keys; the dispatcher converts it to an error result
// instead of invoking the tool.
const (
	SentinelRawKey        = "_raw"
	SentinelParseErrorKey = "_parse_error"
)

// MalformedInput reports whether the tool use carries the malformed-input
// sentinel, returning the original parser error message when it does.
func (tu ToolUse) MalformedInput() (string, bool) {
	var sentinel map[string]json.RawMessage
	if err := json.Unmarshal(tu.Input, &sentinel); err != nil {
		return "", false
	}
	_, hasRaw := sentinel[SentinelRawKey]
	perr, hasErr := sentinel[SentinelParseErrorKey]
	if !hasRaw || !hasErr {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(perr, &msg); err != nil {
		return "", false
	}
	return msg, true
}

// ResultStatus tags a tool result as succeeded or failed.
type ResultStatus string

const (
	ResultStatusSuccess ResultStatus = "success"
	ResultStatusError   ResultStatus = "error"
)

// ResultContent is one entry of tool result content; exactly one of Text or
// JSON is set.
type ResultContent struct {
	Text string `json:"text,omitempty"`
	JSON any    `json:"json,omitempty"`
}

// NewTextResult creates a text result content entry.
func NewTextResult(text string) ResultContent {
	return ResultContent{Text: text}
}

// NewJSONResult creates a JSON result content entry.
func NewJSONResult(v any) ResultContent {
	return ResultContent{JSON: v}
}

// ToolResult represents the outcome of executing one tool use request.
type ToolResult struct {
	// ToolUseID matches the ID from the corresponding ToolUse.
	ToolUseID string `json:"toolUseId"`
	// Content is the result content to return to the model.
	Content []ResultContent `json:"content"`
	// Status indicates whether execution succeeded.
	Status ResultStatus `json:"status"`
}

// NewErrorResult creates an error-status result with a single text entry.
func NewErrorResult(toolUseID, message string) ToolResult {
	return ToolResult{
		ToolUseID: toolUseID,
		Content:   []ResultContent{NewTextResult(message)},
		Status:    ResultStatusError,
	}
}
