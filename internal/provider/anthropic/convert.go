// Package anthropic holds the shared conversion layer between the bedrockai
// data model and the official Anthropic Go SDK. The public provider packages
// (direct API and AWS Bedrock) differ only in how the SDK client is
// constructed; request building and stream demultiplexing live here.
package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/xpand-io/bedrockai"
	"github.com/xpand-io/bedrockai/stream"
)

// structuredResponseToolName is the synthetic tool used to force structured
// JSON output. Its streamed input is surfaced to the accumulator as plain
// text, so callers receive the JSON document as the answer.
const structuredResponseToolName = "__structured_response__"

// BuildParams converts a stream request into SDK message params.
func BuildParams(req stream.Request) anthropic.MessageNewParams {
	opts := req.Options

	maxTokens := int64(4096)
	if opts.MaxTokens > 0 {
		maxTokens = int64(opts.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(opts.Model),
		MaxTokens: maxTokens,
		Messages:  convertMessages(req.Messages),
	}
	if opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.System}}
	}
	if opts.Temperature != nil {
		params.Temperature = anthropic.Float(*opts.Temperature)
	}
	if opts.ThinkingBudget > 0 {
		params.Thinking = anthropic.ThinkingConfigParamUnion{
			OfEnabled: &anthropic.ThinkingConfigEnabledParam{
				BudgetTokens: int64(opts.ThinkingBudget),
			},
		}
	}

	params.Tools = convertTools(opts.Tools)
	if len(opts.ResponseSchema) > 0 {
		jsonTool, choice := structuredResponseTool(opts.ResponseSchema)
		params.Tools = append(params.Tools, jsonTool)
		params.ToolChoice = choice
	}

	return params
}

func convertMessages(messages []ai.Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		blocks := convertBlocks(msg.Blocks)
		// The API rejects turns with no content.
		if len(blocks) == 0 {
			continue
		}
		role := anthropic.MessageParamRoleUser
		if msg.Role == ai.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		result = append(result, anthropic.MessageParam{Role: role, Content: blocks})
	}
	return result
}

func convertBlocks(blocks []ai.ContentBlock) []anthropic.ContentBlockParamUnion {
	var out []anthropic.ContentBlockParamUnion
	for _, b := range blocks {
		switch b.Type {
		case ai.BlockTypeText:
			if b.Text != "" {
				out = append(out, anthropic.NewTextBlock(b.Text))
			}
		case ai.BlockTypeToolUse:
			var input any
			if len(b.Input) > 0 {
				json.Unmarshal(b.Input, &input)
			}
			out = append(out, anthropic.NewToolUseBlock(b.ID, input, b.Name))
		case ai.BlockTypeToolResult:
			out = append(out, anthropic.NewToolResultBlock(
				b.ToolUseID,
				renderResultContent(b.Content),
				b.Status == ai.ResultStatusError,
			))
		case ai.BlockTypeReasoning:
			out = append(out, anthropic.NewThinkingBlock(b.Signature, b.Thinking))
		}
	}
	return out
}

// renderResultContent flattens result content entries to the string form the
// tool_result wire type carries.
func renderResultContent(entries []ai.ResultContent) string {
	var parts []string
	for _, e := range entries {
		if e.JSON != nil {
			if data, err := json.Marshal(e.JSON); err == nil {
				parts = append(parts, string(data))
				continue
			}
		}
		parts = append(parts, e.Text)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		joined := parts[0]
		for _, p := range parts[1:] {
			joined += "\n" + p
		}
		return joined
	}
}

func convertTools(tools []ai.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		result[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: inputSchemaParam(t.InputSchema),
			},
		}
	}
	return result
}

func inputSchemaParam(raw json.RawMessage) anthropic.ToolInputSchemaParam {
	var schema map[string]any
	if len(raw) > 0 {
		json.Unmarshal(raw, &schema)
	}
	var required []string
	if reqVal, ok := schema["required"].([]any); ok {
		for _, r := range reqVal {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}
	return anthropic.ToolInputSchemaParam{
		Properties: schema["properties"],
		Required:   required,
	}
}

func structuredResponseTool(schema json.RawMessage) (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam) {
	jsonTool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        structuredResponseToolName,
			Description: anthropic.String("Return the final response as structured JSON matching the schema."),
			InputSchema: inputSchemaParam(schema),
		},
	}
	choice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: structuredResponseToolName},
	}
	return jsonTool, choice
}
