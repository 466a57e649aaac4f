package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ai "github.com/xpand-io/bedrockai"
	"github.com/xpand-io/bedrockai/stream"
)

// fakeSDKStream replays canned SDK events, ending with an optional error.
type fakeSDKStream struct {
	events []anthropic.MessageStreamEventUnion
	idx    int
	err    error
}

func (f *fakeSDKStream) Next() bool {
	if f.idx < len(f.events) {
		f.idx++
		return true
	}
	return false
}

func (f *fakeSDKStream) Current() anthropic.MessageStreamEventUnion {
	return f.events[f.idx-1]
}

func (f *fakeSDKStream) Err() error {
	return f.err
}

func parseSDKEvents(t *testing.T, raws ...string) []anthropic.MessageStreamEventUnion {
	t.Helper()
	events := make([]anthropic.MessageStreamEventUnion, len(raws))
	for i, raw := range raws {
		require.NoError(t, json.Unmarshal([]byte(raw), &events[i]))
	}
	return events
}

func runDemux(t *testing.T, s sdkStream) []stream.Event {
	t.Helper()
	ch := make(chan stream.Event)
	go func() {
		defer close(ch)
		demux(context.Background(), s, ch)
	}()
	var out []stream.Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func TestDemuxTextResponse(t *testing.T) {
	s := &fakeSDKStream{events: parseSDKEvents(t,
		`{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","usage":{"input_tokens":25,"output_tokens":1}}}`,
		`{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" there"}}`,
		`{"type":"content_block_stop","index":0}`,
		`{"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":12}}`,
		`{"type":"message_stop"}`,
	)}

	events := runDemux(t, s)

	acc := stream.NewAccumulator(nil)
	for _, ev := range events {
		require.NoError(t, acc.Feed(ev))
	}

	assert.Equal(t, "Hello there", acc.Text())
	assert.Equal(t, ai.StopReasonEndTurn, acc.StopReason())
	assert.True(t, acc.Done())
	assert.Equal(t, ai.Usage{InputTokens: 25, OutputTokens: 12}, acc.Usage())
}

func TestDemuxToolUse(t *testing.T) {
	s := &fakeSDKStream{events: parseSDKEvents(t,
		`{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","usage":{"input_tokens":40,"output_tokens":1}}}`,
		`{"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"toolu_1","name":"get_weather","input":{}}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"{\"city\""}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":": \"Oslo\"}"}}`,
		`{"type":"content_block_stop","index":0}`,
		`{"type":"message_delta","delta":{"stop_reason":"tool_use"},"usage":{"output_tokens":20}}`,
		`{"type":"message_stop"}`,
	)}

	acc := stream.NewAccumulator(nil)
	for _, ev := range runDemux(t, s) {
		require.NoError(t, acc.Feed(ev))
	}

	require.Len(t, acc.ToolUses(), 1)
	tu := acc.ToolUses()[0]
	assert.Equal(t, "toolu_1", tu.ID)
	assert.Equal(t, "get_weather", tu.Name)
	assert.JSONEq(t, `{"city": "Oslo"}`, string(tu.Input))
	assert.Equal(t, ai.StopReasonToolUse, acc.StopReason())
}

func TestDemuxThinking(t *testing.T) {
	s := &fakeSDKStream{events: parseSDKEvents(t,
		`{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","usage":{"input_tokens":10,"output_tokens":1}}}`,
		`{"type":"content_block_start","index":0,"content_block":{"type":"thinking","thinking":"","signature":""}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"The user wants weather."}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"signature_delta","signature":"sig-abc"}}`,
		`{"type":"content_block_stop","index":0}`,
		`{"type":"content_block_start","index":1,"content_block":{"type":"text","text":""}}`,
		`{"type":"content_block_delta","index":1,"delta":{"type":"text_delta","text":"Sunny."}}`,
		`{"type":"content_block_stop","index":1}`,
		`{"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":8}}`,
		`{"type":"message_stop"}`,
	)}

	acc := stream.NewAccumulator(nil)
	for _, ev := range runDemux(t, s) {
		require.NoError(t, acc.Feed(ev))
	}

	require.Len(t, acc.ReasoningBlocks(), 1)
	assert.Equal(t, "The user wants weather.", acc.ReasoningBlocks()[0].Thinking)
	assert.Equal(t, "sig-abc", acc.ReasoningBlocks()[0].Signature)
	assert.Equal(t, "Sunny.", acc.Text())
}

func TestDemuxOutputTokenDifferencing(t *testing.T) {
	s := &fakeSDKStream{events: parseSDKEvents(t,
		`{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","usage":{"input_tokens":5,"output_tokens":1}}}`,
		`{"type":"message_delta","delta":{},"usage":{"output_tokens":10}}`,
		`{"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":25}}`,
		`{"type":"message_stop"}`,
	)}

	var deltas []ai.Usage
	for _, ev := range runDemux(t, s) {
		if ev.Type == stream.EventMetadata {
			deltas = append(deltas, ev.Usage)
		}
	}

	// Running totals from the wire become increments downstream.
	require.Len(t, deltas, 3)
	assert.Equal(t, ai.Usage{InputTokens: 5}, deltas[0])
	assert.Equal(t, ai.Usage{OutputTokens: 10}, deltas[1])
	assert.Equal(t, ai.Usage{OutputTokens: 15}, deltas[2])
}

func TestDemuxStructuredResponseSurfacesAsText(t *testing.T) {
	s := &fakeSDKStream{events: parseSDKEvents(t,
		`{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","usage":{"input_tokens":5,"output_tokens":1}}}`,
		`{"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"toolu_1","name":"__structured_response__","input":{}}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"{\"answer\""}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":": 4}"}}`,
		`{"type":"content_block_stop","index":0}`,
		`{"type":"message_delta","delta":{"stop_reason":"tool_use"},"usage":{"output_tokens":6}}`,
		`{"type":"message_stop"}`,
	)}

	acc := stream.NewAccumulator(nil)
	for _, ev := range runDemux(t, s) {
		require.NoError(t, acc.Feed(ev))
	}

	// The forced JSON tool is invisible as a tool use; its input is the answer.
	assert.Empty(t, acc.ToolUses())
	assert.JSONEq(t, `{"answer": 4}`, acc.Text())
}

func TestDemuxTransportError(t *testing.T) {
	s := &fakeSDKStream{err: errors.New("connection reset by peer")}

	events := runDemux(t, s)

	require.Len(t, events, 1)
	require.Error(t, events[0].Err)
	assert.Equal(t, ai.ErrorStream, ai.CategoryOf(events[0].Err))
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		status int
		want   ai.ErrorCategory
	}{
		{429, ai.ErrorThrottling},
		{400, ai.ErrorValidation},
		{422, ai.ErrorValidation},
		{503, ai.ErrorServiceUnavailable},
		{529, ai.ErrorServiceUnavailable},
		{500, ai.ErrorInternalServer},
		{404, ai.ErrorStream},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, categorize(tt.status), "status %d", tt.status)
	}
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	cause := errors.New("dial tcp: timeout")
	wrapped := WrapError(cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, ai.ErrorStream, ai.CategoryOf(wrapped))
	assert.False(t, ai.IsRetryable(wrapped))
}
