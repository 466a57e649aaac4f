package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/xpand-io/bedrockai"
	"github.com/xpand-io/bedrockai/stream"
)

// OpenStream starts an SDK streaming request and demultiplexes its events
// into the typed protocol events the accumulator consumes. The returned
// channel closes after the terminal event (message stop or error).
func OpenStream(ctx context.Context, client *anthropic.Client, req stream.Request) (<-chan stream.Event, error) {
	params := BuildParams(req)
	sdkStream := client.Messages.NewStreaming(ctx, params)

	ch := make(chan stream.Event)
	go func() {
		defer close(ch)
		demux(ctx, sdkStream, ch)
	}()
	return ch, nil
}

// sdkStream abstracts the SDK's event iterator for testing.
type sdkStream interface {
	Next() bool
	Current() anthropic.MessageStreamEventUnion
	Err() error
}

func demux(ctx context.Context, s sdkStream, ch chan<- stream.Event) {
	// The API reports output tokens as running totals on message deltas;
	// downstream metadata events carry increments, so totals are differenced
	// here. The stop reason also arrives on a message delta ahead of the
	// message stop event and is held until then.
	var lastOutputTokens int64
	var stopReason string

	// Structured output arrives as a forced synthetic tool call; its input
	// fragments are surfaced as plain text.
	structuredBlock := false

	send := func(ev stream.Event) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for s.Next() {
		event := s.Current()

		switch event.Type {
		case "message_start":
			ms := event.AsMessageStart()
			if !send(stream.Event{Type: stream.EventMessageStart}) {
				return
			}
			if in := ms.Message.Usage.InputTokens; in > 0 {
				if !send(stream.Event{
					Type:  stream.EventMetadata,
					Usage: ai.Usage{InputTokens: int(in)},
				}) {
					return
				}
			}

		case "content_block_start":
			cb := event.AsContentBlockStart().ContentBlock
			ev := stream.Event{Type: stream.EventContentBlockStart}
			switch cb.Type {
			case "tool_use":
				if cb.Name == structuredResponseToolName {
					structuredBlock = true
					ev.BlockKind = stream.BlockText
				} else {
					ev.BlockKind = stream.BlockToolUse
					ev.ToolUseID = cb.ID
					ev.ToolName = cb.Name
				}
			case "thinking":
				ev.BlockKind = stream.BlockReasoning
			default:
				ev.BlockKind = stream.BlockText
			}
			if !send(ev) {
				return
			}

		case "content_block_delta":
			delta := event.AsContentBlockDelta().Delta
			ev := stream.Event{Type: stream.EventContentBlockDelta}
			switch delta.Type {
			case "text_delta":
				ev.Delta = stream.DeltaText
				ev.Text = delta.Text
			case "input_json_delta":
				if structuredBlock {
					ev.Delta = stream.DeltaText
				} else {
					ev.Delta = stream.DeltaToolInput
				}
				ev.Text = delta.PartialJSON
			case "thinking_delta":
				ev.Delta = stream.DeltaReasoningText
				ev.Text = delta.Thinking
			case "signature_delta":
				ev.Delta = stream.DeltaReasoningSignature
				ev.Text = delta.Signature
			default:
				continue
			}
			if !send(ev) {
				return
			}

		case "content_block_stop":
			structuredBlock = false
			if !send(stream.Event{Type: stream.EventContentBlockStop}) {
				return
			}

		case "message_delta":
			md := event.AsMessageDelta()
			if md.Delta.StopReason != "" {
				stopReason = string(md.Delta.StopReason)
			}
			if out := md.Usage.OutputTokens; out > lastOutputTokens {
				if !send(stream.Event{
					Type:  stream.EventMetadata,
					Usage: ai.Usage{OutputTokens: int(out - lastOutputTokens)},
				}) {
					return
				}
				lastOutputTokens = out
			}

		case "message_stop":
			send(stream.Event{Type: stream.EventMessageStop, StopReason: stopReason})
			return
		}
	}

	if err := s.Err(); err != nil {
		send(stream.Event{Err: WrapError(err)})
	}
}
