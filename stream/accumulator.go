package stream

import (
	"encoding/json"
	"strings"

	ai "github.com/xpand-io/bedrockai"
)

// Accumulator folds one streaming pass's events into structured content.
// It is a single-use state machine: create one per request, feed events in
// arrival order, read the results once the terminal event has been processed.
// Not safe for concurrent use; events for a pass are processed sequentially.
//
// Invariant: at most one of the in-progress tool use and the in-progress
// reasoning block is open at any time. Content blocks never interleave
// mid-stream; a start event arriving while a block is open is a protocol
// violation and fails the pass.
type Accumulator struct {
	observer ChunkHandler

	text     strings.Builder
	toolUses []ai.ToolUse

	currentTool *ai.ToolUse
	inputBuf    strings.Builder

	reasoning        []ai.Reasoning
	currentReasoning *ai.Reasoning

	// plainOpen tracks an explicitly started non-tool block, so a tool_use
	// start cannot interleave with one.
	plainOpen bool

	stopReason string
	usage      ai.Usage
	done       bool
}

// NewAccumulator creates an accumulator reporting progress to observer.
// A nil observer is legal and disables notifications.
func NewAccumulator(observer ChunkHandler) *Accumulator {
	return &Accumulator{observer: observer}
}

// Consume feeds every event from the channel until it closes or an event
// fails the pass. On error the remaining events are drained so the source
// goroutine can exit.
func (a *Accumulator) Consume(events <-chan Event) error {
	for ev := range events {
		if err := a.Feed(ev); err != nil {
			for range events {
			}
			return err
		}
	}
	return nil
}

// Feed processes a single event. A returned error is fatal for the pass.
func (a *Accumulator) Feed(ev Event) error {
	if ev.Err != nil {
		return a.streamErr(ev.Err)
	}

	switch ev.Type {
	case EventMessageStart:
		a.notify(Chunk{Kind: ChunkMessageStart})

	case EventContentBlockStart:
		return a.blockStart(ev)

	case EventContentBlockDelta:
		return a.delta(ev)

	case EventContentBlockStop:
		a.blockStop()

	case EventMessageStop:
		a.stopReason = ev.StopReason
		a.done = true
		a.notify(Chunk{Kind: ChunkMessageStop, StopReason: ev.StopReason})

	case EventMetadata:
		a.usage.Add(ev.Usage)
		a.notify(Chunk{Kind: ChunkMetadata, UsageDelta: ev.Usage, UsageTotal: a.usage})

	default:
		return ai.NewStreamError(ai.ErrorStream, "unknown stream event type "+string(ev.Type), nil)
	}
	return nil
}

func (a *Accumulator) blockStart(ev Event) error {
	if ev.BlockKind != BlockToolUse {
		// Plain content block; nothing to assemble, but it counts as open.
		a.plainOpen = true
		return nil
	}
	if a.currentTool != nil || a.currentReasoning != nil || a.plainOpen {
		return ai.NewStreamError(ai.ErrorStream, "protocol violation: tool_use block started while another block is open", nil)
	}
	a.currentTool = &ai.ToolUse{ID: ev.ToolUseID, Name: ev.ToolName}
	a.inputBuf.Reset()
	a.notify(Chunk{Kind: ChunkToolUseStart, ToolUseID: ev.ToolUseID, ToolName: ev.ToolName})
	return nil
}

func (a *Accumulator) delta(ev Event) error {
	switch ev.Delta {
	case DeltaText:
		if a.currentTool != nil {
			return ai.NewStreamError(ai.ErrorStream, "protocol violation: text delta inside tool_use block", nil)
		}
		a.text.WriteString(ev.Text)
		a.notify(Chunk{Kind: ChunkText, Text: ev.Text})

	case DeltaToolInput:
		if a.currentTool == nil {
			return ai.NewStreamError(ai.ErrorStream, "protocol violation: tool input delta outside tool_use block", nil)
		}
		a.inputBuf.WriteString(ev.Text)
		a.notify(Chunk{Kind: ChunkToolUseDelta, Text: ev.Text, ToolUseID: a.currentTool.ID, ToolName: a.currentTool.Name})

	case DeltaReasoningText:
		if a.currentTool != nil {
			return ai.NewStreamError(ai.ErrorStream, "protocol violation: reasoning delta inside tool_use block", nil)
		}
		if a.currentReasoning == nil {
			a.currentReasoning = &ai.Reasoning{}
		}
		a.currentReasoning.Thinking += ev.Text
		a.notify(Chunk{Kind: ChunkReasoning, Text: ev.Text})

	case DeltaReasoningSignature:
		if a.currentTool != nil {
			return ai.NewStreamError(ai.ErrorStream, "protocol violation: reasoning signature inside tool_use block", nil)
		}
		if a.currentReasoning == nil {
			a.currentReasoning = &ai.Reasoning{}
		}
		a.currentReasoning.Signature = ev.Text
		a.notify(Chunk{Kind: ChunkReasoningSignature, Text: ev.Text})

	default:
		return ai.NewStreamError(ai.ErrorStream, "unknown delta kind "+string(ev.Delta), nil)
	}
	return nil
}

func (a *Accumulator) blockStop() {
	a.plainOpen = false
	switch {
	case a.currentTool != nil:
		tu := *a.currentTool
		tu.Input = parseToolInput(a.inputBuf.String())
		a.toolUses = append(a.toolUses, tu)
		a.currentTool = nil
		a.inputBuf.Reset()
		a.notify(Chunk{Kind: ChunkToolUseEnd, ToolUseID: tu.ID, ToolName: tu.Name})

	case a.currentReasoning != nil:
		a.reasoning = append(a.reasoning, *a.currentReasoning)
		a.currentReasoning = nil
		a.notify(Chunk{Kind: ChunkContentBlockStop})

	default:
		a.notify(Chunk{Kind: ChunkContentBlockStop})
	}
}

// parseToolInput concatenated argument fragments into the tool use input.
// Malformed JSON does not fail the stream: the failure is deferred to
// execution time by substituting a sentinel payload that carries the raw
// buffer and the parser error (see ai.ToolUse.MalformedInput).
func parseToolInput(buf string) json.RawMessage {
	// Models stream no fragments at all for zero-argument tools.
	if strings.TrimSpace(buf) == "" {
		return json.RawMessage("{}")
	}
	var parsed any
	if err := json.Unmarshal([]byte(buf), &parsed); err != nil {
		sentinel, merr := json.Marshal(map[string]string{
			ai.SentinelRawKey:        buf,
			ai.SentinelParseErrorKey: err.Error(),
		})
		if merr != nil {
			// Marshal of a map[string]string cannot fail; keep the parser
			// error visible regardless.
			sentinel = json.RawMessage(`{"` + ai.SentinelRawKey + `":"","` + ai.SentinelParseErrorKey + `":"invalid tool input"}`)
		}
		return sentinel
	}
	return json.RawMessage(buf)
}

func (a *Accumulator) streamErr(err error) error {
	if ai.CategoryOf(err) != "" {
		return err
	}
	return ai.NewStreamError(ai.ErrorStream, "stream failed", err)
}

func (a *Accumulator) notify(c Chunk) {
	if a.observer != nil {
		a.observer(c)
	}
}

// Text returns the accumulated assistant text.
func (a *Accumulator) Text() string {
	return a.text.String()
}

// ToolUses returns the completed tool use requests in stream order.
func (a *Accumulator) ToolUses() []ai.ToolUse {
	return a.toolUses
}

// ReasoningBlocks returns the completed reasoning blocks in stream order.
func (a *Accumulator) ReasoningBlocks() []ai.Reasoning {
	return a.reasoning
}

// StopReason returns the recorded stop reason, or "" before message stop.
func (a *Accumulator) StopReason() string {
	return a.stopReason
}

// Usage returns the accumulated token usage for the pass.
func (a *Accumulator) Usage() ai.Usage {
	return a.usage
}

// Done reports whether the terminal message stop event has been processed.
func (a *Accumulator) Done() bool {
	return a.done
}
