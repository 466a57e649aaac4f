// Package agent implements the orchestration loop that turns a single prompt
// into a completed conversation, resolving model-requested tool calls
// automatically.
//
// Each iteration streams one model response through a stream.Accumulator.
// When the model stops to use tools, the loop records the assistant turn,
// executes the requested calls through the tool dispatcher, folds the results
// back in as a user turn, and streams again. The loop ends when the model
// produces a final answer, fails, or hits the iteration cap.
//
// The returned [Result] carries the final answer text (the last pass's text
// only, never interim narration), the full ordered message history, and
// accumulated token usage. The history is plain serializable data; feed it
// back via [WithHistory] to resume the conversation in a later run.
package agent
