// Package model defines the provider-agnostic abstractions for talking to
// language models:
//   - Request / Response shapes built from core.Content messages
//   - ToolDefinition / ToolCall normalizing function calling across vendors
//   - the Model interface implemented by the anthropic and openai adapters
//   - MockModel, a scriptable in-memory Model for tests and examples
//
// Prompt assembly (system instructions, injected context, history) happens in
// the flow package; by the time a Request reaches a Model it is a flat,
// ordered list of messages.
package model
