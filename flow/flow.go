// Package flow drives a single agent turn: request processors fill a
// PromptParams bag, the agent's prompt constructor (possibly wrapped by
// middleware such as the context capability) turns it into a model.Request,
// the model is called and any tool calls are executed before the next turn.
package flow

import (
	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/model"
	"github.com/hupe1980/agentctx/tool"
)

// Flow defines the interface for agent execution flows.
type Flow interface {
	// Run executes turns until a final response is produced, emitting every
	// event through runCtx. It blocks until the turn is complete.
	Run(runCtx *core.RunContext) error
}

// FlowAgent defines the interface that agents must implement to work with flows.
//
// The value itself is handed to tools through core.ToolContext, so tools can
// discover optional capabilities on it.
type FlowAgent interface {
	// GetName returns the agent's display name.
	GetName() string

	// GetLLM returns the language model instance.
	GetLLM() model.Model

	ResolveInstructions(runCtx *core.RunContext) (string, error)

	// GetTools returns the registered tools for function calling.
	GetTools() map[string]tool.Tool

	// IsStreamingEnabled returns whether streaming responses are enabled.
	IsStreamingEnabled() bool

	// MaxHistoryMessages returns the maximum number of conversation history messages to keep.
	MaxHistoryMessages() int

	// PromptConstructor returns the step that turns prompt params into a request.
	PromptConstructor() PromptConstructor
}

// RequestProcessor fills the prompt params before the prompt is constructed.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the params bag before prompt construction.
	ProcessRequest(runCtx *core.RunContext, params *PromptParams, agent FlowAgent) error
}

// ResponseProcessor processes the response after receiving it from the LLM.
type ResponseProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessResponse handles the LLM response and may generate additional events.
	ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error
}
