package core

import (
	"context"

	"github.com/hupe1980/agentctx/logging"
)

// ToolContext is the surface handed to a tool for one function call. Besides
// the run scope it exposes the agent that issued the call, which lets command
// handlers discover optional agent capabilities (such as an open context)
// without depending on a concrete agent type.
type ToolContext struct {
	runCtx         *RunContext
	functionCallID string
	agent          any

	*loggerAdapter
}

// NewToolContext binds a tool invocation to its run, call id and owning agent.
func NewToolContext(runCtx *RunContext, functionCallID string, agent any) *ToolContext {
	return &ToolContext{
		runCtx:         runCtx,
		functionCallID: functionCallID,
		agent:          agent,
		loggerAdapter:  newLoggerAdapter(runCtx.Logger()),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.runCtx.Context }

// RunID returns the run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runCtx.RunID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// AgentName returns the name of the calling agent.
func (tc *ToolContext) AgentName() string { return tc.runCtx.Agent.Name }

// Agent returns the agent that issued the call; nil when unknown.
func (tc *ToolContext) Agent() any { return tc.agent }

// GetState reads a session state value.
func (tc *ToolContext) GetState(k string) (any, bool) {
	return tc.runCtx.GetState(k)
}

// SetState writes a session state value.
func (tc *ToolContext) SetState(k string, v any) {
	tc.runCtx.SetState(k, v)
}

// RunContext returns the enclosing run context.
func (tc *ToolContext) RunContext() *RunContext { return tc.runCtx }
