package flow

import (
	"fmt"

	"github.com/hupe1980/agentctx/core"
	internalutil "github.com/hupe1980/agentctx/internal/util"
)

// InstructionsProcessor handles system prompt and instruction processing.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest resolves the agent instruction and renders it as a template
// over the session state.
func (p *InstructionsProcessor) ProcessRequest(runCtx *core.RunContext, params *PromptParams, agent FlowAgent) error {
	instructions, err := agent.ResolveInstructions(runCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}

	runCtx.LogDebug("agent.instruction.resolved", "agent", agent.GetName(), "length", len(instructions))

	if runCtx.Session != nil {
		rendered, tplErr := internalutil.RenderTemplate(instructions, runCtx.Session.StateSnapshot())
		if tplErr != nil {
			return fmt.Errorf("failed to render template: %w", tplErr)
		}
		instructions = rendered
	}

	params.Instructions = instructions

	return nil
}

// HistoryProcessor copies the conversation history into the params.
type HistoryProcessor struct{}

// NewHistoryProcessor creates a new history processor.
func NewHistoryProcessor() *HistoryProcessor { return &HistoryProcessor{} }

// Name returns the processor's identifier.
func (p *HistoryProcessor) Name() string { return "history" }

// ProcessRequest sets params.History to the most recent MaxHistoryMessages
// events that carry content. A non-positive limit keeps everything. The
// window never opens on a tool result, since its function call would be
// missing from the request.
func (p *HistoryProcessor) ProcessRequest(runCtx *core.RunContext, params *PromptParams, agent FlowAgent) error {
	events := runCtx.GetSessionHistory()

	if limit := agent.MaxHistoryMessages(); limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	history := make([]core.Content, 0, len(events))
	for _, ev := range events {
		if ev.Content != nil && len(ev.Content.Parts) > 0 {
			history = append(history, *ev.Content)
		}
	}

	for len(history) > 0 && history[0].Role == core.RoleTool {
		history = history[1:]
	}

	params.History = history

	return nil
}
