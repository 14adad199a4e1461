package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/agentctx/agentctx"
	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/flow"
	"github.com/hupe1980/agentctx/logging"
	"github.com/hupe1980/agentctx/model"
	"github.com/hupe1980/agentctx/tool"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Instruction        Instruction
	EnableStreaming    bool
	MaxHistoryMessages int
	// MaxModelCalls bounds the model calls of one turn; 0 means unlimited.
	MaxModelCalls int
	Tools         map[string]tool.Tool
	// PromptMiddleware runs after the context injection, in order.
	PromptMiddleware []flow.PromptMiddleware
	Executor         flow.FunctionExecutor
	Logger           logging.Logger
}

// ModelAgent drives a language model with tools and an open context.
//
// The embedded Capability gives each agent its own context store; the
// agent's prompt constructor is wrapped by it, so every model call sees the
// items that are open at that moment.
type ModelAgent struct {
	BaseAgent
	*agentctx.Capability

	llm                model.Model          // Language model interface
	instruction        Instruction          // Instructions for the LLM
	tools              map[string]tool.Tool // Registered tools for function calling
	enableStreaming    bool                 // Whether to stream responses
	maxHistoryMessages int                  // Maximum number of conversation history messages to keep
	maxModelCalls      int                  // Model call budget per turn
	promptConstructor  flow.PromptConstructor
	flow               flow.Flow
	session            *core.Session
	logger             logging.Logger
}

// NewModelAgent creates a new model-based agent with sensible defaults:
// streaming enabled, a 20 message history window, a budget of 25 model
// calls per turn and an empty context.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Instruction:        NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		EnableStreaming:    true,
		MaxHistoryMessages: 20,
		MaxModelCalls:      25,
		Tools:              make(map[string]tool.Tool),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	for n, t := range opts.Tools {
		tools[n] = t
	}

	a := &ModelAgent{
		BaseAgent:          NewBaseAgent(name),
		Capability:         agentctx.NewCapability(),
		llm:                llm,
		instruction:        opts.Instruction,
		tools:              tools,
		enableStreaming:    opts.EnableStreaming,
		maxHistoryMessages: opts.MaxHistoryMessages,
		maxModelCalls:      opts.MaxModelCalls,
		session:            core.NewSession(core.NewID()),
		logger:             logging.OrNoOp(opts.Logger),
	}

	mws := append([]flow.PromptMiddleware{a.Capability.Middleware()}, opts.PromptMiddleware...)
	a.promptConstructor = flow.Chain(flow.BasePromptConstructor{}, mws...)

	a.flow = flow.NewSingleAgentFlow(a, func(o *flow.Options) {
		o.Executor = opts.Executor
	})

	return a
}

// RegisterTool adds a tool to the agent's capability set.
func (a *ModelAgent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools to the agent's capability set.
func (a *ModelAgent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// UnregisterTool removes a tool from the agent's capability set.
//
// Returns true if the tool was found and removed, false if it wasn't registered.
func (a *ModelAgent) UnregisterTool(name string) bool {
	if _, exists := a.tools[name]; exists {
		delete(a.tools, name)
		return true
	}
	return false
}

// HasTool checks if a tool is registered with the agent.
func (a *ModelAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// ListTools returns the sorted names of all registered tools.
func (a *ModelAgent) ListTools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Session returns the conversation session of this agent.
func (a *ModelAgent) Session() *core.Session { return a.session }

// Reset forgets the conversation history. The open context is kept.
func (a *ModelAgent) Reset() { a.session.Reset() }

// GetName returns the agent's display name.
func (a *ModelAgent) GetName() string { return a.Name() }

// GetLLM returns the language model instance.
func (a *ModelAgent) GetLLM() model.Model { return a.llm }

// GetTools returns a copy of the registered tools.
func (a *ModelAgent) GetTools() map[string]tool.Tool {
	tools := make(map[string]tool.Tool, len(a.tools))
	for name, t := range a.tools {
		tools[name] = t
	}
	return tools
}

// IsStreamingEnabled returns whether streaming responses are enabled.
func (a *ModelAgent) IsStreamingEnabled() bool { return a.enableStreaming }

// MaxHistoryMessages returns the maximum number of conversation history messages to keep.
func (a *ModelAgent) MaxHistoryMessages() int { return a.maxHistoryMessages }

// ResolveInstructions produces the system prompt for the current run.
func (a *ModelAgent) ResolveInstructions(runCtx *core.RunContext) (string, error) {
	return a.instruction.Resolve(runCtx)
}

// PromptConstructor returns the context-aware prompt constructor.
func (a *ModelAgent) PromptConstructor() flow.PromptConstructor { return a.promptConstructor }

// Run implements core.Agent. The user content of runCtx is recorded in the
// session before the flow starts.
func (a *ModelAgent) Run(runCtx *core.RunContext) error {
	runCtx.LogDebug(
		"agent.run.start",
		"agent", a.Name(),
		"run", runCtx.RunID,
		"context_items", a.Context().Len(),
	)

	if len(runCtx.UserContent.Parts) > 0 && runCtx.Session != nil {
		ev := core.NewEvent(runCtx.RunID, core.RoleUser)
		content := runCtx.UserContent
		ev.Content = &content
		runCtx.Session.AddEvent(ev)
	}

	if err := a.flow.Run(runCtx); err != nil {
		runCtx.LogError("agent.run.error", "agent", a.Name(), "error", err.Error())
		return fmt.Errorf("agent %s: %w", a.Name(), err)
	}

	runCtx.LogDebug("agent.run.complete", "agent", a.Name(), "model_calls", runCtx.Limiter.Count())

	return nil
}

// Stream runs one user turn in the background. The event channel is closed
// when the turn ends; the error channel then yields at most one error.
func (a *ModelAgent) Stream(ctx context.Context, message string) (<-chan core.Event, <-chan error) {
	events := make(chan core.Event, 16)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(events)

		if err := a.Start(); err != nil {
			errc <- err
			return
		}
		defer a.Stop()

		runCtx := core.NewRunContext(
			ctx,
			core.NewID(),
			core.AgentInfo{Name: a.Name(), Type: "model"},
			core.NewTextContent(core.RoleUser, message),
			a.session,
			a.maxModelCalls,
			events,
			a.logger,
		)

		if err := a.Run(runCtx); err != nil {
			errc <- err
		}
	}()

	return events, errc
}

// Invoke runs one user turn and returns the final assistant reply.
func (a *ModelAgent) Invoke(ctx context.Context, message string) (string, error) {
	events, errc := a.Stream(ctx, message)

	var reply string
	for ev := range events {
		if ev.IsFinalResponse() && ev.Content != nil && ev.Content.Role == core.RoleAssistant {
			reply = ev.Content.Text()
		}
	}

	if err := <-errc; err != nil {
		return reply, err
	}

	return reply, nil
}
