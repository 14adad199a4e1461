package core

import (
	"context"

	"github.com/hupe1980/agentctx/logging"
)

// RunContext carries the execution scope of one agent turn:
//   - The ambient cancellation Context
//   - Identifiers (RunID, Agent info)
//   - The user Content that started the turn
//   - The agent's Session (history + template state)
//   - A model call limiter and the event emission channel
//
// A RunContext is used by exactly one goroutine at a time; the flow loop runs
// prompt construction and tool calls sequentially on it.
type RunContext struct {
	Context     context.Context
	RunID       string
	Agent       AgentInfo
	UserContent Content
	Session     *Session
	Limiter     *ModelLimiter
	Emit        chan<- Event

	*loggerAdapter
}

// NewRunContext constructs a RunContext. A nil session is replaced by a fresh
// one and a nil logger by a NoOpLogger.
func NewRunContext(
	ctx context.Context,
	runID string,
	agent AgentInfo,
	userContent Content,
	sess *Session,
	maxModelCalls int,
	emit chan<- Event,
	logger logging.Logger,
) *RunContext {
	if sess == nil {
		sess = NewSession(runID)
	}

	return &RunContext{
		Context:       ctx,
		RunID:         runID,
		Agent:         agent,
		UserContent:   userContent,
		Session:       sess,
		Limiter:       NewModelLimiter(maxModelCalls),
		Emit:          emit,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// GetState reads a session state value.
func (rc *RunContext) GetState(k string) (any, bool) {
	if rc.Session == nil {
		return nil, false
	}
	return rc.Session.GetState(k)
}

// SetState writes a session state value.
func (rc *RunContext) SetState(k string, v any) {
	if rc.Session != nil {
		rc.Session.SetState(k, v)
	}
}

// GetSessionHistory returns the conversation history usable in prompts.
func (rc *RunContext) GetSessionHistory() []Event {
	if rc.Session == nil {
		return []Event{}
	}
	return rc.Session.GetConversationHistory()
}

// GetAgentName returns the logical agent name for this run.
func (rc *RunContext) GetAgentName() string { return rc.Agent.Name }

// EmitEvent records a complete (non-partial) event in the session and sends
// it on Emit. Sending blocks until the consumer receives or the context is
// cancelled. A nil Emit channel only records.
func (rc *RunContext) EmitEvent(ev Event) error {
	if !ev.IsPartial() && rc.Session != nil {
		rc.Session.AddEvent(ev)
	}

	if rc.Emit == nil {
		return nil
	}

	select {
	case <-rc.Context.Done():
		return rc.Context.Err()
	case rc.Emit <- ev:
	}

	return nil
}
