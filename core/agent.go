package core

// Agent is the minimal contract every runnable agent satisfies.
//
// Run executes one user turn: it consumes runCtx.UserContent, emits events
// through runCtx and returns once the turn is complete or the context is
// cancelled.
type Agent interface {
	Name() string
	Description() string
	Run(runCtx *RunContext) error
}

// AgentInfo carries identifying details about an agent used in contexts & events.
type AgentInfo struct{ Name, Type string }
