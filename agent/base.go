package agent

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAgentRunning is returned when a run is started on a busy agent.
var ErrAgentRunning = errors.New("agent is already running")

// BaseAgent bundles identity and the single-run guard. Embed it in concrete
// agent implementations and supply a Run method to satisfy core.Agent.
type BaseAgent struct {
	name        string     // Human-readable name
	description string     // Detailed description of agent's purpose
	mu          sync.Mutex // Protects running
	running     bool       // Tracks whether a turn is in progress
}

// NewBaseAgent constructs a BaseAgent with generated description (customizable via SetDescription).
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// Start marks the agent as running. It fails with ErrAgentRunning while
// another turn is in progress.
func (b *BaseAgent) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return ErrAgentRunning
	}

	b.running = true

	return nil
}

// Stop marks the agent as idle.
func (b *BaseAgent) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running = false
}

// IsRunning reports whether a turn is in progress.
func (b *BaseAgent) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}
