package flow

// SingleAgentFlow implements a basic execution flow for a standalone agent.
// It wires default processors for instruction resolution and history, then
// relays model events directly.
type SingleAgentFlow struct{ *BaseFlow }

// NewSingleAgentFlow creates a new basic single-agent flow.
func NewSingleAgentFlow(agent FlowAgent, optFns ...func(o *Options)) *SingleAgentFlow {
	baseFlow := NewBaseFlow(agent, optFns...)

	baseFlow.AddRequestProcessor(NewInstructionsProcessor())
	baseFlow.AddRequestProcessor(NewHistoryProcessor())

	return &SingleAgentFlow{BaseFlow: baseFlow}
}
