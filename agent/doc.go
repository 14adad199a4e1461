// Package agent contains the model-backed agent that ties the prompt flow,
// its tools and its open context together.
//
// A ModelAgent embeds an *agentctx.Capability, so every agent owns exactly one
// context store and agentctx.FromAgent finds it. Tools reach the same store
// through the ToolContext of each call.
//
// Execution Model:
//   - Invoke and Stream run one user turn at a time; a second concurrent run
//     fails with ErrAgentRunning
//   - Run implements core.Agent for callers that manage their own RunContext
//   - The conversation history lives in the agent's Session and survives
//     across turns until Reset
package agent
