// Package core provides the foundational domain types shared by agents, flows
// and tools:
//
//   - Content / Part (role-based multi-part messages)
//   - Events (immutable records of model output and tool results)
//   - Session (per-agent conversation history and template state)
//   - RunContext / ToolContext (scoped execution state for a single run)
//
// Concrete agents, model adapters and context items live in their own
// packages; core only fixes the shapes they exchange.
package core
