// Package agentctx keeps the ordered set of context items an agent has chosen
// to keep open (files, folders, fetched pages) and injects a numbered rendering
// of them into every prompt the agent builds.
//
// The pieces are:
//
//   - Store: the ordered collection, with 1-based numbering shared by the
//     prompt rendering and by Close.
//   - Capability: embedded in an agent, it owns one fresh Store and wraps the
//     agent's flow.PromptConstructor so a "# Context" system message is put at
//     the head of the messages appended to the prompt.
//   - HasContext / FromAgent: lets command handlers reach the Store of any
//     agent that exposes one, without knowing the concrete agent type.
//
// A Store is not safe for concurrent use. Each agent owns its own Store and
// mutates it on the goroutine that builds its prompts.
package agentctx
