// Package logging provides the small logging surface used across agentctx.
//
// Components depend on the Logger interface only. Callers plug in any
// structured logger through SlogAdapter, build one from configuration with
// New, or silence output with NoOpLogger (the default everywhere a logger is
// optional).
//
// Usage:
//
//	logger := logging.New(&logging.Config{Level: logging.LevelDebug, Format: "text"})
//	a := agent.NewModelAgent("coder", llm, func(o *agent.ModelAgentOptions) { o.Logger = logger })
//
// Messages are dotted lowercase event names ("agent.context.injected") followed
// by key/value pairs, mirroring slog's attribute convention.
package logging
