package agentctx

import (
	"slices"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/flow"
	"github.com/hupe1980/agentctx/model"
)

// ContextHeader prefixes the injected context message.
const ContextHeader = "# Context\n"

// HasContext is implemented by agents that keep a context store. Embedding a
// *Capability satisfies it.
type HasContext interface {
	Context() *Store
}

// Capability gives an agent an open-items context and the prompt middleware
// that injects it. Create one per agent with NewCapability; never share one
// between agents.
type Capability struct {
	store *Store
}

// NewCapability returns a capability with a fresh, empty store.
func NewCapability() *Capability {
	return &Capability{store: NewStore()}
}

// Context returns the store owned by this capability, or nil for a nil
// capability.
func (c *Capability) Context() *Store {
	if c == nil {
		return nil
	}
	return c.store
}

// Message builds the system message injected for a non-empty store.
func Message(s *Store) core.Content {
	return core.NewTextContent(core.RoleSystem, ContextHeader+s.FormatNumbered())
}

// WrapPromptConstructor returns a constructor that runs before next. It makes
// sure params.AppendMessages exists and, when the store holds items, puts the
// context message at index 0 of it. The result of next is returned as is.
// A nil capability injects nothing.
func (c *Capability) WrapPromptConstructor(next flow.PromptConstructor) flow.PromptConstructor {
	return flow.PromptConstructorFunc(func(runCtx *core.RunContext, params *flow.PromptParams) (*model.Request, error) {
		if params == nil {
			params = &flow.PromptParams{}
		}

		if params.AppendMessages == nil {
			params.AppendMessages = []core.Content{}
		}

		if store := c.Context(); store != nil && store.NonEmpty() {
			params.AppendMessages = slices.Insert(params.AppendMessages, 0, Message(store))

			if runCtx != nil {
				runCtx.LogDebug("agent.context.injected", "agent", runCtx.GetAgentName(), "items", store.Len())
			}
		}

		return next.ConstructPrompt(runCtx, params)
	})
}

// Middleware exposes WrapPromptConstructor as a flow.PromptMiddleware.
func (c *Capability) Middleware() flow.PromptMiddleware {
	return c.WrapPromptConstructor
}

// FromAgent returns the store of an agent that implements HasContext. For
// any other value, nil included, it returns (nil, false).
func FromAgent(agent any) (*Store, bool) {
	hc, ok := agent.(HasContext)
	if !ok {
		return nil, false
	}

	s := hc.Context()
	if s == nil {
		return nil, false
	}

	return s, true
}
