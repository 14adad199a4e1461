package flow

import (
	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/model"
)

// PromptParams is the mutable bag of prompt parts that request processors
// fill and prompt middleware may rewrite. A nil slice means the part is
// absent.
type PromptParams struct {
	Instructions    string
	PrependMessages []core.Content
	History         []core.Content
	AppendMessages  []core.Content
}

// PromptConstructor turns prompt params into a model request.
type PromptConstructor interface {
	ConstructPrompt(runCtx *core.RunContext, params *PromptParams) (*model.Request, error)
}

// PromptConstructorFunc adapts a function to PromptConstructor.
type PromptConstructorFunc func(runCtx *core.RunContext, params *PromptParams) (*model.Request, error)

// ConstructPrompt calls f.
func (f PromptConstructorFunc) ConstructPrompt(runCtx *core.RunContext, params *PromptParams) (*model.Request, error) {
	return f(runCtx, params)
}

// PromptMiddleware wraps a constructor with extra behavior.
type PromptMiddleware func(next PromptConstructor) PromptConstructor

// Chain wraps base with mws. The first middleware listed sees the params
// first; base runs last.
func Chain(base PromptConstructor, mws ...PromptMiddleware) PromptConstructor {
	pc := base
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			pc = mws[i](pc)
		}
	}
	return pc
}

// BasePromptConstructor lays out the request as
// system(Instructions), PrependMessages, History, AppendMessages.
type BasePromptConstructor struct{}

// ConstructPrompt implements PromptConstructor.
func (BasePromptConstructor) ConstructPrompt(_ *core.RunContext, params *PromptParams) (*model.Request, error) {
	req := &model.Request{}
	if params == nil {
		return req, nil
	}

	n := len(params.PrependMessages) + len(params.History) + len(params.AppendMessages) + 1
	contents := make([]core.Content, 0, n)

	if params.Instructions != "" {
		contents = append(contents, core.NewTextContent(core.RoleSystem, params.Instructions))
	}

	contents = append(contents, params.PrependMessages...)
	contents = append(contents, params.History...)
	contents = append(contents, params.AppendMessages...)

	req.Contents = contents

	return req, nil
}
