package agentctx

import (
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/flow"
	"github.com/hupe1980/agentctx/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is the next stage of prompt construction; it captures the params
// it was handed and returns a sentinel request.
type recorder struct {
	calls  int
	params *flow.PromptParams
	append []core.Content
	result *model.Request
}

func (r *recorder) ConstructPrompt(_ *core.RunContext, params *flow.PromptParams) (*model.Request, error) {
	r.calls++
	r.params = params
	r.append = append([]core.Content(nil), params.AppendMessages...)
	return r.result, nil
}

func newRunCtx() *core.RunContext {
	return core.NewRunContext(context.Background(), "run-1", core.AgentInfo{Name: "tester"}, core.Content{}, nil, 0, nil, nil)
}

func TestCapability_EmptyStoreCreatesAppendList(t *testing.T) {
	c := NewCapability()
	next := &recorder{result: &model.Request{}}

	req, err := c.WrapPromptConstructor(next).ConstructPrompt(newRunCtx(), &flow.PromptParams{})
	require.NoError(t, err)

	assert.Same(t, next.result, req)
	assert.Equal(t, 1, next.calls)
	require.NotNil(t, next.params.AppendMessages)
	assert.Empty(t, next.params.AppendMessages)
}

func TestCapability_EmptyStoreLeavesExistingMessages(t *testing.T) {
	c := NewCapability()
	next := &recorder{}
	staged := core.NewTextContent(core.RoleUser, "staged")

	_, err := c.WrapPromptConstructor(next).ConstructPrompt(newRunCtx(), &flow.PromptParams{
		Instructions:   "base",
		AppendMessages: []core.Content{staged},
	})
	require.NoError(t, err)

	assert.Equal(t, []core.Content{staged}, next.append)
	assert.Equal(t, "base", next.params.Instructions)
}

func TestCapability_InjectsContextAtHead(t *testing.T) {
	c := NewCapability()
	c.Context().Add(newFile("a.txt"))

	next := &recorder{}
	staged := core.NewTextContent(core.RoleUser, "staged by another stage")

	_, err := c.WrapPromptConstructor(next).ConstructPrompt(newRunCtx(), &flow.PromptParams{
		AppendMessages: []core.Content{staged},
	})
	require.NoError(t, err)

	require.Len(t, next.append, 2)
	assert.Equal(t, core.RoleSystem, next.append[0].Role)
	assert.True(t, strings.HasPrefix(next.append[0].Text(), "# Context\n1. "))
	assert.Equal(t, "# Context\n1. File a.txt", next.append[0].Text())
	assert.Equal(t, staged, next.append[1])
}

func TestCapability_NoPersistentDecision(t *testing.T) {
	c := NewCapability()
	next := &recorder{}
	wrapped := c.WrapPromptConstructor(next)

	c.Context().Add(newFile("a"))
	_, err := wrapped.ConstructPrompt(newRunCtx(), &flow.PromptParams{})
	require.NoError(t, err)
	assert.Len(t, next.append, 1)

	c.Context().Clear()
	_, err = wrapped.ConstructPrompt(newRunCtx(), &flow.PromptParams{})
	require.NoError(t, err)
	assert.Empty(t, next.append)
}

func TestCapability_NilParamsAndRunContext(t *testing.T) {
	c := NewCapability()
	c.Context().Add(newFile("a"))
	next := &recorder{}

	_, err := c.Middleware()(next).ConstructPrompt(nil, nil)
	require.NoError(t, err)
	require.Len(t, next.append, 1)
}

func TestCapability_NilReceiverDelegates(t *testing.T) {
	var c *Capability
	next := &recorder{result: &model.Request{}}

	var req *model.Request
	var err error
	require.NotPanics(t, func() {
		req, err = c.WrapPromptConstructor(next).ConstructPrompt(newRunCtx(), &flow.PromptParams{})
	})
	require.NoError(t, err)

	assert.Same(t, next.result, req)
	assert.Equal(t, 1, next.calls)
	require.NotNil(t, next.params.AppendMessages)
	assert.Empty(t, next.params.AppendMessages)
}

func TestCapability_WithBaseConstructor(t *testing.T) {
	c := NewCapability()
	c.Context().Add(newFile("a.txt"))
	c.Context().Add(newFile("b.txt"))

	pc := flow.Chain(flow.BasePromptConstructor{}, c.Middleware())
	req, err := pc.ConstructPrompt(newRunCtx(), &flow.PromptParams{
		Instructions: "You are a coder.",
		History:      []core.Content{core.NewTextContent(core.RoleUser, "hi")},
	})
	require.NoError(t, err)

	require.Len(t, req.Contents, 3)
	assert.Equal(t, "You are a coder.", req.Contents[0].Text())
	assert.Equal(t, "hi", req.Contents[1].Text())
	assert.Equal(t, "# Context\n1. File a.txt\n\n2. File b.txt", req.Contents[2].Text())
}

func TestNewCapability_FreshStorePerInstance(t *testing.T) {
	c1 := NewCapability()
	c2 := NewCapability()
	c1.Context().Add(newFile("a"))

	assert.NotSame(t, c1.Context(), c2.Context())
	assert.True(t, c2.Context().IsEmpty())
}

type plainAgent struct{}

type contextAgent struct {
	*Capability
}

func TestFromAgent(t *testing.T) {
	a := &contextAgent{Capability: NewCapability()}

	store, ok := FromAgent(a)
	require.True(t, ok)
	assert.Same(t, a.Context(), store)

	store.Add(newFile("x"))
	assert.Equal(t, 1, a.Context().Len())

	store, ok = FromAgent(&plainAgent{})
	assert.False(t, ok)
	assert.Nil(t, store)

	store, ok = FromAgent(nil)
	assert.False(t, ok)
	assert.Nil(t, store)

	store, ok = FromAgent(&contextAgent{})
	assert.False(t, ok)
	assert.Nil(t, store)
}
