package flow

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/agentctx/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionsProcessor(t *testing.T) {
	p := NewInstructionsProcessor()
	assert.Equal(t, "instructions", p.Name())

	agent := newMockAgent(nil)
	agent.instruction = "Work in {{.workspace}}."

	sess := core.NewSession("s")
	sess.SetState("workspace", "/repo")
	runCtx := core.NewRunContext(context.Background(), "r", core.AgentInfo{}, core.Content{}, sess, 0, nil, nil)

	params := &PromptParams{}
	require.NoError(t, p.ProcessRequest(runCtx, params, agent))
	assert.Equal(t, "Work in /repo.", params.Instructions)
}

func TestInstructionsProcessor_TemplateError(t *testing.T) {
	agent := newMockAgent(nil)
	agent.instruction = "{{.broken"

	runCtx := core.NewRunContext(context.Background(), "r", core.AgentInfo{}, core.Content{}, nil, 0, nil, nil)

	err := NewInstructionsProcessor().ProcessRequest(runCtx, &PromptParams{}, agent)
	assert.ErrorContains(t, err, "failed to render template")
}

func TestHistoryProcessor(t *testing.T) {
	p := NewHistoryProcessor()
	assert.Equal(t, "history", p.Name())

	sess := core.NewSession("s")
	for i := 0; i < 5; i++ {
		sess.AddEvent(core.NewUserMessageEvent("r", fmt.Sprintf("m%d", i)))
	}
	sess.AddEvent(core.NewErrorEvent("r", fmt.Errorf("ignored")))

	runCtx := core.NewRunContext(context.Background(), "r", core.AgentInfo{}, core.Content{}, sess, 0, nil, nil)

	agent := newMockAgent(nil)
	agent.maxHistory = 2

	params := &PromptParams{}
	require.NoError(t, p.ProcessRequest(runCtx, params, agent))
	require.Len(t, params.History, 2)
	assert.Equal(t, "m3", params.History[0].Text())
	assert.Equal(t, "m4", params.History[1].Text())

	agent.maxHistory = 0
	require.NoError(t, p.ProcessRequest(runCtx, params, agent))
	assert.Len(t, params.History, 5)
}

func TestHistoryProcessor_WindowSkipsOrphanToolResult(t *testing.T) {
	sess := core.NewSession("s")
	sess.AddEvent(core.NewUserMessageEvent("r", "open a.txt"))

	call := core.NewEvent("r", "test-agent")
	call.Content = &core.Content{Role: core.RoleAssistant, Parts: []core.Part{
		core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c1", Name: "open_file", Arguments: `{"file_path":"a.txt"}`}},
	}}
	sess.AddEvent(call)
	sess.AddEvent(core.NewFunctionResponseEvent("r", "test-agent", "c1", "open_file", "ok", nil))

	done := core.NewEvent("r", "test-agent")
	done.Content = &core.Content{Role: core.RoleAssistant, Parts: []core.Part{core.TextPart{Text: "opened"}}}
	sess.AddEvent(done)
	sess.AddEvent(core.NewUserMessageEvent("r", "thanks"))

	runCtx := core.NewRunContext(context.Background(), "r", core.AgentInfo{}, core.Content{}, sess, 0, nil, nil)

	agent := newMockAgent(nil)
	agent.maxHistory = 3

	params := &PromptParams{}
	require.NoError(t, NewHistoryProcessor().ProcessRequest(runCtx, params, agent))
	require.Len(t, params.History, 2)
	assert.Equal(t, "opened", params.History[0].Text())
	assert.Equal(t, "thanks", params.History[1].Text())

	agent.maxHistory = 4
	require.NoError(t, NewHistoryProcessor().ProcessRequest(runCtx, params, agent))
	require.Len(t, params.History, 4)
	assert.Equal(t, core.RoleAssistant, params.History[0].Role)
	assert.Equal(t, core.RoleTool, params.History[1].Role)
}
