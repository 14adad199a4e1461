package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_SystemAndInjectedContext(t *testing.T) {
	contents := []core.Content{
		core.NewTextContent(core.RoleSystem, "You are a coder."),
		core.NewTextContent(core.RoleUser, "hi"),
		core.NewTextContent(core.RoleSystem, "# Context\n1. a"),
	}

	system, messages := buildMessages(contents)

	require.Len(t, system, 1)
	assert.Equal(t, "You are a coder.", system[0].Text)

	// the late system message is merged into the preceding user turn
	require.Len(t, messages, 1)
	assert.Equal(t, sdk.MessageParamRoleUser, messages[0].Role)
	assert.Len(t, messages[0].Content, 2)
}

func TestBuildMessages_ToolRoundTrip(t *testing.T) {
	contents := []core.Content{
		core.NewTextContent(core.RoleUser, "open a.txt"),
		{Role: core.RoleAssistant, Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{
			ID: "tu_1", Name: "open_file", Arguments: `{"file_path":"a.txt"}`,
		}}}},
		{Role: core.RoleTool, Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
			ID: "tu_1", Name: "open_file", Response: "File a.txt opened",
		}}}},
	}

	system, messages := buildMessages(contents)

	assert.Empty(t, system)
	require.Len(t, messages, 3)
	assert.Equal(t, sdk.MessageParamRoleUser, messages[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, messages[1].Role)
	assert.Equal(t, sdk.MessageParamRoleUser, messages[2].Role)
	require.Len(t, messages[2].Content, 1)
	assert.NotNil(t, messages[2].Content[0].OfToolResult)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]model.ToolDefinition{{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        "close_context_item",
			Description: "Close an open context item",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{"number": map[string]any{"type": "integer"}},
				"required":   []any{"number"},
			},
		},
	}})

	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "close_context_item", tools[0].OfTool.Name)
	assert.Equal(t, []string{"number"}, tools[0].OfTool.InputSchema.Required)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.Model = "claude-test"
	})
	assert.Equal(t, model.Info{Name: "claude-test", Provider: "anthropic", SupportsTools: true}, m.Info())
}
