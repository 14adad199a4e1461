package model

import (
	"context"
	"testing"

	"github.com/hupe1980/agentctx/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(respCh <-chan Response, errCh <-chan error) ([]Response, error) {
	var out []Response
	for r := range respCh {
		out = append(out, r)
	}
	return out, <-errCh
}

func TestMockModel_EchoAndCanned(t *testing.T) {
	m := NewMockModel("mock")
	m.AddResponse("hello", "world")

	resps, err := drain(m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewTextContent(core.RoleUser, "hello")},
	}))
	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, "world", resps[0].Content.Text())

	resps, err = drain(m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewTextContent(core.RoleUser, "ping")},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: ping", resps[len(resps)-1].Content.Text())
	assert.Len(t, m.Requests(), 2)
}

func TestMockModel_Streaming(t *testing.T) {
	m := NewMockModel("mock")
	m.AddResponse("hi", "abc")

	resps, err := drain(m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewTextContent(core.RoleUser, "hi")},
		Stream:   true,
	}))
	require.NoError(t, err)
	require.Len(t, resps, 4)
	assert.True(t, resps[0].Partial)
	assert.False(t, resps[3].Partial)
	assert.Equal(t, "abc", resps[3].Content.Text())
}

func TestMockModel_ScriptedToolCall(t *testing.T) {
	m := NewMockModel("mock")
	m.EnqueueToolCall("c1", "open_file", `{"file_path":"a.txt"}`)

	resps, err := drain(m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewTextContent(core.RoleUser, "open it")},
	}))
	require.NoError(t, err)
	require.Len(t, resps, 1)

	part, ok := resps[0].Content.Parts[0].(core.FunctionCallPart)
	require.True(t, ok)
	assert.Equal(t, "open_file", part.FunctionCall.Name)
	assert.Equal(t, "tool_calls", resps[0].FinishReason)
}

func TestMockModel_NoContents(t *testing.T) {
	m := NewMockModel("mock")
	_, err := drain(m.Generate(context.Background(), Request{}))
	assert.Error(t, err)

	last, ok := m.LastRequest()
	assert.True(t, ok)
	assert.Empty(t, last.Contents)
}

func TestRequest_SystemMessages(t *testing.T) {
	req := Request{Contents: []core.Content{
		core.NewTextContent(core.RoleSystem, "base"),
		core.NewTextContent(core.RoleUser, "q"),
		core.NewTextContent(core.RoleSystem, "# Context\n1. x"),
	}}
	assert.Equal(t, []string{"base", "# Context\n1. x"}, req.SystemMessages())
	assert.Equal(t, "mock", NewMockModel("m").Info().Provider)
}

func TestSend_StopsOnCancel(t *testing.T) {
	out := make(chan Response)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, Send(ctx, out, Response{}))

	buffered := make(chan Response, 1)
	assert.True(t, Send(context.Background(), buffered, Response{ID: "r1"}))
	assert.Equal(t, "r1", (<-buffered).ID)
}

func TestDrain(t *testing.T) {
	respCh := make(chan Response)
	errCh := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(errCh)
		defer close(respCh)
		for i := 0; i < 5; i++ {
			respCh <- Response{}
		}
	}()

	Drain(respCh, errCh)
	<-done
}
