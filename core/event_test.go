package core

import (
	"errors"
	"testing"
)

func TestEvent_ConstructorsAndMethods(t *testing.T) {
	e := NewEvent("run-123", "authorA")
	if e.Author != "authorA" || e.RunID != "run-123" || e.ID == "" || e.Timestamp.IsZero() {
		t.Fatalf("NewEvent did not initialize fields correctly: %+v", e)
	}

	msg := NewMessageEvent("agent1", "hello world")
	if msg.Content == nil || msg.Content.Role != RoleAssistant || msg.Content.Text() != "hello world" {
		t.Fatalf("NewMessageEvent malformed: %+v", msg)
	}

	user := NewUserMessageEvent("run-1", "hi")
	if user.Content == nil || user.Content.Role != RoleUser || user.Author != RoleUser {
		t.Fatalf("NewUserMessageEvent malformed: %+v", user)
	}

	ok := NewFunctionResponseEvent("run-1", "agent2", "call-1", "do_stuff", 42, nil)
	resps := ok.GetFunctionResponses()
	if len(resps) != 1 || resps[0].Response.(int) != 42 || resps[0].Error != "" {
		t.Fatalf("function response success extraction failed: %+v", resps)
	}

	failed := NewFunctionResponseEvent("run-1", "agent2", "call-2", "do_stuff", nil, errors.New("boom"))
	if resps = failed.GetFunctionResponses(); resps[0].Error != "boom" {
		t.Fatalf("expected error message in function response: %+v", resps[0])
	}

	errEv := NewErrorEvent("run-1", errors.New("bad"))
	if !errEv.IsError() || *errEv.ErrorMessage != "bad" {
		t.Fatalf("NewErrorEvent malformed: %+v", errEv)
	}
}

func TestEvent_IsFinalResponse(t *testing.T) {
	if !NewMessageEvent("a", "done").IsFinalResponse() {
		t.Error("plain message should be final")
	}

	partial := true
	e := NewMessageEvent("a", "par")
	e.Partial = &partial
	if e.IsFinalResponse() {
		t.Error("partial event should not be final")
	}

	call := NewEvent("run", "a")
	call.Content = &Content{Role: RoleAssistant, Parts: []Part{FunctionCallPart{FunctionCall: FunctionCall{Name: "f"}}}}
	if call.IsFinalResponse() {
		t.Error("event with function call should not be final")
	}
	if calls := call.GetFunctionCalls(); len(calls) != 1 || calls[0].Name != "f" {
		t.Errorf("unexpected calls: %+v", calls)
	}

	if NewFunctionResponseEvent("run", "a", "id", "f", "ok", nil).IsFinalResponse() {
		t.Error("function response should not be final")
	}
}

func TestContent_Text(t *testing.T) {
	c := Content{Role: RoleAssistant, Parts: []Part{
		TextPart{Text: "a"},
		FunctionCallPart{FunctionCall: FunctionCall{Name: "x"}},
		TextPart{Text: "b"},
	}}
	if got := c.Text(); got != "ab" {
		t.Errorf("Text() = %q, want %q", got, "ab")
	}
}

func TestModelLimiter(t *testing.T) {
	l := NewModelLimiter(2)
	if err := l.Increment(); err != nil {
		t.Fatal(err)
	}
	if err := l.Increment(); err != nil {
		t.Fatal(err)
	}
	if l.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", l.Remaining())
	}
	if err := l.Increment(); !errors.Is(err, ErrModelCallLimit) {
		t.Errorf("expected ErrModelCallLimit, got %v", err)
	}
	if NewModelLimiter(0).Remaining() != -1 {
		t.Error("unlimited limiter should report -1")
	}
}
