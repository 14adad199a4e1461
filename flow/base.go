package flow

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/model"
)

// ErrNoRequest is returned when a prompt constructor yields no request.
var ErrNoRequest = errors.New("prompt constructor returned no request")

// Options configures a BaseFlow.
type Options struct {
	// Executor runs the tool calls of a model turn. Defaults to a
	// SequentialFunctionExecutor.
	Executor FunctionExecutor
}

// BaseFlow is a minimal single‑agent flow implementation that supports a
// request -> LLM -> (optional tool loop) cycle with pluggable pre/post processors.
type BaseFlow struct {
	agent              FlowAgent
	executor           FunctionExecutor
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
}

// NewBaseFlow creates a new basic single-agent flow.
func NewBaseFlow(agent FlowAgent, optFns ...func(o *Options)) *BaseFlow {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Executor == nil {
		opts.Executor = NewSequentialFunctionExecutor(FunctionExecutorConfig{})
	}

	return &BaseFlow{
		agent:              agent,
		executor:           opts.Executor,
		requestProcessors:  []RequestProcessor{},
		responseProcessors: []ResponseProcessor{},
	}
}

// AddRequestProcessor appends a request processor; order of registration defines execution order.
func (f *BaseFlow) AddRequestProcessor(processor RequestProcessor) {
	f.requestProcessors = append(f.requestProcessors, processor)
}

// AddResponseProcessor appends a response processor executed after each model chunk.
func (f *BaseFlow) AddResponseProcessor(processor ResponseProcessor) {
	f.responseProcessors = append(f.responseProcessors, processor)
}

// Run executes model turns until a final response is emitted or an error
// occurs. Errors are emitted as error events and returned.
func (f *BaseFlow) Run(runCtx *core.RunContext) error {
	for {
		last, err := f.runOnce(runCtx)
		if err != nil {
			if emitErr := runCtx.EmitEvent(core.NewErrorEvent(runCtx.RunID, err)); emitErr != nil {
				runCtx.LogWarn("agent.flow.emit_error_failed", "error", emitErr.Error())
			}
			return err
		}

		if last == nil {
			return nil
		}

		// Tool responses need another model turn.
		if len(last.GetFunctionResponses()) > 0 {
			continue
		}

		if last.IsPartial() {
			runCtx.LogWarn("agent.flow.partial_tail", "agent", f.agent.GetName())
			return nil
		}

		if last.IsFinalResponse() {
			return nil
		}
	}
}

// BuildRequest runs the request processors and the agent's prompt
// constructor, then attaches tool definitions.
func (f *BaseFlow) BuildRequest(runCtx *core.RunContext) (*model.Request, error) {
	params := &PromptParams{}

	for _, processor := range f.requestProcessors {
		if err := processor.ProcessRequest(runCtx, params, f.agent); err != nil {
			return nil, fmt.Errorf("request processor %s failed: %w", processor.Name(), err)
		}
	}

	pc := f.agent.PromptConstructor()
	if pc == nil {
		pc = BasePromptConstructor{}
	}

	req, err := pc.ConstructPrompt(runCtx, params)
	if err != nil {
		return nil, fmt.Errorf("construct prompt: %w", err)
	}

	if req == nil {
		return nil, ErrNoRequest
	}

	if tools := f.agent.GetTools(); len(tools) > 0 {
		defs := make([]model.ToolDefinition, 0, len(tools))
		for _, t := range tools {
			defs = append(defs, model.ToolDefinition{
				Type: "function",
				Function: model.FunctionDefinition{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.Parameters(),
				},
			})
		}

		sort.Slice(defs, func(i, j int) bool { return defs[i].Function.Name < defs[j].Function.Name })

		req.Tools = defs
	}

	req.Stream = f.agent.IsStreamingEnabled()

	return req, nil
}

// runOnce performs one model turn (including any tool executions) and returns
// the last emitted Event. A nil event means the model produced nothing.
func (f *BaseFlow) runOnce(runCtx *core.RunContext) (*core.Event, error) {
	req, err := f.BuildRequest(runCtx)
	if err != nil {
		return nil, err
	}

	if runCtx.Limiter != nil {
		if err := runCtx.Limiter.Increment(); err != nil {
			return nil, err
		}
	}

	respCh, errCh := f.agent.GetLLM().Generate(runCtx.Context, *req)

	// Early returns leave the model goroutine mid-stream.
	consumed := false
	defer func() {
		if !consumed {
			go model.Drain(respCh, errCh)
		}
	}()

	var lastEvent *core.Event

	for resp := range respCh {
		for _, processor := range f.responseProcessors {
			if err := processor.ProcessResponse(runCtx, &resp, f.agent); err != nil {
				return nil, fmt.Errorf("response processor %s failed: %w", processor.Name(), err)
			}
		}

		ev := core.NewEvent(runCtx.RunID, f.agent.GetName())
		content := resp.Content
		partial := resp.Partial
		ev.Content = &content
		ev.Partial = &partial

		// A final assistant message without pending tool calls completes the turn.
		if !resp.Partial && len(ev.GetFunctionCalls()) == 0 {
			complete := true
			ev.TurnComplete = &complete
		}

		lastEvent = &ev

		if err := runCtx.EmitEvent(ev); err != nil {
			return lastEvent, err
		}

		if fnCalls := ev.GetFunctionCalls(); len(fnCalls) > 0 && !ev.IsPartial() {
			f.executor.Execute(runCtx, f.agent, f.agent.GetTools(), fnCalls, func(respEv core.Event) error {
				lastEvent = &respEv
				return runCtx.EmitEvent(respEv)
			})

			if err := runCtx.Err(); err != nil {
				return lastEvent, err
			}
		}
	}

	consumed = true

	if err, ok := <-errCh; ok && err != nil {
		return lastEvent, fmt.Errorf("model %s: %w", f.agent.GetLLM().Info().Name, err)
	}

	return lastEvent, nil
}
