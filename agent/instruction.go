package agent

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentctx/core"
)

// Provider computes instruction text for a run.
type Provider interface {
	Instruction(*core.RunContext) (string, error)
}

// Func lets a plain function act as a Provider.
type Func func(*core.RunContext) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(rc *core.RunContext) (string, error) { return f(rc) }

// Instruction is the system prompt of an agent: static text or a Provider.
// Static text may use template markers that are rendered against the session
// state before each model call.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(*core.RunContext) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// JoinInstructions resolves parts in order and joins the non-empty results
// with a blank line.
func JoinInstructions(parts ...Instruction) Instruction {
	return NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		texts := make([]string, 0, len(parts))
		for i, p := range parts {
			text, err := p.Resolve(rc)
			if err != nil {
				return "", fmt.Errorf("instruction part %d: %w", i, err)
			}
			if text != "" {
				texts = append(texts, text)
			}
		}
		return strings.Join(texts, "\n\n"), nil
	})
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(rc *core.RunContext) (string, error) {
	if i.provider == nil {
		return i.text, nil
	}
	return i.provider.Instruction(rc)
}
