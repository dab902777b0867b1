package mcp

import (
	"context"

	"seg-mcp-server/pkg/types"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
)

// ListPrompts returns prompt descriptors in declaration order
func (s *SEGServer) ListPrompts() []protocol.Prompt {
	specs := s.library.Prompts()
	out := make([]protocol.Prompt, len(specs))
	for i, spec := range specs {
		args := make([]protocol.PromptArgument, len(spec.Arguments))
		for j, a := range spec.Arguments {
			args[j] = mcp.NewPromptArgument(a.Name, a.Description, a.Required)
		}
		out[i] = mcp.NewPrompt(spec.Name, spec.Description, args)
	}
	return out
}

// GetPrompt renders a prompt. Non-string arguments are formatted as text.
func (s *SEGServer) GetPrompt(_ context.Context, name string, args map[string]interface{}) (*types.PromptResult, error) {
	return s.library.RenderPrompt(name, stringArgs(args))
}
