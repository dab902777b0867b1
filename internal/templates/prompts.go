package templates

import (
	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/pkg/types"
)

// Prompt names
const (
	PromptPersonaCreation      = "seg_persona_creation"
	PromptCouncilProtocol      = "council_protocol"
	PromptExperientialAnalysis = "experiential_analysis"
)

// PromptArgument describes one prompt argument. Missing or empty values take
// Default.
type PromptArgument struct {
	Name        string
	Description string
	Required    bool
	Default     string
}

// PromptSpec describes one prompt as advertised by prompts/list
type PromptSpec struct {
	Name        string
	Description string
	Arguments   []PromptArgument
}

var promptSpecs = []PromptSpec{
	{
		Name:        PromptPersonaCreation,
		Description: "Template for creating SEG personas with 6-component architecture",
		Arguments: []PromptArgument{
			{Name: "domain", Description: "Domain of expertise or context", Required: true, Default: "general"},
			{Name: "complexity", Description: "Complexity level (simple/moderate/complex)", Default: "moderate"},
		},
	},
	{
		Name:        PromptCouncilProtocol,
		Description: "Template for conducting multi-persona council sessions",
		Arguments: []PromptArgument{
			{Name: "session_type", Description: "Type of council session (exploration/synthesis/action/aesthetic)", Required: true, Default: "exploration"},
			{Name: "participant_count", Description: "Number of participants (2-10)", Default: "5"},
		},
	},
	{
		Name:        PromptExperientialAnalysis,
		Description: "Template for analyzing concepts through experiential grounding",
		Arguments: []PromptArgument{
			{Name: "analysis_type", Description: "Type of analysis (philosophical/practical/creative)", Required: true, Default: "philosophical"},
		},
	},
}

// Prompts returns the prompt specs in listing order
func (l *Library) Prompts() []PromptSpec {
	out := make([]PromptSpec, len(promptSpecs))
	copy(out, promptSpecs)
	return out
}

// RenderPrompt renders a prompt by name. Unknown names yield a not-found
// error.
func (l *Library) RenderPrompt(name string, args map[string]string) (*types.PromptResult, error) {
	spec, ok := findPrompt(name)
	if !ok {
		return nil, segerrors.NewNotFoundError("prompt", name)
	}
	resolved := resolveArgs(spec, args)

	switch name {
	case PromptPersonaCreation:
		text, err := l.execute("persona_creation.md.tmpl", map[string]string{
			"Domain":     resolved["domain"],
			"Complexity": resolved["complexity"],
		})
		if err != nil {
			return nil, err
		}
		return types.NewUserPrompt(
			"SEG persona creation template for "+resolved["domain"]+" domain", text), nil

	case PromptCouncilProtocol:
		text, err := l.execute("council_protocol.md.tmpl", map[string]string{
			"SessionType":      resolved["session_type"],
			"ParticipantCount": resolved["participant_count"],
		})
		if err != nil {
			return nil, err
		}
		return types.NewUserPrompt(
			"Council protocol for "+resolved["session_type"]+" sessions with "+resolved["participant_count"]+" participants", text), nil

	default:
		text, err := l.execute("experiential_analysis.md.tmpl", map[string]string{
			"AnalysisType": resolved["analysis_type"],
		})
		if err != nil {
			return nil, err
		}
		return types.NewUserPrompt(
			"Experiential analysis template for "+resolved["analysis_type"]+" approach", text), nil
	}
}

func findPrompt(name string) (PromptSpec, bool) {
	for _, spec := range promptSpecs {
		if spec.Name == name {
			return spec, true
		}
	}
	return PromptSpec{}, false
}

func resolveArgs(spec PromptSpec, args map[string]string) map[string]string {
	resolved := make(map[string]string, len(spec.Arguments))
	for _, arg := range spec.Arguments {
		value := args[arg.Name]
		if value == "" {
			value = arg.Default
		}
		resolved[arg.Name] = value
	}
	return resolved
}
