package mcp

import (
	"context"
	"fmt"

	"seg-mcp-server/internal/council"
	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/internal/logging"
	"seg-mcp-server/internal/persona"
	"seg-mcp-server/internal/render"
	"seg-mcp-server/internal/replicants"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
)

// Tool names
const (
	ToolGeneratePersona            = "generate_persona"
	ToolRunCouncilSession          = "run_council_session"
	ToolAnalyzeThroughLens         = "analyze_through_seg_lens"
	ToolCreateCustomReplicant      = "create_custom_replicant"
	ToolGetReplicantDetails        = "get_replicant_details"
	ToolFindReplicantsByFunction   = "find_replicants_by_function"
	ToolGetComplementaryReplicants = "get_complementary_replicants"
	ToolCreateBalancedCouncil      = "create_balanced_council"
)

const (
	defaultComplementCount = 3
	defaultCouncilSize     = 5
)

type toolDef struct {
	name        string
	description string
	schema      map[string]interface{}
	required    []string
	handle      func(ctx context.Context, args map[string]interface{}) (string, error)
}

func integerParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func enumParam(description string, values []string) map[string]interface{} {
	p := mcp.StringParam(description, false)
	p["enum"] = values
	return p
}

func (s *SEGServer) toolDefs() []toolDef {
	defs := []toolDef{
		{
			name:        ToolGeneratePersona,
			description: "Generate a complete SEG persona using the 6-component architecture",
			schema: map[string]interface{}{
				"name":                 mcp.StringParam("Persona name", true),
				"age":                  integerParam("Age in years"),
				"profession":           mcp.StringParam("Primary profession or role", true),
				"location":             mcp.StringParam("Geographic/cultural context", false),
				"defining_experience":  mcp.StringParam("Core emotional/formative experience", true),
				"domain_expertise":     mcp.StringParam("Area of specialized knowledge", false),
				"philosophical_stance": mcp.StringParam("Core worldview or belief system", false),
				"style_preferences":    mcp.StringParam("Communication style and linguistic preferences", false),
			},
			required: []string{"name", "profession", "defining_experience"},
			handle:   s.handleGeneratePersona,
		},
		{
			name:        ToolRunCouncilSession,
			description: "Orchestrate a multi-persona reasoning session using selected replicants",
			schema: map[string]interface{}{
				"premise":     mcp.StringParam("Core question or scenario to explore", true),
				"replicants":  mcp.ArraySchema("List of replicants to include (2-10 personas)", map[string]interface{}{"type": "string"}),
				"mode":        enumParam("Output format for the council session", council.Modes),
				"constraints": mcp.StringParam("Optional constraints or rules", false),
				"cycles": map[string]interface{}{
					"type":        "integer",
					"description": "Number of reasoning cycles (1-5)",
					"default":     council.DefaultCycles,
				},
			},
			required: []string{"premise", "replicants"},
			handle:   s.handleRunCouncilSession,
		},
		{
			name:        ToolAnalyzeThroughLens,
			description: "Analyze text or concepts through a specific SEG persona's experiential lens",
			schema: map[string]interface{}{
				"text":                 mcp.StringParam("Text or concept to analyze", true),
				"persona_or_replicant": mcp.StringParam("Persona name or replicant type", true),
				"analysis_focus":       mcp.StringParam("Specific aspect to focus on", false),
				"depth":                enumParam("Depth of experiential filtering", persona.DepthLevels()),
			},
			required: []string{"text", "persona_or_replicant"},
			handle:   s.handleAnalyzeThroughLens,
		},
		{
			name:        ToolCreateCustomReplicant,
			description: "Create a new replicant archetype for the SEG framework",
			schema: map[string]interface{}{
				"archetype_name":  mcp.StringParam("Name of the new archetype", true),
				"core_function":   mcp.StringParam("Primary cognitive/creative function", true),
				"anchor_identity": mcp.StringParam("Base identity and context", false),
				"sensory_web": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"visual":    map[string]interface{}{"type": "string"},
						"auditory":  map[string]interface{}{"type": "string"},
						"tactile":   map[string]interface{}{"type": "string"},
						"olfactory": map[string]interface{}{"type": "string"},
					},
				},
				"emotional_core":   mcp.StringParam("Defining emotional theme", false),
				"philosophy":       mcp.StringParam("Core beliefs and heuristics", false),
				"linguistic_style": mcp.StringParam("Speech patterns and tics", false),
				"directive":        mcp.StringParam("How to use this replicant", true),
			},
			required: []string{"archetype_name", "core_function", "directive"},
			handle:   s.handleCreateCustomReplicant,
		},
		{
			name:        ToolGetReplicantDetails,
			description: "Get detailed information about a specific replicant archetype",
			schema: map[string]interface{}{
				"replicant_name": enumParam("Name of the replicant to examine", s.catalog.Names()),
			},
			required: []string{"replicant_name"},
			handle:   s.handleGetReplicantDetails,
		},
		{
			name:        ToolFindReplicantsByFunction,
			description: "Find replicant archetypes whose core function, approach or subtitle mentions a cognitive function",
			schema: map[string]interface{}{
				"function": mcp.StringParam("Cognitive function to search for, e.g. 'synthesis' or 'constraint'", true),
			},
			required: []string{"function"},
			handle:   s.handleFindReplicantsByFunction,
		},
		{
			name:        ToolGetComplementaryReplicants,
			description: "List replicants that complement a base replicant in a council",
			schema: map[string]interface{}{
				"base_replicant": enumParam("Replicant to build around", s.catalog.Names()),
				"count": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of complements (1-3)",
					"default":     defaultComplementCount,
				},
			},
			required: []string{"base_replicant"},
			handle:   s.handleGetComplementaryReplicants,
		},
		{
			name:        ToolCreateBalancedCouncil,
			description: "Suggest a balanced set of replicants for a council of the given size",
			schema: map[string]interface{}{
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Number of council members (2-10)",
					"default":     defaultCouncilSize,
				},
			},
			handle: s.handleCreateBalancedCouncil,
		},
	}

	for i := range defs {
		defs[i].schema = mcp.ObjectSchema(defs[i].description, defs[i].schema, defs[i].required)
	}
	return defs
}

// ListTools returns tool descriptors in declaration order
func (s *SEGServer) ListTools() []protocol.Tool {
	out := make([]protocol.Tool, len(s.tools))
	for i, t := range s.tools {
		out[i] = mcp.NewTool(t.name, t.description, t.schema)
	}
	return out
}

func (s *SEGServer) findTool(name string) (toolDef, bool) {
	for _, t := range s.tools {
		if t.name == name {
			return t, true
		}
	}
	return toolDef{}, false
}

// CallTool runs a tool and returns its text result
func (s *SEGServer) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	t, ok := s.findTool(name)
	if !ok {
		return "", segerrors.NewNotFoundError("tool", name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := s.errors.ValidateRequiredParams(args, t.required); err != nil {
		return "", err
	}

	var text string
	err := logging.Timed(ctx, s.logger, "tool "+name, func() error {
		var err error
		text, err = t.handle(ctx, args)
		return err
	})
	return text, err
}

func (s *SEGServer) handleGeneratePersona(ctx context.Context, args map[string]interface{}) (string, error) {
	var req persona.Request
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	p, err := s.generator.GeneratePersona(ctx, req)
	if err != nil {
		return "", err
	}
	return render.JSON(p)
}

func (s *SEGServer) handleRunCouncilSession(ctx context.Context, args map[string]interface{}) (string, error) {
	var req council.Request
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	return s.council.RunSession(ctx, req)
}

func (s *SEGServer) handleAnalyzeThroughLens(ctx context.Context, args map[string]interface{}) (string, error) {
	var req persona.LensRequest
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	return s.generator.AnalyzeThroughLens(ctx, req)
}

func (s *SEGServer) handleCreateCustomReplicant(_ context.Context, args map[string]interface{}) (string, error) {
	var req persona.CustomRequest
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	r, err := persona.CreateCustomReplicant(req)
	if err != nil {
		return "", err
	}
	return render.JSON(r)
}

func (s *SEGServer) handleGetReplicantDetails(_ context.Context, args map[string]interface{}) (string, error) {
	var req struct {
		Name string `mapstructure:"replicant_name"`
	}
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	a, ok := s.catalog.Get(req.Name)
	if !ok {
		return fmt.Sprintf("Replicant '%s' not found", req.Name), nil
	}
	return render.JSON(a)
}

func (s *SEGServer) handleFindReplicantsByFunction(_ context.Context, args map[string]interface{}) (string, error) {
	var req struct {
		Function string `mapstructure:"function"`
	}
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	matches := s.catalog.ByFunction(req.Function)

	var out render.Object
	out.Set("function", req.Function)
	out.Set("replicants", matches)
	out.Set("count", len(matches))
	return render.JSON(out)
}

func (s *SEGServer) handleGetComplementaryReplicants(_ context.Context, args map[string]interface{}) (string, error) {
	var req struct {
		Base  string `mapstructure:"base_replicant"`
		Count *int   `mapstructure:"count"`
	}
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	count := defaultComplementCount
	if req.Count != nil {
		count = *req.Count
	}
	complements := s.catalog.Complementary(req.Base, count)

	var out render.Object
	out.Set("base_replicant", req.Base)
	out.Set("complements", complements)
	out.Set("count", len(complements))
	return render.JSON(out)
}

func (s *SEGServer) handleCreateBalancedCouncil(_ context.Context, args map[string]interface{}) (string, error) {
	var req struct {
		Size *int `mapstructure:"size"`
	}
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	size := defaultCouncilSize
	if req.Size != nil {
		size = *req.Size
	}
	members := replicants.BalancedCouncil(size)

	var out render.Object
	out.Set("size", size)
	out.Set("replicants", members)
	out.Set("count", len(members))
	return render.JSON(out)
}
