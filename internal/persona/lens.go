package persona

import (
	"context"
	"fmt"

	segerrors "seg-mcp-server/internal/errors"
)

const (
	DefaultDepth = "moderate"
	defaultFocus = "General perspective"
)

const lensTemplate = `# SEG Lens Analysis

## Analyzing through: %s
## Analysis Depth: %s - %s
## Focus: %s

### Source Text:
%s

### Analysis:
[This would be processed through the specific persona's experiential framework,
applying their sensory web, emotional core, and philosophical lens to provide
a unique perspective on the text that emerges from their 'lived experience'
rather than generic analysis.]

### Key Insights:
- Perspective: %s
- Unique angle: Based on this persona's specific experiential grounding
- Emergent connections: Links to persona's domain expertise and emotional history

Note: In a full implementation, this would involve complex natural language
processing to actually apply the persona's full experiential framework to
generate authentic perspective-filtered analysis.
`

// LensRequest carries analyze_through_seg_lens arguments
type LensRequest struct {
	Text               string `mapstructure:"text"`
	PersonaOrReplicant string `mapstructure:"persona_or_replicant"`
	AnalysisFocus      string `mapstructure:"analysis_focus"`
	Depth              string `mapstructure:"depth"`
}

// AnalyzeThroughLens frames text for analysis by a replicant or a generated
// persona. Replicants shadow personas of the same name. An unknown lens is
// reported in the returned text, not as an error.
func (g *Generator) AnalyzeThroughLens(ctx context.Context, req LensRequest) (string, error) {
	var lens, perspective string
	if a, ok := g.catalog.Get(req.PersonaOrReplicant); ok {
		lens = "Replicant: " + req.PersonaOrReplicant
		perspective = a.Perspective
		if perspective == "" {
			perspective = "Unknown perspective"
		}
	} else {
		p, err := g.Persona(ctx, req.PersonaOrReplicant)
		switch {
		case segerrors.IsNotFound(err):
			return "Unknown persona or replicant: " + req.PersonaOrReplicant, nil
		case err != nil:
			return "", err
		}
		lens = "Persona: " + p.Name
		perspective = p.Directive
	}

	depth := req.Depth
	if depth == "" {
		depth = DefaultDepth
	}
	depthText, ok := depthDescription(depth)
	if !ok {
		return "", segerrors.NewInvalidValueError("depth", depth, DepthLevels())
	}

	focus := req.AnalysisFocus
	if focus == "" {
		focus = defaultFocus
	}

	return fmt.Sprintf(lensTemplate, lens, depth, depthText, focus, req.Text, perspective), nil
}
