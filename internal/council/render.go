package council

import (
	"fmt"
	"strings"

	"seg-mcp-server/internal/templates"
	"seg-mcp-server/pkg/types"
)

var synthesisSections = map[string]string{
	"dialogic": `### 💬 Dialogic Synthesis
The conversation continues with natural back-and-forth, allowing perspectives to evolve and merge organically.

`,
	"braided_report": `### 📝 Braided Report Synthesis
**Emerging Themes:**
1. **Primary Pattern**: How multiple perspectives reveal hidden dimensions
2. **Secondary Pattern**: The value of diverse experiential lenses
3. **Tertiary Pattern**: Synthesis opportunities between viewpoints

`,
	"strategic": `### 📋 Strategic Synthesis
**Recommended Actions:**
1. Implement multi-perspective analysis as standard practice
2. Create frameworks for systematic viewpoint integration
3. Develop methods for leveraging diverse experiential grounding

`,
	"aesthetic": `### 🎨 Aesthetic Synthesis
*The council's exploration transforms into artistic expression, capturing the essence of multiple perspectives converging into new understanding...*

`,
}

// crossResponders caps how many participants answer their neighbour
const crossResponders = 3

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func renderSession(s *types.CouncilSession, participants []types.Archetype) string {
	var b strings.Builder

	constraints := orDefault(s.Constraints, "None")

	fmt.Fprintf(&b, `# SEG Council Session: %s

## Session Configuration
- **Premise**: %s
- **Mode**: %s
- **Cycles**: %d
- **Constraints**: %s

## Participants
`, s.ID, s.Premise, templates.Title(s.Mode), s.Cycles, constraints)

	descriptions := make([]string, len(participants))
	for i, p := range participants {
		descriptions[i] = fmt.Sprintf("- **%s**: %s", p.Name, orDefault(p.Description, "SEG Replicant"))
	}
	b.WriteString(strings.Join(descriptions, "\n"))

	fmt.Fprintf(&b, `

## Session Flow

### 🎯 Premise Introduction
The council convenes to explore: "%s"

### 🔄 Cycle 1: Initial Perspectives

`, s.Premise)

	for _, p := range participants {
		fmt.Fprintf(&b, `**%s** responds:
*[Drawing from %s]*

"From my perspective as %s, I see this premise through the lens of %s. The key insight I bring is how %s reveals aspects others might miss."

`, p.Name,
			orDefault(p.Perspective, "their unique perspective"),
			orDefault(p.Role, "a creative operator"),
			orDefault(p.CoreFunction, "specialized analysis"),
			orDefault(p.Approach, "my approach"))
	}

	b.WriteString(`### 🌀 Cross-Response Phase

The participants now respond to each other's initial perspectives:

`)

	n := len(participants)
	for i := 0; i < min(crossResponders, n); i++ {
		fmt.Fprintf(&b, `**%s** responds to **%s**:
"I find your perspective intriguing, particularly how it complements my approach. Where I see [aspect A], you reveal [aspect B]."

`, participants[i].Name, participants[(i+1)%n].Name)
	}

	b.WriteString(synthesisSections[s.Mode])

	fmt.Fprintf(&b, `### 🎭 Session Closure
**Primary Insights:** The council session revealed the value of %s integration of diverse experiential perspectives.

**Emergent Understanding:** %s benefits significantly from multi-lens analysis.

**Meta-Reflection:** This session demonstrates how SEG replicants can collaborate to generate insights that no single perspective could achieve alone.

---
*Session completed with %d participants across %d cycles.*
`, s.Mode, s.Premise, n, s.Cycles)

	return b.String()
}
