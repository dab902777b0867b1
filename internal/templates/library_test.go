package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestRenderPrompt_Golden(t *testing.T) {
	tests := []struct {
		name        string
		prompt      string
		args        map[string]string
		golden      string
		description string
	}{
		{
			name:        "persona creation",
			prompt:      PromptPersonaCreation,
			args:        map[string]string{"domain": "medicine", "complexity": "complex"},
			golden:      "persona_creation_medicine.golden",
			description: "SEG persona creation template for medicine domain",
		},
		{
			name:        "council protocol title-cases session type",
			prompt:      PromptCouncilProtocol,
			args:        map[string]string{"session_type": "braided_report", "participant_count": "3"},
			golden:      "council_protocol_braided.golden",
			description: "Council protocol for braided_report sessions with 3 participants",
		},
		{
			name:        "experiential analysis defaults",
			prompt:      PromptExperientialAnalysis,
			args:        nil,
			golden:      "experiential_analysis_default.golden",
			description: "Experiential analysis template for philosophical approach",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Default().RenderPrompt(tt.prompt, tt.args)
			require.NoError(t, err)

			assert.Equal(t, tt.description, result.Description)
			require.Len(t, result.Messages, 1)
			assert.Equal(t, "user", result.Messages[0].Role)
			assert.Equal(t, "text", result.Messages[0].Content.Type)
			assert.Equal(t, readGolden(t, tt.golden), result.Messages[0].Content.Text)
		})
	}
}

func TestRenderPrompt_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		args     map[string]string
		contains []string
	}{
		{
			name:     "persona creation",
			prompt:   PromptPersonaCreation,
			args:     map[string]string{"domain": ""},
			contains: []string{"## Target Domain: general", "## Complexity Level: moderate", "create a moderate persona for general contexts"},
		},
		{
			name:     "council protocol",
			prompt:   PromptCouncilProtocol,
			args:     map[string]string{},
			contains: []string{"## Session Type: Exploration", "## Participants: 5 personas", "Begin the exploration council session."},
		},
		{
			name:     "experiential analysis custom type",
			prompt:   PromptExperientialAnalysis,
			args:     map[string]string{"analysis_type": "creative"},
			contains: []string{"## Analysis Type: Creative", "Apply creative experiential analysis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Default().RenderPrompt(tt.prompt, tt.args)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, result.Messages[0].Content.Text, want)
			}
		})
	}
}

func TestRenderPrompt_Unknown(t *testing.T) {
	_, err := Default().RenderPrompt("sonnet_generator", nil)
	require.Error(t, err)
	assert.True(t, segerrors.IsNotFound(err))
	assert.Equal(t, "Unknown prompt: sonnet_generator", err.Error())
}

func TestPrompts(t *testing.T) {
	specs := Default().Prompts()
	require.Len(t, specs, 3)
	assert.Equal(t, PromptPersonaCreation, specs[0].Name)
	assert.Equal(t, PromptCouncilProtocol, specs[1].Name)
	assert.Equal(t, PromptExperientialAnalysis, specs[2].Name)

	for _, spec := range specs {
		require.NotEmpty(t, spec.Arguments)
		assert.True(t, spec.Arguments[0].Required, spec.Name)
		for _, arg := range spec.Arguments {
			assert.NotEmpty(t, arg.Default, "%s.%s", spec.Name, arg.Name)
		}
	}
}

func TestCouncilTemplates(t *testing.T) {
	council := Default().CouncilTemplates()
	assert.Equal(t, []string{"council_protocols", "ensemble_combinations"}, council.Keys())

	protocols, _ := council.Get("council_protocols")
	assert.Equal(t, []string{"exploration", "synthesis", "action", "aesthetic"}, protocols.(render.Object).Keys())

	exploration, _ := protocols.(render.Object).Get("exploration")
	participants, _ := exploration.(render.Object).Get("ideal_participants")
	assert.Equal(t, "4-6", participants)

	out, err := render.JSON(council)
	require.NoError(t, err)
	assert.Contains(t, out, `"structure": "seeding -> initial_responses -> cross_fertilization -> emergent_synthesis"`)
}

func TestEnsembles(t *testing.T) {
	lib := Default()
	assert.Equal(t, []string{
		"chaos_quartet", "rational_triangle", "creative_forge",
		"wisdom_council", "innovation_lab", "full_spectrum",
	}, lib.EnsembleNames())

	triangle, ok := lib.Ensemble("rational_triangle")
	require.True(t, ok)
	assert.Equal(t, []string{"Bayesian Sage", "Rational Dreamer", "Essentia Distiller"}, triangle)

	_, ok = lib.Ensemble("jazz_band")
	assert.False(t, ok)
}

func TestPromptAndHistoricalTemplates(t *testing.T) {
	lib := Default()

	prompts := lib.PromptTemplates()
	assert.Equal(t, []string{"persona_creation", "council_session", "experiential_analysis"}, prompts.Keys())
	persona, _ := prompts.Get("persona_creation")
	basic, _ := persona.(render.Object).Get("basic")
	assert.True(t, strings.HasPrefix(basic.(string), "\n# SEG Persona Creation - Basic Template\n"))

	historical := lib.HistoricalTemplates()
	assert.Equal(t, []string{"simone_weil", "doris_lessing", "emily_dickinson"}, historical.Keys())
	dickinson, _ := historical.Get("emily_dickinson")
	framework, _ := dickinson.(render.Object).Get("response_framework")
	assert.Equal(t, "Respond with the intensity of one who has found universes in dewdrops", framework)
}

func TestFrameworkComponents(t *testing.T) {
	doc := Default().FrameworkComponents()
	assert.True(t, strings.HasPrefix(doc, "# SEG Framework: 6-Component Persona Architecture\n"))
	for _, heading := range []string{
		"## 1. The Anchor", "## 2. The Sensory Web", "## 3. The Emotional Core",
		"## 4. The Personal Philosophy", "## 5. The Linguistic Tics", "## 6. The Directive",
	} {
		assert.Contains(t, doc, heading)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"exploration", "Exploration"},
		{"braided_report", "Braided_Report"},
		{"STRATEGIC", "Strategic"},
		{"deep dive", "Deep Dive"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.in))
		})
	}
}
