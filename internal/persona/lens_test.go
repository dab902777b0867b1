package persona

import (
	"context"
	"testing"

	segerrors "seg-mcp-server/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeThroughLens_Replicant(t *testing.T) {
	g := newTestGenerator()

	out, err := g.AnalyzeThroughLens(context.Background(), LensRequest{
		Text:               "Markets are efficient.",
		PersonaOrReplicant: "Bayesian Sage",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "# SEG Lens Analysis\n\n## Analyzing through: Replicant: Bayesian Sage\n")
	assert.Contains(t, out, "## Analysis Depth: moderate - Full experiential processing with context\n")
	assert.Contains(t, out, "## Focus: General perspective\n")
	assert.Contains(t, out, "### Source Text:\nMarkets are efficient.\n")
	assert.Contains(t, out, "- Perspective: Contemplative rationalist who finds peace in probability rather than certainty\n")
	assert.True(t, len(out) > 0 && out[len(out)-1] == '\n')
}

func TestAnalyzeThroughLens_Persona(t *testing.T) {
	g := newTestGenerator()
	ctx := context.Background()

	p, err := g.GeneratePersona(ctx, Request{Name: "Ines", Age: intPtr(50), Profession: "Chef", DefiningExperience: "x"})
	require.NoError(t, err)

	out, err := g.AnalyzeThroughLens(ctx, LensRequest{
		Text:               "A recipe.",
		PersonaOrReplicant: "Ines",
		AnalysisFocus:      "texture",
		Depth:              "deep",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "## Analyzing through: Persona: Ines\n")
	assert.Contains(t, out, "## Analysis Depth: deep - Immersive perspective with emergent insights\n")
	assert.Contains(t, out, "## Focus: texture\n")
	assert.Contains(t, out, "- Perspective: "+p.Directive+"\n")
}

func TestAnalyzeThroughLens_Errors(t *testing.T) {
	g := newTestGenerator()
	ctx := context.Background()

	t.Run("unknown lens is text", func(t *testing.T) {
		out, err := g.AnalyzeThroughLens(ctx, LensRequest{Text: "t", PersonaOrReplicant: "Ghost", Depth: "bogus"})
		require.NoError(t, err)
		assert.Equal(t, "Unknown persona or replicant: Ghost", out)
	})

	t.Run("invalid depth", func(t *testing.T) {
		_, err := g.AnalyzeThroughLens(ctx, LensRequest{Text: "t", PersonaOrReplicant: "Bayesian Sage", Depth: "bottomless"})
		require.Error(t, err)
		se, ok := segerrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, segerrors.ErrorCodeInvalidValue, se.ErrorInfo.Code)
	})

	t.Run("empty text still renders", func(t *testing.T) {
		out, err := g.AnalyzeThroughLens(ctx, LensRequest{Text: "", PersonaOrReplicant: "Bayesian Sage"})
		require.NoError(t, err)
		assert.Contains(t, out, "### Source Text:\n\n\n### Analysis:")
	})

	t.Run("empty lens name is unknown", func(t *testing.T) {
		out, err := g.AnalyzeThroughLens(ctx, LensRequest{Text: "t"})
		require.NoError(t, err)
		assert.Equal(t, "Unknown persona or replicant: ", out)
	})
}

func TestDepthLevels(t *testing.T) {
	assert.Equal(t, []string{"surface", "moderate", "deep"}, DepthLevels())
}
