package persona

import (
	"context"
	"testing"
	"time"

	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time {
	return time.Date(2025, time.January, 9, 14, 30, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func newTestGenerator() *Generator {
	return NewGenerator(WithClock(fixedClock), WithSeed(42))
}

func TestGeneratePersona_DerivedComponents(t *testing.T) {
	g := newTestGenerator()
	ctx := context.Background()

	p, err := g.GeneratePersona(ctx, Request{
		Name:               "Dr. Elena Vasquez",
		Age:                intPtr(47),
		Profession:         "Research Scientist",
		DefiningExperience: "The discovery of a contaminated sample that overturned a decade of work",
	})
	require.NoError(t, err)

	assert.Equal(t, "Dr. Elena Vasquez", p.Name)
	assert.Equal(t, types.AnchorIdentity{
		Age:             47,
		Profession:      "Research Scientist",
		Location:        "University research campus",
		DomainExpertise: "Research Scientist",
	}, p.AnchorIdentity)
	assert.Equal(t, "Laboratory equipment, data visualizations, microscope slides", p.SensoryWeb.Visual)
	assert.Equal(t, "Wonder and curiosity", p.EmotionalCore.CoreEmotion)
	assert.Equal(t, defaultCoreBelief, p.PersonalPhilosophy.CoreBelief)
	assert.Equal(t, speechMiddle, p.LinguisticTics.SpeechPattern)
	// "research" is the first word, so no metaphor match
	assert.Equal(t, defaultMetaphor, p.LinguisticTics.MetaphorPreference)
	assert.Equal(t, signaturePhrases, p.LinguisticTics.SignaturePhrases)
	assert.Equal(t, "2025-01-09", p.CreationTimestamp)
	assert.Equal(t, "1.1", p.Version)
	assert.Equal(t, "Filter all responses through the lens of Research Scientist expertise in Research Scientist.\n"+
		"Draw on sensory memories and emotional understanding rather than abstract knowledge.\n"+
		"Maintain consistency with personal philosophy and life experience.\n"+
		"Respond as this specific individual would, not as a generic expert.", p.Directive)
}

func TestGeneratePersona_ExplicitValuesWin(t *testing.T) {
	g := newTestGenerator()

	p, err := g.GeneratePersona(context.Background(), Request{
		Name:                "Mara",
		Age:                 intPtr(30),
		Profession:          "writer of essays",
		Location:            "Lisbon",
		DefiningExperience:  "A long struggle with a loss of hearing",
		DomainExpertise:     "Medicine and narrative",
		PhilosophicalStance: "Listen before you speak",
		StylePreferences:    "Spare and lyrical",
	})
	require.NoError(t, err)

	assert.Equal(t, "Lisbon", p.AnchorIdentity.Location)
	assert.Equal(t, "Medicine and narrative", p.AnchorIdentity.DomainExpertise)
	assert.Equal(t, "Listen before you speak", p.PersonalPhilosophy.CoreBelief)
	assert.Equal(t, "Spare and lyrical", p.LinguisticTics.SpeechPattern)
	assert.Equal(t, "Narrative and storytelling", p.LinguisticTics.MetaphorPreference)
	assert.Equal(t, "Coffee brewing, old books, ink on paper", p.SensoryWeb.Olfactory)
	// "loss" is checked before "struggle"
	assert.Equal(t, "Melancholic wisdom", p.EmotionalCore.CoreEmotion)
}

func TestGeneratePersona_Tables(t *testing.T) {
	tests := []struct {
		name         string
		profession   string
		domain       string
		age          int
		wantLocation string
		wantBelief   string
		wantSpeech   string
	}{
		{"doctor", "Family Doctor", "medicine", 60, "Medical district", domainBeliefs["medicine"], speechMature},
		{"chef", "Pastry Chef", "art of baking", 24, "Culinary district", domainBeliefs["art"], speechYoung},
		{"engineer before planner", "Engineer and planner", "technology", 34, "Tech hub city", domainBeliefs["technology"], speechYoung},
		{"fallback", "Diplomat", "international relations", 55, defaultLocation, defaultCoreBelief, speechMature},
		{"teacher", "Teacher", "Education policy", 35, "Small college town", domainBeliefs["education"], speechMiddle},
	}

	g := newTestGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := g.GeneratePersona(context.Background(), Request{
				Name:               tt.name,
				Age:                intPtr(tt.age),
				Profession:         tt.profession,
				DefiningExperience: "An ordinary day",
				DomainExpertise:    tt.domain,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLocation, p.AnchorIdentity.Location)
			assert.Equal(t, tt.wantBelief, p.PersonalPhilosophy.CoreBelief)
			assert.Equal(t, tt.wantSpeech, p.LinguisticTics.SpeechPattern)
			assert.Equal(t, defaultSensoryWeb, p.SensoryWeb)
			assert.Equal(t, defaultEmotionalCore, p.EmotionalCore)
		})
	}
}

func TestGeneratePersona_RandomAgeInRange(t *testing.T) {
	g := NewGenerator(WithSeed(7), WithAgeRange(30, 32))
	for i := 0; i < 50; i++ {
		p, err := g.GeneratePersona(context.Background(), Request{
			Name: "Sam", Profession: "Farmer", DefiningExperience: "Drought",
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.AnchorIdentity.Age, 30)
		assert.LessOrEqual(t, p.AnchorIdentity.Age, 32)
	}
}

func TestWithAgeRange(t *testing.T) {
	tests := []struct {
		name             string
		minAge, maxAge   int
		wantMin, wantMax int
	}{
		{"single age", 1, 1, 1, 1},
		{"zero start ignored", 0, 10, 25, 75},
		{"inverted ignored", 40, 30, 25, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(WithAgeRange(tt.minAge, tt.maxAge))
			assert.Equal(t, tt.wantMin, g.minAge)
			assert.Equal(t, tt.wantMax, g.maxAge)
		})
	}
}

func TestGeneratePersona_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"name", Request{Profession: "Artist", DefiningExperience: "x"}, "name"},
		{"profession", Request{Name: "A", DefiningExperience: "x"}, "profession"},
		{"experience", Request{Name: "A", Profession: "Artist"}, "defining_experience"},
	}

	g := newTestGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.GeneratePersona(context.Background(), tt.req)
			require.Error(t, err)
			se, ok := segerrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, segerrors.ErrorCodeRequiredField, se.ErrorInfo.Code)
			assert.Contains(t, se.Error(), tt.field)
		})
	}
}

func TestGeneratePersona_StoresAndOverwrites(t *testing.T) {
	g := newTestGenerator()
	ctx := context.Background()

	_, err := g.GeneratePersona(ctx, Request{Name: "Ana", Age: intPtr(40), Profession: "Artist", DefiningExperience: "x"})
	require.NoError(t, err)
	_, err = g.GeneratePersona(ctx, Request{Name: "Ben", Age: intPtr(40), Profession: "Chef", DefiningExperience: "x"})
	require.NoError(t, err)
	_, err = g.GeneratePersona(ctx, Request{Name: "Ana", Age: intPtr(40), Profession: "Musician", DefiningExperience: "x"})
	require.NoError(t, err)

	list, err := g.Personas(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "Musician", list[0].AnchorIdentity.Profession)

	got, err := g.Persona(ctx, "Ben")
	require.NoError(t, err)
	assert.Equal(t, "Culinary district", got.AnchorIdentity.Location)

	_, err = g.Persona(ctx, "Nobody")
	assert.True(t, segerrors.IsNotFound(err))
}
