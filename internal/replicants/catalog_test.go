package replicants

import (
	"encoding/json"
	"fmt"
	"testing"

	"seg-mcp-server/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogOrder = []string{
	"Comedic Trickster",
	"Bayesian Sage",
	"Automatist Oracle",
	"Secret House Keeper",
	"Constraint Weaver",
	"Daydream Cartographer",
	"Synergy Lover",
	"Essentia Distiller",
	"Rational Dreamer",
	"Aesthetic Alchemist",
}

func TestDefault_CatalogOrder(t *testing.T) {
	c := Default()
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, catalogOrder, c.Names())
}

func TestDefault_EveryArchetypeComplete(t *testing.T) {
	for _, a := range Default().All() {
		t.Run(a.Name, func(t *testing.T) {
			assert.NotEmpty(t, a.Subtitle)
			assert.NotEmpty(t, a.AnchorIdentity)
			assert.False(t, a.SensoryWeb.IsZero())
			assert.NotEmpty(t, a.SensoryWeb.Olfactory)
			assert.NotEmpty(t, a.EmotionalCore)
			assert.NotEmpty(t, a.Philosophy)
			assert.NotEmpty(t, a.LinguisticTics)
			assert.NotEmpty(t, a.Directive)
			assert.NotEmpty(t, a.Perspective)
			assert.NotEmpty(t, a.Role)
			assert.NotEmpty(t, a.Description)
			assert.Len(t, a.Complements, 3)
		})
	}
}

func TestGet(t *testing.T) {
	c := Default()

	sage, ok := c.Get("Bayesian Sage")
	require.True(t, ok)
	assert.Equal(t, "Rational-Seer", sage.Subtitle)
	assert.Equal(t, "Probabilistic reasoning and uncertainty quantification", sage.CoreFunction)
	assert.Equal(t, "Old books, incense, chalk dust", sage.SensoryWeb.Olfactory)

	_, ok = c.Get("bayesian sage")
	assert.False(t, ok, "lookup is case-sensitive")
	_, ok = c.Get("Nobody")
	assert.False(t, ok)
	assert.True(t, c.Has("Aesthetic Alchemist"))
	assert.False(t, c.Has(""))
}

func TestGet_ReturnsCopy(t *testing.T) {
	c := Default()
	a, _ := c.Get("Comedic Trickster")
	a.Complements[0] = "Mutated"
	a.Subtitle = "Mutated"

	again, _ := c.Get("Comedic Trickster")
	assert.Equal(t, "Bayesian Sage", again.Complements[0])
	assert.Equal(t, "Humorist-Disruptor", again.Subtitle)
}

func TestByFunction(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		want []string
	}{
		{"matches core function", "probabilistic", []string{"Bayesian Sage"}},
		{"matches approach case-insensitively", "SYSTEMATIC", []string{
			"Bayesian Sage", "Constraint Weaver", "Daydream Cartographer", "Essentia Distiller", "Rational Dreamer",
		}},
		{"matches subtitle", "clarity-seeker", []string{"Essentia Distiller"}},
		{"no match", "quantum knitting", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Default().ByFunction(tt.fn))
		})
	}
}

func TestComplementary(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		count int
		want  []string
	}{
		{"full set", "Comedic Trickster", 3, []string{"Bayesian Sage", "Essentia Distiller", "Rational Dreamer"}},
		{"truncated", "Aesthetic Alchemist", 2, []string{"Constraint Weaver", "Essentia Distiller"}},
		{"count beyond set", "Synergy Lover", 10, []string{"Comedic Trickster", "Secret House Keeper", "Rational Dreamer"}},
		{"zero count", "Bayesian Sage", 0, []string{}},
		{"unknown base", "Nobody", 3, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Default().Complementary(tt.base, tt.count))
		})
	}
}

func TestBalancedCouncil(t *testing.T) {
	tests := []struct {
		size int
		want []string
	}{
		{0, []string{"Bayesian Sage", "Synergy Lover"}},
		{2, []string{"Bayesian Sage", "Synergy Lover"}},
		{3, []string{"Bayesian Sage", "Automatist Oracle", "Essentia Distiller"}},
		{4, []string{"Comedic Trickster", "Bayesian Sage", "Constraint Weaver", "Synergy Lover"}},
		{5, []string{"Bayesian Sage", "Automatist Oracle", "Constraint Weaver", "Synergy Lover", "Essentia Distiller"}},
		{6, []string{"Comedic Trickster", "Bayesian Sage", "Automatist Oracle", "Constraint Weaver", "Synergy Lover", "Essentia Distiller"}},
		{8, []string{"Comedic Trickster", "Bayesian Sage", "Automatist Oracle", "Constraint Weaver", "Synergy Lover", "Essentia Distiller", "Secret House Keeper", "Daydream Cartographer"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("size_%d", tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, BalancedCouncil(tt.size))
		})
	}

	assert.Len(t, BalancedCouncil(10), 10)
	assert.Len(t, BalancedCouncil(25), 10)
	assert.ElementsMatch(t, catalogOrder, BalancedCouncil(10))
}

func TestBalancedCouncil_MembersExist(t *testing.T) {
	c := Default()
	for size := 0; size <= 12; size++ {
		for _, name := range BalancedCouncil(size) {
			assert.True(t, c.Has(name), "size %d: %s", size, name)
		}
	}
}

func TestSummary(t *testing.T) {
	out, err := render.JSON(Default().Summary())
	require.NoError(t, err)

	var decoded struct {
		Replicants  []string `json:"replicants"`
		Count       int      `json:"count"`
		Description string   `json:"description"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, catalogOrder, decoded.Replicants)
	assert.Equal(t, 10, decoded.Count)
	assert.Equal(t, CatalogDescription, decoded.Description)
}

func TestDetailed_KeyOrderAndFields(t *testing.T) {
	detailed := Default().Detailed()
	assert.Equal(t, catalogOrder, detailed.Keys())

	out, err := render.JSON(detailed)
	require.NoError(t, err)
	assert.Contains(t, out, `setup—punchline cadence"`)
	assert.NotContains(t, out, "complements")

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	oracle := decoded["Automatist Oracle"]
	assert.Equal(t, "Dream-Symbolist", oracle["subtitle"])
	assert.NotContains(t, oracle, "name")
	assert.Len(t, oracle, 12)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "- name: [oops"},
		{"missing core function", "- name: A\n  subtitle: s\n  approach: a\n"},
		{"duplicate", "- {name: A, subtitle: s, approach: a, core_function: c}\n- {name: A, subtitle: s, approach: a, core_function: c}\n"},
		{"unknown complement", "- {name: A, subtitle: s, approach: a, core_function: c, complements: [B]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
