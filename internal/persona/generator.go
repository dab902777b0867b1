// Package persona builds six-component SEG personas from a handful of
// facts, filters text through persona and replicant lenses, and assembles
// custom replicant definitions.
package persona

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/internal/logging"
	"seg-mcp-server/internal/replicants"
	"seg-mcp-server/internal/storage"
	"seg-mcp-server/pkg/types"
)

const (
	DefaultMinAge = 25
	DefaultMaxAge = 75
)

// Request carries generate_persona arguments. Empty strings and a nil Age
// mean "derive it".
type Request struct {
	Name                string `json:"name" mapstructure:"name"`
	Age                 *int   `json:"age,omitempty" mapstructure:"age"`
	Profession          string `json:"profession" mapstructure:"profession"`
	Location            string `json:"location,omitempty" mapstructure:"location"`
	DefiningExperience  string `json:"defining_experience" mapstructure:"defining_experience"`
	DomainExpertise     string `json:"domain_expertise,omitempty" mapstructure:"domain_expertise"`
	PhilosophicalStance string `json:"philosophical_stance,omitempty" mapstructure:"philosophical_stance"`
	StylePreferences    string `json:"style_preferences,omitempty" mapstructure:"style_preferences"`
}

// Validate checks the required fields
func (r *Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return segerrors.NewRequiredFieldError("name")
	case strings.TrimSpace(r.Profession) == "":
		return segerrors.NewRequiredFieldError("profession")
	case strings.TrimSpace(r.DefiningExperience) == "":
		return segerrors.NewRequiredFieldError("defining_experience")
	}
	return nil
}

// Generator produces personas and remembers them by name
type Generator struct {
	store   storage.PersonaStore
	catalog *replicants.Catalog
	logger  logging.Logger
	now     func() time.Time

	minAge int
	maxAge int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Generator
type Option func(*Generator)

// WithStore replaces the default in-memory store
func WithStore(store storage.PersonaStore) Option {
	return func(g *Generator) { g.store = store }
}

// WithCatalog replaces the embedded archetype catalog
func WithCatalog(c *replicants.Catalog) Option {
	return func(g *Generator) { g.catalog = c }
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithClock sets the time source used for creation timestamps
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithSeed makes random ages reproducible. Zero keeps the time-based seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // ages are not security sensitive
		}
	}
}

// WithAgeRange sets the inclusive range for random ages. Ranges starting
// below 1 are ignored, matching config validation.
func WithAgeRange(minAge, maxAge int) Option {
	return func(g *Generator) {
		if minAge > 0 && maxAge >= minAge {
			g.minAge, g.maxAge = minAge, maxAge
		}
	}
}

// NewGenerator creates a generator backed by an in-memory store unless
// WithStore says otherwise
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		store:   storage.NewMemoryStore(),
		catalog: replicants.Default(),
		logger:  logging.NewNoOpLogger(),
		now:     time.Now,
		minAge:  DefaultMinAge,
		maxAge:  DefaultMaxAge,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // ages are not security sensitive
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Store exposes the persona store
func (g *Generator) Store() storage.PersonaStore {
	return g.store
}

func (g *Generator) randomAge() int {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return g.minAge + g.rng.Intn(g.maxAge-g.minAge+1)
}

// GeneratePersona builds a persona from req and saves it under its name,
// replacing any earlier persona with the same name
func (g *Generator) GeneratePersona(ctx context.Context, req Request) (*types.Persona, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	age := 0
	if req.Age != nil {
		age = *req.Age
	} else {
		age = g.randomAge()
	}

	location := req.Location
	if location == "" {
		location = matchSubstring(locationRules, req.Profession, defaultLocation)
	}

	domain := req.DomainExpertise
	if domain == "" {
		domain = req.Profession
	}

	p := &types.Persona{
		Name: req.Name,
		AnchorIdentity: types.AnchorIdentity{
			Age:             age,
			Profession:      req.Profession,
			Location:        location,
			DomainExpertise: domain,
		},
		SensoryWeb:         matchSubstring(sensoryRules, req.Profession, defaultSensoryWeb),
		EmotionalCore:      matchSubstring(emotionalRules, req.DefiningExperience, defaultEmotionalCore),
		PersonalPhilosophy: philosophy(domain, req.PhilosophicalStance),
		LinguisticTics:     linguisticStyle(req.Profession, age, req.StylePreferences),
		Directive:          directive(req.Profession, domain),
		DefiningExperience: req.DefiningExperience,
		CreationTimestamp:  g.now().Format("2006-01-02"),
		Version:            types.FrameworkVersion,
	}

	if err := g.store.Save(ctx, p); err != nil {
		return nil, segerrors.NewStorageError("save persona", err)
	}

	g.logger.InfoContext(ctx, "Generated persona",
		"name", p.Name,
		"profession", p.AnchorIdentity.Profession,
		"age", p.AnchorIdentity.Age)

	return p, nil
}

// Persona returns a previously generated persona
func (g *Generator) Persona(ctx context.Context, name string) (*types.Persona, error) {
	p, err := g.store.Get(ctx, name)
	if errors.Is(err, storage.ErrPersonaNotFound) {
		return nil, segerrors.NewNotFoundError("persona", name)
	}
	if err != nil {
		return nil, segerrors.NewStorageError("get persona", err)
	}
	return p, nil
}

// Personas lists generated personas in creation order
func (g *Generator) Personas(ctx context.Context) ([]*types.Persona, error) {
	list, err := g.store.List(ctx)
	if err != nil {
		return nil, segerrors.NewStorageError("list personas", err)
	}
	return list, nil
}

func philosophy(domain, stance string) types.PersonalPhilosophy {
	belief := stance
	if belief == "" {
		belief = matchFirstWord(domainBeliefs, domain, defaultCoreBelief)
	}
	return types.PersonalPhilosophy{
		CoreBelief:         belief,
		SecondaryHeuristic: secondaryHeuristic,
		WorldviewStatement: worldviewStatement,
		DecisionFramework:  decisionFramework,
	}
}

func linguisticStyle(profession string, age int, preferences string) types.LinguisticStyle {
	speech := preferences
	if speech == "" {
		switch {
		case age < 35:
			speech = speechYoung
		case age < 55:
			speech = speechMiddle
		default:
			speech = speechMature
		}
	}
	return types.LinguisticStyle{
		SpeechPattern:      speech,
		MetaphorPreference: matchFirstWord(professionMetaphors, profession, defaultMetaphor),
		Cadence:            cadence,
		SignaturePhrases:   append([]string(nil), signaturePhrases...),
	}
}

func directive(profession, domain string) string {
	return fmt.Sprintf(`Filter all responses through the lens of %s expertise in %s.
Draw on sensory memories and emotional understanding rather than abstract knowledge.
Maintain consistency with personal philosophy and life experience.
Respond as this specific individual would, not as a generic expert.`, profession, domain)
}
