// Package types provides the record types shared by the SEG server:
// replicant archetypes, generated personas, custom replicants and
// council sessions. JSON field order follows declaration order, which is
// the order clients see.
package types

import (
	"errors"
	"strings"
	"time"
)

// Version stamped on generated personas and custom replicants
const FrameworkVersion = "1.1"

// CreationMethodCustom marks replicants built by create_custom_replicant
const CreationMethodCustom = "custom_generated"

// SensoryWeb holds the four dominant sensory anchors of a persona
type SensoryWeb struct {
	Visual    string `json:"visual,omitempty" yaml:"visual" mapstructure:"visual"`
	Auditory  string `json:"auditory,omitempty" yaml:"auditory" mapstructure:"auditory"`
	Tactile   string `json:"tactile,omitempty" yaml:"tactile" mapstructure:"tactile"`
	Olfactory string `json:"olfactory,omitempty" yaml:"olfactory" mapstructure:"olfactory"`
}

// IsZero reports whether no modality is set
func (s SensoryWeb) IsZero() bool {
	return s == SensoryWeb{}
}

// Archetype is one of the fixed replicant definitions. Name is the catalog
// key and is not part of the serialized definition.
type Archetype struct {
	Name           string     `json:"-" yaml:"name"`
	Subtitle       string     `json:"subtitle" yaml:"subtitle"`
	AnchorIdentity string     `json:"anchor_identity" yaml:"anchor_identity"`
	SensoryWeb     SensoryWeb `json:"sensory_web" yaml:"sensory_web"`
	EmotionalCore  string     `json:"emotional_core" yaml:"emotional_core"`
	Philosophy     string     `json:"philosophy" yaml:"philosophy"`
	LinguisticTics string     `json:"linguistic_tics" yaml:"linguistic_tics"`
	Directive      string     `json:"directive" yaml:"directive"`
	CoreFunction   string     `json:"core_function" yaml:"core_function"`
	Approach       string     `json:"approach" yaml:"approach"`
	Perspective    string     `json:"perspective" yaml:"perspective"`
	Role           string     `json:"role" yaml:"role"`
	Description    string     `json:"description" yaml:"description"`
	Complements    []string   `json:"-" yaml:"complements"`
}

// Validate checks that the fields every lookup relies on are present
func (a *Archetype) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("archetype name is required")
	}
	if a.CoreFunction == "" || a.Approach == "" || a.Subtitle == "" {
		return errors.New("archetype " + a.Name + " is missing core_function, approach or subtitle")
	}
	return nil
}

// AnchorIdentity is the time-and-place scaffold of a generated persona
type AnchorIdentity struct {
	Age             int    `json:"age"`
	Profession      string `json:"profession"`
	Location        string `json:"location"`
	DomainExpertise string `json:"domain_expertise"`
}

// EmotionalCore is the interpretive key derived from the defining experience
type EmotionalCore struct {
	CoreEmotion      string `json:"core_emotion"`
	EmotionalColor   string `json:"emotional_color"`
	RecurringPattern string `json:"recurring_pattern"`
}

// PersonalPhilosophy holds earned beliefs and heuristics
type PersonalPhilosophy struct {
	CoreBelief         string `json:"core_belief"`
	SecondaryHeuristic string `json:"secondary_heuristic"`
	WorldviewStatement string `json:"worldview_statement"`
	DecisionFramework  string `json:"decision_framework"`
}

// LinguisticStyle describes how a persona speaks
type LinguisticStyle struct {
	SpeechPattern      string   `json:"speech_pattern"`
	MetaphorPreference string   `json:"metaphor_preference"`
	Cadence            string   `json:"cadence"`
	SignaturePhrases   []string `json:"signature_phrases"`
}

// Persona is a generated six-component persona
type Persona struct {
	Name               string             `json:"name"`
	AnchorIdentity     AnchorIdentity     `json:"anchor_identity"`
	SensoryWeb         SensoryWeb         `json:"sensory_web"`
	EmotionalCore      EmotionalCore      `json:"emotional_core"`
	PersonalPhilosophy PersonalPhilosophy `json:"personal_philosophy"`
	LinguisticTics     LinguisticStyle    `json:"linguistic_tics"`
	Directive          string             `json:"directive"`
	DefiningExperience string             `json:"defining_experience"`
	CreationTimestamp  string             `json:"creation_timestamp"`
	Version            string             `json:"version"`
}

// CustomReplicant is a user-defined archetype. It is returned to the caller
// and never added to the catalog.
type CustomReplicant struct {
	ArchetypeName   string     `json:"archetype_name"`
	CoreFunction    string     `json:"core_function"`
	AnchorIdentity  string     `json:"anchor_identity"`
	SensoryWeb      SensoryWeb `json:"sensory_web"`
	EmotionalCore   string     `json:"emotional_core"`
	Philosophy      string     `json:"philosophy"`
	LinguisticStyle string     `json:"linguistic_style"`
	Directive       string     `json:"directive"`
	CreationMethod  string     `json:"creation_method"`
	Version         string     `json:"version"`
}

// SessionStatus tracks a council session through its run
type SessionStatus string

const (
	SessionRunning  SessionStatus = "running"
	SessionComplete SessionStatus = "complete"
)

// CouncilSession is the registry record of one council run
type CouncilSession struct {
	ID           string        `json:"id"`
	Premise      string        `json:"premise"`
	Participants []string      `json:"participants"`
	Mode         string        `json:"mode"`
	Constraints  string        `json:"constraints,omitempty"`
	Cycles       int           `json:"cycles"`
	Status       SessionStatus `json:"status"`
	Output       string        `json:"output,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// PromptMessage is one message of a rendered prompt
type PromptMessage struct {
	Role    string        `json:"role"`
	Content PromptContent `json:"content"`
}

// PromptContent is the text payload of a prompt message
type PromptContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PromptResult is a rendered prompt with its description
type PromptResult struct {
	Description string          `json:"description"`
	Messages    []PromptMessage `json:"messages"`
}

// NewUserPrompt wraps text as a single user message
func NewUserPrompt(description, text string) *PromptResult {
	return &PromptResult{
		Description: description,
		Messages: []PromptMessage{
			{Role: "user", Content: PromptContent{Type: "text", Text: text}},
		},
	}
}
