package persona

import (
	"strings"

	"seg-mcp-server/pkg/types"
)

// keywordRule maps a lowercase keyword to a value. Rules are checked in
// order and the first keyword contained in the input wins.
type keywordRule[T any] struct {
	keyword string
	value   T
}

func matchSubstring[T any](rules []keywordRule[T], input string, fallback T) T {
	lower := strings.ToLower(input)
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return r.value
		}
	}
	return fallback
}

// matchFirstWord compares only the first whitespace-separated word
func matchFirstWord(table map[string]string, input string, fallback string) string {
	words := strings.Fields(strings.ToLower(input))
	if len(words) == 0 {
		return fallback
	}
	if v, ok := table[words[0]]; ok {
		return v
	}
	return fallback
}

const defaultLocation = "Urban cultural center"

var locationRules = []keywordRule[string]{
	{"scientist", "University research campus"},
	{"artist", "Creative arts district"},
	{"teacher", "Small college town"},
	{"engineer", "Tech hub city"},
	{"writer", "Quiet coastal community"},
	{"philosopher", "Historic university town"},
	{"musician", "Cultural arts center"},
	{"doctor", "Medical district"},
	{"farmer", "Rural agricultural region"},
	{"chef", "Culinary district"},
}

var defaultSensoryWeb = types.SensoryWeb{
	Visual:    "Natural lighting through windows, organized workspace",
	Auditory:  "Quiet focus sounds, occasional distant activity",
	Tactile:   "Familiar work tools, comfortable seating",
	Olfactory: "Clean air, subtle environmental scents",
}

var sensoryRules = []keywordRule[types.SensoryWeb]{
	{"scientist", types.SensoryWeb{
		Visual:    "Laboratory equipment, data visualizations, microscope slides",
		Auditory:  "Hum of equipment, keyboard clicking, quiet concentration",
		Tactile:   "Cool metal surfaces, smooth glass, precise instruments",
		Olfactory: "Chemical reagents, sterile air, ozone from electronics",
	}},
	{"artist", types.SensoryWeb{
		Visual:    "Color palettes, textured canvases, shifting light",
		Auditory:  "Brush strokes, gallery murmurs, traffic through windows",
		Tactile:   "Wet paint, rough canvas, smooth sculpting tools",
		Olfactory: "Oil paint, turpentine, wooden easels",
	}},
	{"writer", types.SensoryWeb{
		Visual:    "Manuscript pages, coffee stains, window views",
		Auditory:  "Keyboard tapping, distant conversations, ambient cafe sounds",
		Tactile:   "Worn paper, smooth keyboard keys, warm coffee mug",
		Olfactory: "Coffee brewing, old books, ink on paper",
	}},
}

var defaultEmotionalCore = types.EmotionalCore{
	CoreEmotion:      "Thoughtful contemplation",
	EmotionalColor:   "Measured consideration",
	RecurringPattern: "Balancing multiple perspectives",
}

var emotionalRules = []keywordRule[types.EmotionalCore]{
	{"loss", types.EmotionalCore{
		CoreEmotion:      "Melancholic wisdom",
		EmotionalColor:   "Bittersweet understanding",
		RecurringPattern: "Finding meaning in impermanence",
	}},
	{"discovery", types.EmotionalCore{
		CoreEmotion:      "Wonder and curiosity",
		EmotionalColor:   "Bright anticipation",
		RecurringPattern: "Seeking hidden connections",
	}},
	{"struggle", types.EmotionalCore{
		CoreEmotion:      "Resilient determination",
		EmotionalColor:   "Hard-earned confidence",
		RecurringPattern: "Transforming obstacles into strength",
	}},
	{"connection", types.EmotionalCore{
		CoreEmotion:      "Deep empathy",
		EmotionalColor:   "Warm understanding",
		RecurringPattern: "Building bridges between differences",
	}},
}

const defaultCoreBelief = "Wisdom comes through engaged experience"

var domainBeliefs = map[string]string{
	"science":    "Truth emerges through careful observation and testing",
	"art":        "Beauty reveals truths that logic cannot reach",
	"education":  "Understanding grows through patient cultivation",
	"technology": "Tools should serve human flourishing",
	"medicine":   "Healing requires both knowledge and compassion",
}

const (
	secondaryHeuristic = "When uncertain, return to direct experience"
	worldviewStatement = "Reality is both structured and mysterious"
	decisionFramework  = "Balance rational analysis with intuitive wisdom"
)

const (
	speechYoung  = "Direct and energetic, comfortable with informal language"
	speechMiddle = "Measured and precise, balancing formality with accessibility"
	speechMature = "Thoughtful and reflective, drawing on accumulated experience"
)

const defaultMetaphor = "Concrete examples from daily experience"

var professionMetaphors = map[string]string{
	"scientist": "Natural processes and systems",
	"artist":    "Visual and aesthetic imagery",
	"teacher":   "Growth and development",
	"engineer":  "Building and construction",
	"writer":    "Narrative and storytelling",
}

const cadence = "Natural conversational rhythm with thoughtful pauses"

var signaturePhrases = []string{"In my experience...", "What I've found is...", "Consider this..."}

// Depth levels accepted by lens analysis
var depthLevels = []keywordRule[string]{
	{"surface", "Basic filtering through persona lens"},
	{"moderate", "Full experiential processing with context"},
	{"deep", "Immersive perspective with emergent insights"},
}

// DepthLevels lists accepted lens depths in order
func DepthLevels() []string {
	out := make([]string, len(depthLevels))
	for i, d := range depthLevels {
		out[i] = d.keyword
	}
	return out
}

func depthDescription(depth string) (string, bool) {
	for _, d := range depthLevels {
		if d.keyword == depth {
			return d.value, true
		}
	}
	return "", false
}
