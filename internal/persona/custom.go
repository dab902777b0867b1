package persona

import (
	"strings"

	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/pkg/types"
)

// CustomRequest carries create_custom_replicant arguments
type CustomRequest struct {
	ArchetypeName   string           `mapstructure:"archetype_name"`
	CoreFunction    string           `mapstructure:"core_function"`
	Directive       string           `mapstructure:"directive"`
	AnchorIdentity  string           `mapstructure:"anchor_identity"`
	SensoryWeb      types.SensoryWeb `mapstructure:"sensory_web"`
	EmotionalCore   string           `mapstructure:"emotional_core"`
	Philosophy      string           `mapstructure:"philosophy"`
	LinguisticStyle string           `mapstructure:"linguistic_style"`
}

// CreateCustomReplicant fills in any missing components from the core
// function. The result is not added to the catalog.
func CreateCustomReplicant(req CustomRequest) (*types.CustomReplicant, error) {
	switch {
	case strings.TrimSpace(req.ArchetypeName) == "":
		return nil, segerrors.NewRequiredFieldError("archetype_name")
	case strings.TrimSpace(req.CoreFunction) == "":
		return nil, segerrors.NewRequiredFieldError("core_function")
	case strings.TrimSpace(req.Directive) == "":
		return nil, segerrors.NewRequiredFieldError("directive")
	}

	fn := req.CoreFunction
	r := &types.CustomReplicant{
		ArchetypeName:   req.ArchetypeName,
		CoreFunction:    fn,
		AnchorIdentity:  orDefault(req.AnchorIdentity, "Creative specialist focused on "+fn),
		SensoryWeb:      req.SensoryWeb,
		EmotionalCore:   orDefault(req.EmotionalCore, "Passion for "+fn+" and its transformative potential"),
		Philosophy:      orDefault(req.Philosophy, "Excellence in "+fn+" serves broader human understanding"),
		LinguisticStyle: orDefault(req.LinguisticStyle, "Technical precision balanced with accessible explanation in "+fn+" domain"),
		Directive:       req.Directive,
		CreationMethod:  types.CreationMethodCustom,
		Version:         types.FrameworkVersion,
	}

	if r.SensoryWeb.IsZero() {
		r.SensoryWeb = types.SensoryWeb{
			Visual:    "Imagery related to " + fn,
			Auditory:  "Sounds associated with " + fn + " work",
			Tactile:   "Textures relevant to " + fn,
			Olfactory: "Scents from " + fn + " environment",
		}
	}

	return r, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
