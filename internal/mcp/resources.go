package mcp

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/internal/render"
	"seg-mcp-server/pkg/types"

	"github.com/fredcamaral/gomcp-sdk/protocol"
)

// Resource URIs
const (
	URIReplicantsAll       = "seg://replicants/all"
	URIReplicantsDetailed  = "seg://replicants/detailed"
	URIFrameworkComponents = "seg://framework/components"
	URITemplatesCouncil    = "seg://templates/council"
	URIExamplesPersonas    = "seg://examples/personas"
	URITemplatesPrompts    = "seg://templates/prompts"
	URITemplatesHistorical = "seg://templates/historical"
	URIPersonasGenerated   = "seg://personas/generated"
	URICouncilSessions     = "seg://council/sessions"
)

const (
	mimeJSON     = "application/json"
	mimeMarkdown = "text/markdown"
)

// exampleFiles are read from the examples directory in this order
var exampleFiles = []string{"simone_weil_seg.md", "doris_lessing.md", "emily_dickinson.md"}

type resourceDef struct {
	uri         string
	name        string
	description string
	mimeType    string
	read        func(ctx context.Context) (string, error)
}

func (s *SEGServer) resourceDefs() []resourceDef {
	return []resourceDef{
		{URIReplicantsAll, "All SEG Replicants", "Complete collection of 10 SEG replicant archetypes", mimeJSON,
			func(context.Context) (string, error) { return render.JSON(s.catalog.Summary()) }},
		{URIReplicantsDetailed, "Detailed Replicant Definitions", "Full persona specifications for all replicants", mimeJSON,
			func(context.Context) (string, error) { return render.JSON(s.catalog.Detailed()) }},
		{URIFrameworkComponents, "SEG Framework Components", "Core 6-component persona architecture documentation", mimeMarkdown,
			func(context.Context) (string, error) { return s.library.FrameworkComponents(), nil }},
		{URITemplatesCouncil, "Council Protocol Templates", "Templates for multi-persona reasoning sessions", mimeJSON,
			func(context.Context) (string, error) { return render.JSON(s.library.CouncilTemplates()) }},
		{URIExamplesPersonas, "Example Persona Implementations", "Fully developed personas (Weil, Lessing, Dickinson)", mimeJSON,
			s.readExamples},
		{URITemplatesPrompts, "SEG Prompt Templates", "Prompt library for persona creation, council sessions and experiential analysis", mimeJSON,
			func(context.Context) (string, error) { return render.JSON(s.library.PromptTemplates()) }},
		{URITemplatesHistorical, "Historical Persona Templates", "Prompt integration filters for historical personas", mimeJSON,
			func(context.Context) (string, error) { return render.JSON(s.library.HistoricalTemplates()) }},
		{URIPersonasGenerated, "Generated Personas", "Personas created with generate_persona", mimeJSON,
			s.readGeneratedPersonas},
		{URICouncilSessions, "Council Sessions", "Council sessions run by this server", mimeJSON,
			s.readCouncilSessions},
	}
}

// ListResources returns resource descriptors in declaration order
func (s *SEGServer) ListResources() []protocol.Resource {
	out := make([]protocol.Resource, len(s.resources))
	for i, r := range s.resources {
		out[i] = protocol.Resource{URI: r.uri, Name: r.name, Description: r.description, MimeType: r.mimeType}
	}
	return out
}

// ReadResource returns the text of the resource at uri
func (s *SEGServer) ReadResource(ctx context.Context, uri string) (string, error) {
	for _, r := range s.resources {
		if r.uri == uri {
			return r.read(ctx)
		}
	}
	return "", segerrors.NewNotFoundError("resource URI", uri)
}

func (s *SEGServer) mimeType(uri string) string {
	for _, r := range s.resources {
		if r.uri == uri {
			return r.mimeType
		}
	}
	return ""
}

func (s *SEGServer) readExamples(context.Context) (string, error) {
	var examples render.Object
	for _, file := range exampleFiles {
		data, err := os.ReadFile(filepath.Join(s.examplesDir, file))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", segerrors.NewInternalError("failed to read example persona "+file, err)
		}
		examples.Set(strings.TrimSuffix(file, filepath.Ext(file)), string(data))
	}
	return render.JSON(examples)
}

func (s *SEGServer) readGeneratedPersonas(ctx context.Context) (string, error) {
	personas, err := s.generator.Personas(ctx)
	if err != nil {
		return "", err
	}
	var out render.Object
	out.Set("personas", personas)
	out.Set("count", len(personas))
	return render.JSON(out)
}

func (s *SEGServer) readCouncilSessions(context.Context) (string, error) {
	sessions := s.council.Sessions()
	if sessions == nil {
		sessions = []types.CouncilSession{}
	}
	var out render.Object
	out.Set("sessions", sessions)
	out.Set("count", len(sessions))
	return render.JSON(out)
}
