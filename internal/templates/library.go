// Package templates provides the SEG text library: council protocols, the
// prompt template library, historical persona filters, the framework
// components document and the three MCP prompts rendered from it.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"seg-mcp-server/internal/render"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed data
var dataFS embed.FS

// Library is the loaded, read-only text library
type Library struct {
	council    render.Object
	prompts    render.Object
	historical render.Object
	framework  string
	tmpl       *template.Template
}

var (
	defaultOnce    sync.Once
	defaultLibrary *Library
)

// Default returns the library built from the embedded data
func Default() *Library {
	defaultOnce.Do(func() {
		lib, err := Load()
		if err != nil {
			panic(fmt.Sprintf("templates: embedded library is invalid: %v", err))
		}
		defaultLibrary = lib
	})
	return defaultLibrary
}

// Load parses the embedded data files
func Load() (*Library, error) {
	lib := &Library{}

	var err error
	if lib.council, err = loadObject("data/council.yaml"); err != nil {
		return nil, err
	}
	if lib.prompts, err = loadObject("data/prompts.yaml"); err != nil {
		return nil, err
	}
	if lib.historical, err = loadObject("data/historical.yaml"); err != nil {
		return nil, err
	}

	framework, err := dataFS.ReadFile("data/framework_components.md")
	if err != nil {
		return nil, fmt.Errorf("read framework components: %w", err)
	}
	lib.framework = string(framework)

	lib.tmpl, err = template.New("prompts").
		Funcs(template.FuncMap{"title": Title}).
		ParseFS(dataFS, "data/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}

	return lib, nil
}

func loadObject(path string) (render.Object, error) {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	v, err := render.FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	obj, ok := v.(render.Object)
	if !ok {
		return nil, fmt.Errorf("%s: top level must be a mapping", path)
	}
	return obj, nil
}

// CouncilTemplates returns council protocols and named ensembles
func (l *Library) CouncilTemplates() render.Object {
	return l.council
}

// PromptTemplates returns the prompt template library
func (l *Library) PromptTemplates() render.Object {
	return l.prompts
}

// HistoricalTemplates returns the historical persona filters
func (l *Library) HistoricalTemplates() render.Object {
	return l.historical
}

// FrameworkComponents returns the six-component architecture document
func (l *Library) FrameworkComponents() string {
	return l.framework
}

// Ensemble returns the participants of a named ensemble combination
func (l *Library) Ensemble(name string) ([]string, bool) {
	ensembles, ok := l.council.Get("ensemble_combinations")
	if !ok {
		return nil, false
	}
	entry, ok := ensembles.(render.Object).Get(name)
	if !ok {
		return nil, false
	}
	raw, _ := entry.(render.Object).Get("participants")
	items, _ := raw.([]interface{})
	participants := make([]string, 0, len(items))
	for _, item := range items {
		if s, isString := item.(string); isString {
			participants = append(participants, s)
		}
	}
	return participants, true
}

// EnsembleNames lists the named ensemble combinations in order
func (l *Library) EnsembleNames() []string {
	ensembles, ok := l.council.Get("ensemble_combinations")
	if !ok {
		return nil
	}
	return ensembles.(render.Object).Keys()
}

func (l *Library) execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := l.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Title upper-cases the first letter of every word and lower-cases the
// rest. Underscores separate words, so "braided_report" becomes
// "Braided_Report".
func Title(s string) string {
	caser := cases.Title(language.English)
	parts := strings.Split(s, "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "_")
}
