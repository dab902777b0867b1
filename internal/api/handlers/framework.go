package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"seg-mcp-server/internal/api/response"
	segerrors "seg-mcp-server/internal/errors"
)

// Framework document formats
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

var frameworkFormats = []string{FormatMarkdown, FormatHTML, FormatJSON}

// FrameworkHandler renders the six-component architecture document
type FrameworkHandler struct {
	source []byte
	md     goldmark.Markdown
}

// Component is one heading of the framework document with its bullets
type Component struct {
	Title  string   `json:"title"`
	Level  int      `json:"level"`
	Points []string `json:"points"`
}

// NewFrameworkHandler creates a handler over the given markdown document
func NewFrameworkHandler(markdown string) *FrameworkHandler {
	return &FrameworkHandler{source: []byte(markdown), md: goldmark.New()}
}

// Handle serves ?format=markdown (default), html or json
func (h *FrameworkHandler) Handle(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatMarkdown
	}

	switch format {
	case FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(h.source)

	case FormatHTML:
		html, err := h.HTML()
		if err != nil {
			response.WriteError(w, segerrors.NewInternalError("Failed to render framework document", err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(html)

	case FormatJSON:
		response.WriteSuccess(w, map[string]interface{}{"components": h.Components()})

	default:
		response.WriteError(w, segerrors.NewInvalidValueError("format", format, frameworkFormats))
	}
}

// HTML converts the document to HTML
func (h *FrameworkHandler) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := h.md.Convert(h.source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Components splits the document into its headings, collecting the text
// of each list item under the heading that precedes it
func (h *FrameworkHandler) Components() []Component {
	reader := text.NewReader(h.source)
	doc := h.md.Parser().Parse(reader)

	components := []Component{}
	current := -1

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			components = append(components, Component{
				Title:  inlineText(node, h.source),
				Level:  node.Level,
				Points: []string{},
			})
			current = len(components) - 1
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if current >= 0 {
				components[current].Points = append(components[current].Points, inlineText(node, h.source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return components
}

func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
