package handlers

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"seg-mcp-server/internal/api/response"
	segerrors "seg-mcp-server/internal/errors"
)

//go:embed openapi.yaml
var openapiSource []byte

// LoadOpenAPI parses the embedded API description and stamps it with the
// running server version
func LoadOpenAPI(version string) (*openapi3.T, error) {
	var raw interface{}
	if err := yaml.Unmarshal(openapiSource, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI YAML: %w", err)
	}
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert OpenAPI document to JSON: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(jsonData)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if version != "" {
		doc.Info.Version = version
	}
	return doc, nil
}

// OpenAPIHandler serves the API description
type OpenAPIHandler struct {
	doc *openapi3.T
	err error
}

// NewOpenAPIHandler loads the document once. A load failure is reported
// on every request rather than at startup.
func NewOpenAPIHandler(version string) *OpenAPIHandler {
	doc, err := LoadOpenAPI(version)
	return &OpenAPIHandler{doc: doc, err: err}
}

// Handle writes the document as JSON
func (h *OpenAPIHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	if h.err != nil {
		response.WriteError(w, segerrors.NewInternalError("OpenAPI document unavailable", h.err))
		return
	}
	response.WriteJSON(w, http.StatusOK, h.doc)
}
