package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"seg-mcp-server/internal/api/response"
	"seg-mcp-server/internal/council"
	"seg-mcp-server/internal/replicants"
	"seg-mcp-server/internal/templates"
	"seg-mcp-server/pkg/types"
)

const (
	defaultComplementCount = 3
	defaultCouncilSize     = 5
)

// CatalogHandler serves the replicant catalog and council views
type CatalogHandler struct {
	catalog *replicants.Catalog
	library *templates.Library
	council *council.Orchestrator
}

// ReplicantView is one archetype with its catalog name
type ReplicantView struct {
	Name        string          `json:"name"`
	Definition  types.Archetype `json:"definition"`
	Complements []string        `json:"complements"`
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(catalog *replicants.Catalog, library *templates.Library, orchestrator *council.Orchestrator) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, library: library, council: orchestrator}
}

// ListReplicants returns the catalog summary
func (h *CatalogHandler) ListReplicants(w http.ResponseWriter, _ *http.Request) {
	response.WriteSuccess(w, h.catalog.Summary())
}

// GetReplicant returns one archetype definition
func (h *CatalogHandler) GetReplicant(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	a, ok := h.catalog.Get(name)
	if !ok {
		response.WriteNotFound(w, "replicant", name)
		return
	}
	response.WriteSuccess(w, ReplicantView{
		Name:        name,
		Definition:  a,
		Complements: h.catalog.Complementary(name, len(a.Complements)),
	})
}

// GetComplements returns up to count complementary archetypes
func (h *CatalogHandler) GetComplements(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if !h.catalog.Has(name) {
		response.WriteNotFound(w, "replicant", name)
		return
	}
	count, ok := intQuery(w, r, "count", defaultComplementCount)
	if !ok {
		return
	}
	complements := h.catalog.Complementary(name, count)
	response.WriteSuccess(w, map[string]interface{}{
		"base_replicant": name,
		"complements":    complements,
		"count":          len(complements),
	})
}

// BalancedCouncil returns a balanced line-up for ?size=
func (h *CatalogHandler) BalancedCouncil(w http.ResponseWriter, r *http.Request) {
	size, ok := intQuery(w, r, "size", defaultCouncilSize)
	if !ok {
		return
	}
	council := replicants.BalancedCouncil(size)
	response.WriteSuccess(w, map[string]interface{}{
		"size":       size,
		"replicants": council,
		"count":      len(council),
	})
}

// ListEnsembles returns the named ensemble combinations
func (h *CatalogHandler) ListEnsembles(w http.ResponseWriter, _ *http.Request) {
	response.WriteSuccess(w, map[string]interface{}{
		"ensembles": h.library.EnsembleNames(),
	})
}

// GetEnsemble returns the participants of one named ensemble
func (h *CatalogHandler) GetEnsemble(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	participants, ok := h.library.Ensemble(name)
	if !ok {
		response.WriteNotFound(w, "ensemble", name)
		return
	}
	response.WriteSuccess(w, map[string]interface{}{
		"name":         name,
		"participants": participants,
	})
}

// ListSessions returns the council sessions run so far
func (h *CatalogHandler) ListSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := h.council.Sessions()
	response.WriteSuccess(w, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one council session with its rendered output
func (h *CatalogHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	session, ok := h.council.Session(id)
	if !ok {
		response.WriteNotFound(w, "council session", id)
		return
	}
	response.WriteSuccess(w, session)
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// intQuery reads an integer query parameter, writing a 400 when it does
// not parse
func intQuery(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.WriteBadRequest(w, key, "must be an integer", raw)
		return 0, false
	}
	return v, true
}
