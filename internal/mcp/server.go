// Package mcp binds the SEG catalog, templates, persona generator and
// council orchestrator to the Model Context Protocol.
package mcp

import (
	"context"
	"strings"

	"seg-mcp-server/internal/config"
	"seg-mcp-server/internal/council"
	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/internal/logging"
	"seg-mcp-server/internal/persona"
	"seg-mcp-server/internal/replicants"
	"seg-mcp-server/internal/storage"
	"seg-mcp-server/internal/templates"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/fredcamaral/gomcp-sdk/server"
)

// SEGServer serves SEG resources, tools and prompts. It answers the list,
// read, call and get methods itself so listings keep their declared order;
// everything else goes to the SDK server.
type SEGServer struct {
	name    string
	version string

	catalog     *replicants.Catalog
	library     *templates.Library
	generator   *persona.Generator
	council     *council.Orchestrator
	store       storage.PersonaStore
	examplesDir string

	logger    logging.Logger
	errors    *segerrors.Handler
	mcpServer *server.Server

	resources []resourceDef
	tools     []toolDef
}

// NewSEGServer wires the SEG components around store. A nil store means a
// fresh in-memory store.
func NewSEGServer(cfg *config.Config, store storage.PersonaStore, logger logging.Logger) *SEGServer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	s := &SEGServer{
		name:        cfg.Server.Name,
		version:     cfg.Server.Version,
		catalog:     replicants.Default(),
		library:     templates.Default(),
		store:       store,
		examplesDir: cfg.Content.ExamplesDir,
		logger:      logger.WithComponent("mcp"),
		errors:      segerrors.NewHandler(),
	}

	s.generator = persona.NewGenerator(
		persona.WithStore(store),
		persona.WithCatalog(s.catalog),
		persona.WithSeed(cfg.Generator.Seed),
		persona.WithAgeRange(cfg.Generator.MinAge, cfg.Generator.MaxAge),
		persona.WithLogger(logger.WithComponent("persona")),
	)
	s.council = council.NewOrchestrator(
		council.WithCatalog(s.catalog),
		council.WithLogger(logger.WithComponent("council")),
	)

	s.resources = s.resourceDefs()
	s.tools = s.toolDefs()

	s.mcpServer = mcp.NewServer(s.name, s.version)
	s.register()

	s.logger.Info("SEG server ready",
		"resources", len(s.resources),
		"tools", len(s.tools),
		"prompts", len(s.library.Prompts()),
		"replicants", s.catalog.Len())

	return s
}

func (s *SEGServer) register() {
	for _, r := range s.resources {
		s.mcpServer.AddResource(
			mcp.NewResource(r.uri, r.name, r.description, r.mimeType),
			mcp.ResourceHandlerFunc(func(ctx context.Context, uri string) ([]protocol.Content, error) {
				text, err := s.ReadResource(ctx, uri)
				if err != nil {
					return nil, err
				}
				return []protocol.Content{protocol.NewContent(text)}, nil
			}),
		)
	}

	for _, t := range s.tools {
		name := t.name
		s.mcpServer.AddTool(
			mcp.NewTool(t.name, t.description, t.schema),
			mcp.ToolHandlerFunc(func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return s.CallTool(ctx, name, args)
			}),
		)
	}

	for _, p := range s.ListPrompts() {
		name := p.Name
		s.mcpServer.AddPrompt(p, mcp.PromptHandlerFunc(func(ctx context.Context, args map[string]interface{}) ([]protocol.Content, error) {
			res, err := s.GetPrompt(ctx, name, args)
			if err != nil {
				return nil, err
			}
			out := make([]protocol.Content, len(res.Messages))
			for i, m := range res.Messages {
				out[i] = protocol.NewContent(m.Content.Text)
			}
			return out, nil
		}))
	}
}

// GetMCPServer returns the underlying SDK server
func (s *SEGServer) GetMCPServer() *server.Server {
	return s.mcpServer
}

func (s *SEGServer) Catalog() *replicants.Catalog   { return s.catalog }
func (s *SEGServer) Library() *templates.Library    { return s.library }
func (s *SEGServer) Generator() *persona.Generator  { return s.generator }
func (s *SEGServer) Council() *council.Orchestrator { return s.council }
func (s *SEGServer) Store() storage.PersonaStore    { return s.store }
func (s *SEGServer) Name() string                   { return s.name }
func (s *SEGServer) Version() string                { return s.version }

// Close releases the persona store
func (s *SEGServer) Close() error {
	return s.store.Close()
}

type resourceReadParams struct {
	URI string `mapstructure:"uri"`
}

type toolCallParams struct {
	Name      string                 `mapstructure:"name"`
	Arguments map[string]interface{} `mapstructure:"arguments"`
}

type promptGetParams struct {
	Name      string                 `mapstructure:"name"`
	Arguments map[string]interface{} `mapstructure:"arguments"`
}

// resourceContents is one entry of a resources/read result
type resourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// HandleRequest implements the transport request handler
func (s *SEGServer) HandleRequest(ctx context.Context, req *protocol.JSONRPCRequest) *protocol.JSONRPCResponse {
	if strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}

	if logging.GetTraceID(ctx) == "" {
		ctx = logging.WithTraceID(ctx, logging.GenerateTraceID())
	}
	s.logger.DebugContext(ctx, "Handling request", "method", req.Method)

	switch req.Method {
	case "ping":
		return result(req.ID, map[string]interface{}{})

	case "resources/list":
		return result(req.ID, map[string]interface{}{"resources": s.ListResources()})

	case "resources/read":
		var p resourceReadParams
		if err := s.decodeParams(req.Params, &p, "uri"); err != nil {
			return s.errors.HandleJSONRPCError(err, req.ID)
		}
		text, err := s.ReadResource(ctx, p.URI)
		if err != nil {
			return s.errors.HandleJSONRPCError(err, req.ID)
		}
		return result(req.ID, map[string]interface{}{
			"contents": []resourceContents{{URI: p.URI, MimeType: s.mimeType(p.URI), Text: text}},
		})

	case "tools/list":
		return result(req.ID, map[string]interface{}{"tools": s.ListTools()})

	case "tools/call":
		var p toolCallParams
		if err := s.decodeParams(req.Params, &p, "name"); err != nil {
			return s.errors.HandleJSONRPCError(err, req.ID)
		}
		if _, ok := s.findTool(p.Name); !ok {
			return s.errors.HandleJSONRPCError(segerrors.NewNotFoundError("tool", p.Name), req.ID)
		}
		text, err := s.CallTool(ctx, p.Name, p.Arguments)
		if err != nil {
			return result(req.ID, protocol.NewToolCallError(err.Error()))
		}
		return result(req.ID, protocol.NewToolCallResult(protocol.NewContent(text)))

	case "prompts/list":
		return result(req.ID, map[string]interface{}{"prompts": s.ListPrompts()})

	case "prompts/get":
		var p promptGetParams
		if err := s.decodeParams(req.Params, &p, "name"); err != nil {
			return s.errors.HandleJSONRPCError(err, req.ID)
		}
		res, err := s.GetPrompt(ctx, p.Name, p.Arguments)
		if err != nil {
			return s.errors.HandleJSONRPCError(err, req.ID)
		}
		return result(req.ID, res)

	default:
		return s.mcpServer.HandleRequest(ctx, req)
	}
}

func (s *SEGServer) decodeParams(params interface{}, out interface{}, required ...string) error {
	m, ok := params.(map[string]interface{})
	if !ok {
		return segerrors.NewValidationError("params", "must be an object", nil)
	}
	if err := s.errors.ValidateRequiredParams(m, required); err != nil {
		return err
	}
	return decodeArgs(m, out)
}

func result(id interface{}, v interface{}) *protocol.JSONRPCResponse {
	return &protocol.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  v,
	}
}
