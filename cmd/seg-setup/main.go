// seg-setup verifies a SEG MCP server installation and prints how to run it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"seg-mcp-server/internal/config"
	"seg-mcp-server/internal/mcp"
	"seg-mcp-server/internal/storage"
)

const expectedReplicants = 10

// sampleToolArgs exercises every tool without touching the configured store
var sampleToolArgs = map[string]map[string]interface{}{
	mcp.ToolGeneratePersona: {
		"name": "Setup Check", "age": 40, "profession": "Engineer",
		"defining_experience": "discovery of a hidden spring",
	},
	mcp.ToolRunCouncilSession: {
		"premise": "Is the installation healthy?", "replicants": []interface{}{"Bayesian Sage", "Synergy Lover"},
	},
	mcp.ToolAnalyzeThroughLens: {
		"text": "A quiet morning", "persona_or_replicant": "Bayesian Sage",
	},
	mcp.ToolCreateCustomReplicant: {
		"archetype_name": "Setup Probe", "core_function": "verification",
		"directive": "Confirm that every component answers",
	},
	mcp.ToolGetReplicantDetails:        {"replicant_name": "Bayesian Sage"},
	mcp.ToolFindReplicantsByFunction:   {"function": "pattern"},
	mcp.ToolGetComplementaryReplicants: {"base_replicant": "Bayesian Sage"},
	mcp.ToolCreateBalancedCouncil:      {"size": 4},
}

type checkResult struct {
	name string
	err  error
}

type reporter struct {
	out   io.Writer
	title *color.Color
	pass  *color.Color
	fail  *color.Color
	info  *color.Color
}

func newReporter(out io.Writer) *reporter {
	return &reporter{
		out:   out,
		title: color.New(color.FgCyan, color.Bold),
		pass:  color.New(color.FgGreen),
		fail:  color.New(color.FgRed, color.Bold),
		info:  color.New(color.FgYellow),
	}
}

func (r *reporter) report(results []checkResult) bool {
	ok := true
	for _, res := range results {
		if res.err != nil {
			ok = false
			r.fail.Fprintf(r.out, "  ✗ %s: %v\n", res.name, res.err)
			continue
		}
		r.pass.Fprintf(r.out, "  ✓ %s\n", res.name)
	}
	return ok
}

func main() {
	os.Exit(run(context.Background(), os.Stdout))
}

func run(ctx context.Context, out io.Writer) int {
	r := newReporter(out)
	r.title.Fprintln(out, "🎭 SEG (Simulated Experiential Grounding) MCP Server Setup")
	fmt.Fprintln(out)

	cfg, err := config.LoadConfig()
	if err != nil {
		r.report([]checkResult{{name: "configuration", err: err}})
		r.fail.Fprintln(out, "\nSetup failed!")
		return 1
	}

	results := []checkResult{{name: "configuration"}}
	results = append(results, checkServer(ctx, cfg)...)
	results = append(results, checkStore(ctx, cfg))

	if !r.report(results) {
		r.fail.Fprintln(out, "\nSetup failed!")
		return 1
	}

	printUsage(r, cfg)
	r.title.Fprintln(out, "🎉 Setup complete! The SEG framework is ready for MCP integration.")
	return 0
}

// checkServer resolves every resource, tool and prompt through a server
// backed by an in-memory store
func checkServer(ctx context.Context, cfg *config.Config) []checkResult {
	seg := mcp.NewSEGServer(cfg, storage.NewMemoryStore(), nil)
	defer func() { _ = seg.Close() }()

	var results []checkResult

	catalog := checkResult{name: fmt.Sprintf("replicant catalog (%d archetypes)", seg.Catalog().Len())}
	if seg.Catalog().Len() != expectedReplicants {
		catalog.err = fmt.Errorf("expected %d archetypes, found %d", expectedReplicants, seg.Catalog().Len())
	}
	results = append(results, catalog)

	for _, res := range seg.ListResources() {
		_, err := seg.ReadResource(ctx, res.URI)
		results = append(results, checkResult{name: "resource " + res.URI, err: err})
	}

	for _, tool := range seg.ListTools() {
		args, ok := sampleToolArgs[tool.Name]
		if !ok {
			results = append(results, checkResult{name: "tool " + tool.Name, err: fmt.Errorf("no sample arguments")})
			continue
		}
		_, err := seg.CallTool(ctx, tool.Name, args)
		results = append(results, checkResult{name: "tool " + tool.Name, err: err})
	}

	for _, prompt := range seg.ListPrompts() {
		_, err := seg.GetPrompt(ctx, prompt.Name, nil)
		results = append(results, checkResult{name: "prompt " + prompt.Name, err: err})
	}

	return results
}

func checkStore(ctx context.Context, cfg *config.Config) checkResult {
	result := checkResult{name: "persona store (" + cfg.Storage.Provider + ")"}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := storage.NewPersonaStore(ctx, &cfg.Storage)
	if err != nil {
		result.err = err
		return result
	}
	defer func() { _ = store.Close() }()

	result.err = store.Ping(ctx)
	return result
}

func printUsage(r *reporter, cfg *config.Config) {
	seg := mcp.NewSEGServer(cfg, storage.NewMemoryStore(), nil)
	defer func() { _ = seg.Close() }()

	out := r.out
	fmt.Fprintln(out)
	r.title.Fprintln(out, "📖 Usage")
	fmt.Fprintln(out, "  stdio (MCP clients):  server -mode stdio")
	fmt.Fprintf(out, "  HTTP:                 server -mode http   # listens on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Fprintln(out, "                        POST /mcp, GET|POST /sse, GET /ws, GET /health, GET /api/v1/...")

	fmt.Fprintln(out)
	r.title.Fprintln(out, "🛠  Tools")
	for _, tool := range seg.ListTools() {
		fmt.Fprintf(out, "  - %s: %s\n", tool.Name, tool.Description)
	}

	fmt.Fprintln(out)
	r.title.Fprintln(out, "📚 Resources")
	for _, res := range seg.ListResources() {
		fmt.Fprintf(out, "  - %s: %s\n", res.URI, res.Description)
	}

	fmt.Fprintln(out)
	r.title.Fprintln(out, "💬 Prompts")
	for _, prompt := range seg.ListPrompts() {
		fmt.Fprintf(out, "  - %s: %s\n", prompt.Name, prompt.Description)
	}

	fmt.Fprintln(out)
	r.info.Fprintf(out, "Persona storage: %s (set SEG_MCP_STORAGE_PROVIDER to memory, sqlite, postgres or redis)\n\n",
		cfg.Storage.Provider)
}
