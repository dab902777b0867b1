// Package replicants holds the fixed catalog of SEG replicant archetypes and
// the lookups used to assemble councils from it.
package replicants

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"seg-mcp-server/internal/render"
	"seg-mcp-server/pkg/types"

	"gopkg.in/yaml.v3"
)

//go:embed data/archetypes.yaml
var archetypesYAML []byte

// CatalogDescription is reported alongside the archetype names
const CatalogDescription = "The 10 core SEG replicant archetypes for ensemble reasoning"

// Catalog is an immutable, ordered set of archetypes
type Catalog struct {
	archetypes []types.Archetype
	index      map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. The embedded data is validated by
// tests, so a load failure here is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(archetypesYAML)
		if err != nil {
			panic(fmt.Sprintf("replicants: embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load parses a YAML list of archetypes. Names must be unique and every
// complement must name another archetype in the same list.
func Load(data []byte) (*Catalog, error) {
	var archetypes []types.Archetype
	if err := yaml.Unmarshal(data, &archetypes); err != nil {
		return nil, fmt.Errorf("decode archetypes: %w", err)
	}

	c := &Catalog{
		archetypes: archetypes,
		index:      make(map[string]int, len(archetypes)),
	}
	for i := range archetypes {
		if err := archetypes[i].Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[archetypes[i].Name]; dup {
			return nil, fmt.Errorf("duplicate archetype %q", archetypes[i].Name)
		}
		c.index[archetypes[i].Name] = i
	}
	for _, a := range archetypes {
		for _, comp := range a.Complements {
			if _, ok := c.index[comp]; !ok {
				return nil, fmt.Errorf("archetype %q lists unknown complement %q", a.Name, comp)
			}
		}
	}
	return c, nil
}

// Len returns the number of archetypes
func (c *Catalog) Len() int {
	return len(c.archetypes)
}

// Names returns archetype names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.archetypes))
	for i, a := range c.archetypes {
		names[i] = a.Name
	}
	return names
}

// Has reports whether name is an exact archetype name
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Get looks up an archetype by exact, case-sensitive name
func (c *Catalog) Get(name string) (types.Archetype, bool) {
	i, ok := c.index[name]
	if !ok {
		return types.Archetype{}, false
	}
	return clone(c.archetypes[i]), true
}

// All returns a copy of every archetype in catalog order
func (c *Catalog) All() []types.Archetype {
	out := make([]types.Archetype, len(c.archetypes))
	for i, a := range c.archetypes {
		out[i] = clone(a)
	}
	return out
}

// ByFunction returns the archetypes whose core function, approach or
// subtitle contains fn, case-insensitively
func (c *Catalog) ByFunction(fn string) []string {
	needle := strings.ToLower(fn)
	matches := []string{}
	for _, a := range c.archetypes {
		if strings.Contains(strings.ToLower(a.CoreFunction), needle) ||
			strings.Contains(strings.ToLower(a.Approach), needle) ||
			strings.Contains(strings.ToLower(a.Subtitle), needle) {
			matches = append(matches, a.Name)
		}
	}
	return matches
}

// Complementary returns up to count archetypes that pair well with base.
// An unknown base yields an empty list.
func (c *Catalog) Complementary(base string, count int) []string {
	i, ok := c.index[base]
	if !ok || count <= 0 {
		return []string{}
	}
	comps := c.archetypes[i].Complements
	if count > len(comps) {
		count = len(comps)
	}
	return append([]string{}, comps[:count]...)
}

// Summary is the seg://replicants/all payload
func (c *Catalog) Summary() render.Object {
	return render.Object{
		{Key: "replicants", Value: c.Names()},
		{Key: "count", Value: c.Len()},
		{Key: "description", Value: CatalogDescription},
	}
}

// Detailed maps each name to its full definition, in catalog order
func (c *Catalog) Detailed() render.Object {
	obj := make(render.Object, 0, len(c.archetypes))
	for _, a := range c.archetypes {
		obj = append(obj, render.Field{Key: a.Name, Value: a})
	}
	return obj
}

func clone(a types.Archetype) types.Archetype {
	a.Complements = append([]string(nil), a.Complements...)
	return a
}
