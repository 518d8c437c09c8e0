package schema

import (
	"github.com/mohitkumar/nodebridge/model"
)

type SchemaEntry struct {
	Name        string
	Kind        model.ValueKind
	Constraints *model.Constraints
	UIHint      string
}

// Registry maps a node type to its ordered parameter schema. Entry order
// mirrors the node's value list, binding is positional.
type Registry struct {
	schemas map[string][]SchemaEntry
}

func NewRegistry() *Registry {
	r := &Registry{
		schemas: make(map[string][]SchemaEntry),
	}
	registerBuiltins(r)
	return r
}

func (r *Registry) Register(nodeType string, entries []SchemaEntry) {
	r.schemas[nodeType] = entries
}

func (r *Registry) Lookup(nodeType string) ([]SchemaEntry, bool) {
	entries, ok := r.schemas[nodeType]
	return entries, ok
}

func (r *Registry) Has(nodeType string) bool {
	_, ok := r.schemas[nodeType]
	return ok
}
