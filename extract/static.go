package extract

import (
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/schema"
)

// StaticExtractor binds a registered schema to a node's value list by
// position.
type StaticExtractor struct {
	registry *schema.Registry
}

func NewStaticExtractor(registry *schema.Registry) *StaticExtractor {
	return &StaticExtractor{registry: registry}
}

// Extract zips values[i] with the schema entry at i. A node carrying fewer
// values than its schema expects fails with SchemaMismatchError so the
// caller can degrade it to dynamic handling. Trailing values beyond the
// schema are left unsurfaced.
func (se *StaticExtractor) Extract(n *model.Node) ([]*model.ParameterDescriptor, error) {
	entries, ok := se.registry.Lookup(n.Type)
	if !ok {
		return nil, SchemaMismatchError{NodeId: n.Id, NodeType: n.Type, Expected: 0, Actual: len(n.Values)}
	}
	if len(n.Values) < len(entries) {
		return nil, SchemaMismatchError{NodeId: n.Id, NodeType: n.Type, Expected: len(entries), Actual: len(n.Values)}
	}
	descriptors := make([]*model.ParameterDescriptor, 0, len(entries))
	for i, entry := range entries {
		descriptors = append(descriptors, &model.ParameterDescriptor{
			OwnerNodeId: n.Id,
			Position:    i,
			Name:        entry.Name,
			Kind:        entry.Kind,
			Constraints: entry.Constraints,
			Source:      model.SOURCE_STATIC,
			UIHint:      entry.UIHint,
			Value:       n.Values[i],
		})
	}
	flagSuspects(descriptors)
	return descriptors, nil
}
