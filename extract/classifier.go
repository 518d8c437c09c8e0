package extract

import (
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/schema"
)

// Classifier partitions graph nodes into hidden, statically known and
// dynamically inferred. Classification is total and deterministic, there is
// no fallback ambiguity.
type Classifier struct {
	registry *schema.Registry
	hidden   map[string]struct{}
}

func NewClassifier(registry *schema.Registry, hiddenTypes []string) *Classifier {
	hidden := make(map[string]struct{}, len(hiddenTypes))
	for _, t := range hiddenTypes {
		hidden[t] = struct{}{}
	}
	return &Classifier{
		registry: registry,
		hidden:   hidden,
	}
}

func (c *Classifier) Classify(n *model.Node) model.NodeClass {
	if _, ok := c.hidden[n.Type]; ok {
		return model.NODE_CLASS_HIDDEN
	}
	if c.registry.Has(n.Type) {
		return model.NODE_CLASS_STATIC_KNOWN
	}
	return model.NODE_CLASS_DYNAMIC_UNKNOWN
}

func (c *Classifier) ClassifyGraph(g *model.WorkflowGraph) map[model.NodeId]model.NodeClass {
	classes := make(map[model.NodeId]model.NodeClass, len(g.Nodes))
	for id, n := range g.Nodes {
		classes[id] = c.Classify(n)
	}
	return classes
}
