package graph

import (
	"github.com/mohitkumar/nodebridge/model"
)

// Copy returns a deep copy of the graph. Loaded graphs are treated as
// immutable, every mutating step works on a copy produced here.
func Copy(g *model.WorkflowGraph) *model.WorkflowGraph {
	out := &model.WorkflowGraph{
		Nodes: make(map[model.NodeId]*model.Node, len(g.Nodes)),
		Links: make([]model.Link, len(g.Links)),
	}
	copy(out.Links, g.Links)
	for id, n := range g.Nodes {
		nc := &model.Node{
			Id:    n.Id,
			Type:  n.Type,
			Title: n.Title,
		}
		if n.Values != nil {
			nc.Values = make([]model.RawValue, len(n.Values))
			copy(nc.Values, n.Values)
		}
		if n.Position != nil {
			nc.Position = make([]float64, len(n.Position))
			copy(nc.Position, n.Position)
		}
		out.Nodes[id] = nc
	}
	return out
}
