package model

type NodeId string

// RawValue is one positional entry in a node's value list. It holds one of
// bool, int64, float64 or string. Position in the list is the parameter
// identity, there are no names at this level.
type RawValue any

type Node struct {
	Id       NodeId     `json:"id"`
	Type     string     `json:"type"`
	Title    string     `json:"title,omitempty"`
	Values   []RawValue `json:"values"`
	Position []float64  `json:"position,omitempty"`
}

type Endpoint struct {
	Node NodeId `json:"node"`
	Slot int    `json:"slot"`
}

type Link struct {
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
}

type WorkflowGraph struct {
	Nodes map[NodeId]*Node `json:"nodes"`
	Links []Link           `json:"links"`
}

func (g *WorkflowGraph) GetNode(id NodeId) (*Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// InboundLinks returns the links terminating at the given node, in the
// order they appear in the graph's link list.
func (g *WorkflowGraph) InboundLinks(id NodeId) []Link {
	var links []Link
	for _, l := range g.Links {
		if l.To.Node == id {
			links = append(links, l)
		}
	}
	return links
}

func (g *WorkflowGraph) OutboundLinks(id NodeId) []Link {
	var links []Link
	for _, l := range g.Links {
		if l.From.Node == id {
			links = append(links, l)
		}
	}
	return links
}
