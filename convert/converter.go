package convert

import (
	"github.com/mohitkumar/nodebridge/graph"
	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"go.uber.org/zap"
)

// Remap receives the old node together with its inbound and outbound links
// and returns the replacement value list and link set. Returned links fully
// replace every link touching the node.
type Remap func(node *model.Node, inbound []model.Link, outbound []model.Link) ([]model.RawValue, []model.Link, error)

type Rule struct {
	NewType string
	Remap   Remap
}

// Converter rewrites node types the remote engine cannot execute natively
// into accepted equivalents. It only ever touches a copy of the graph.
type Converter struct {
	rules    map[string]Rule
	newTypes map[string]struct{}
}

func NewConverter() *Converter {
	c := &Converter{
		rules:    make(map[string]Rule),
		newTypes: make(map[string]struct{}),
	}
	registerBuiltinRules(c)
	return c
}

func (c *Converter) Register(oldType string, rule Rule) {
	c.rules[oldType] = rule
	c.newTypes[rule.NewType] = struct{}{}
}

// Convert returns a rewritten copy of the graph plus per-node warnings for
// rules that failed. Running Convert on an already converted graph is a
// no-op, a node whose type is a rule target is never rewritten again.
func (c *Converter) Convert(g *model.WorkflowGraph) (*model.WorkflowGraph, []error) {
	out := graph.Copy(g)
	var warnings []error
	for id, n := range out.Nodes {
		if _, converted := c.newTypes[n.Type]; converted {
			continue
		}
		rule, ok := c.rules[n.Type]
		if !ok {
			continue
		}
		inbound := out.InboundLinks(id)
		outbound := out.OutboundLinks(id)
		values, links, err := rule.Remap(n, inbound, outbound)
		if err != nil {
			warn := ConversionError{NodeId: id, OldType: n.Type, Message: err.Error()}
			logger.Warn("leaving node unconverted", zap.String("node", string(id)), zap.String("type", n.Type), zap.Error(err))
			warnings = append(warnings, warn)
			continue
		}
		replaceNodeLinks(out, id, links)
		n.Type = rule.NewType
		n.Values = values
	}
	return out, warnings
}

// replaceNodeLinks drops every link touching the node and appends the
// remapped set, preserving the relative order of untouched links.
func replaceNodeLinks(g *model.WorkflowGraph, id model.NodeId, replacement []model.Link) {
	kept := g.Links[:0]
	for _, l := range g.Links {
		if l.From.Node == id || l.To.Node == id {
			continue
		}
		kept = append(kept, l)
	}
	g.Links = append(kept, replacement...)
}
