package inject

import (
	"github.com/mohitkumar/nodebridge/graph"
	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"go.uber.org/zap"
)

// GroupSource is the read side of the parameter store.
type GroupSource interface {
	GetGroups() []*model.ParameterGroup
}

// DisableRule rewires a bypassed node's links so downstream nodes are
// unaffected. The returned links fully replace every link touching the
// node. A nil return leaves the node's links untouched.
type DisableRule func(node *model.Node, inbound []model.Link, outbound []model.Link) []model.Link

// Injector freezes the current parameter surface into a submission-ready
// copy of the graph. It never mutates the loaded graph or the store, same
// inputs always produce the same output graph.
type Injector struct {
	disableRules map[string]DisableRule
}

func NewInjector() *Injector {
	return &Injector{
		disableRules: make(map[string]DisableRule),
	}
}

func (in *Injector) RegisterDisableRule(nodeType string, rule DisableRule) {
	in.disableRules[nodeType] = rule
}

// Inject deep copies the graph and overwrites values[position] of every
// non-bypassed surfaced node with the store's current value. Bypassed nodes
// keep their loaded values and, when a disable rule is registered for their
// type, have their links rewired. Link topology of non-bypassed nodes is
// never altered here.
func (in *Injector) Inject(g *model.WorkflowGraph, source GroupSource) *model.WorkflowGraph {
	out := graph.Copy(g)
	for _, group := range source.GetGroups() {
		node, ok := out.GetNode(group.NodeId)
		if !ok {
			continue
		}
		if group.Bypassed {
			in.applyDisableRule(out, node)
			continue
		}
		for _, d := range group.Descriptors {
			if d.Position < 0 || d.Position >= len(node.Values) {
				logger.Warn("descriptor position outside node values, skipping", zap.String("node", string(node.Id)), zap.Int("position", d.Position))
				continue
			}
			node.Values[d.Position] = d.Value
		}
	}
	return out
}

func (in *Injector) applyDisableRule(g *model.WorkflowGraph, node *model.Node) {
	rule, ok := in.disableRules[node.Type]
	if !ok {
		return
	}
	replacement := rule(node, g.InboundLinks(node.Id), g.OutboundLinks(node.Id))
	if replacement == nil {
		return
	}
	kept := g.Links[:0]
	for _, l := range g.Links {
		if l.From.Node == node.Id || l.To.Node == node.Id {
			continue
		}
		kept = append(kept, l)
	}
	g.Links = append(kept, replacement...)
}

// PassThroughRule bridges a bypassed node, connecting the source feeding
// its input slot directly to every consumer of its output slot.
func PassThroughRule(inputSlot int, outputSlot int) DisableRule {
	return func(node *model.Node, inbound []model.Link, outbound []model.Link) []model.Link {
		var source *model.Endpoint
		for _, l := range inbound {
			if l.To.Slot == inputSlot {
				ep := l.From
				source = &ep
				break
			}
		}
		if source == nil {
			return nil
		}
		var links []model.Link
		for _, l := range outbound {
			if l.From.Slot != outputSlot {
				links = append(links, l)
				continue
			}
			links = append(links, model.Link{From: *source, To: l.To})
		}
		return links
	}
}
