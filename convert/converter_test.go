package convert

import (
	"fmt"
	"testing"

	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/stretchr/testify/require"
)

func legacySaveGraph() *model.WorkflowGraph {
	return &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"S": {Id: "S", Type: "Sampler", Values: []model.RawValue{int64(1), int64(20), 7.0, "euler", "normal", 1.0}},
			"L": {Id: "L", Type: "LegacySave", Values: []model.RawValue{"output", "png", int64(90)}},
		},
		Links: []model.Link{
			{From: model.Endpoint{Node: "S", Slot: 0}, To: model.Endpoint{Node: "L", Slot: 0}},
			{From: model.Endpoint{Node: "S", Slot: 1}, To: model.Endpoint{Node: "L", Slot: 2}},
		},
	}
}

func TestConvertLegacySave(t *testing.T) {
	c := NewConverter()
	g := legacySaveGraph()
	out, warnings := c.Convert(g)
	require.Empty(t, warnings)

	save := out.Nodes["L"]
	require.Equal(t, "StandardSave", save.Type)
	require.Equal(t, []model.RawValue{"output"}, save.Values)

	// the primary image connection on slot 0 survives end to end
	inbound := out.InboundLinks("L")
	require.Len(t, inbound, 1)
	require.Equal(t, model.Endpoint{Node: "S", Slot: 0}, inbound[0].From)
	require.Equal(t, 0, inbound[0].To.Slot)

	// the original graph is untouched
	require.Equal(t, "LegacySave", g.Nodes["L"].Type)
	require.Len(t, g.Links, 2)
}

func TestConvertIdempotent(t *testing.T) {
	c := NewConverter()
	once, _ := c.Convert(legacySaveGraph())
	twice, _ := c.Convert(once)
	require.Equal(t, once.Nodes, twice.Nodes)
	require.Equal(t, once.Links, twice.Links)
}

func TestConvertFailureLeavesNode(t *testing.T) {
	c := NewConverter()
	c.Register("Broken", Rule{
		NewType: "Fixed",
		Remap: func(node *model.Node, inbound []model.Link, outbound []model.Link) ([]model.RawValue, []model.Link, error) {
			return nil, nil, fmt.Errorf("can not remap")
		},
	})
	g := &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"B": {Id: "B", Type: "Broken", Values: []model.RawValue{int64(1)}},
			"O": {Id: "O", Type: "Other", Values: nil},
		},
		Links: []model.Link{
			{From: model.Endpoint{Node: "O", Slot: 0}, To: model.Endpoint{Node: "B", Slot: 0}},
		},
	}
	out, warnings := c.Convert(g)
	require.Len(t, warnings, 1)
	_, ok := warnings[0].(ConversionError)
	require.True(t, ok)

	// the failing node and its links are left as-is
	require.Equal(t, "Broken", out.Nodes["B"].Type)
	require.Len(t, out.Links, 1)
}

func TestScriptRule(t *testing.T) {
	c := NewConverter()
	RegisterScriptRules(c, map[string]config.ScriptRule{
		"OldScale": {
			NewType:    "NewScale",
			Expression: `$ = {values: [$.values[0] * 2], links: $.inbound.concat($.outbound)};`,
		},
	})
	g := &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"X": {Id: "X", Type: "OldScale", Values: []model.RawValue{int64(2)}},
		},
	}
	out, warnings := c.Convert(g)
	require.Empty(t, warnings)
	require.Equal(t, "NewScale", out.Nodes["X"].Type)
	require.Equal(t, []model.RawValue{int64(4)}, out.Nodes["X"].Values)
}
