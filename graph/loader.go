package graph

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mohitkumar/nodebridge/model"
)

type nodeDoc struct {
	Id       model.NodeId      `json:"id"`
	Type     string            `json:"type"`
	Title    string            `json:"title,omitempty"`
	Values   []json.RawMessage `json:"values"`
	Position []float64         `json:"position,omitempty"`
}

type graphDoc struct {
	Nodes []nodeDoc    `json:"nodes"`
	Links []model.Link `json:"links"`
}

// Parse decodes a serialized graph document into a WorkflowGraph. It is a
// pure function of its input and fails with GraphParseError on a malformed
// document, a duplicate node id, or a link endpoint referencing a missing
// node.
func Parse(data []byte) (*model.WorkflowGraph, error) {
	var doc graphDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, NewGraphParseError("malformed document: %v", err)
	}
	g := &model.WorkflowGraph{
		Nodes: make(map[model.NodeId]*model.Node, len(doc.Nodes)),
		Links: doc.Links,
	}
	for _, nd := range doc.Nodes {
		if nd.Id == "" {
			return nil, NewGraphParseError("node with empty id")
		}
		if _, exists := g.Nodes[nd.Id]; exists {
			return nil, NewGraphParseError("duplicate node id %s", nd.Id)
		}
		values, err := decodeValues(nd)
		if err != nil {
			return nil, err
		}
		g.Nodes[nd.Id] = &model.Node{
			Id:       nd.Id,
			Type:     nd.Type,
			Title:    nd.Title,
			Values:   values,
			Position: nd.Position,
		}
	}
	for _, l := range g.Links {
		if _, ok := g.Nodes[l.From.Node]; !ok {
			return nil, NewGraphParseError("link references missing node %s", l.From.Node)
		}
		if _, ok := g.Nodes[l.To.Node]; !ok {
			return nil, NewGraphParseError("link references missing node %s", l.To.Node)
		}
	}
	return g, nil
}

func decodeValues(nd nodeDoc) ([]model.RawValue, error) {
	values := make([]model.RawValue, 0, len(nd.Values))
	for pos, raw := range nd.Values {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, NewGraphParseError("node %s value %d undecodable: %v", nd.Id, pos, err)
		}
		rv, err := normalizeValue(v)
		if err != nil {
			return nil, NewGraphParseError("node %s value %d: %v", nd.Id, pos, err)
		}
		values = append(values, rv)
	}
	return values, nil
}

// normalizeValue maps a decoded json value onto the four RawValue shapes.
// Numbers written without a fractional part stay integers, so that a later
// re-serialization round-trips losslessly.
func normalizeValue(v any) (model.RawValue, error) {
	switch tv := v.(type) {
	case bool:
		return tv, nil
	case string:
		return tv, nil
	case json.Number:
		s := tv.String()
		if strings.ContainsAny(s, ".eE") {
			f, err := tv.Float64()
			if err != nil {
				return nil, NewGraphParseError("bad number %q", s)
			}
			return f, nil
		}
		i, err := tv.Int64()
		if err != nil {
			return nil, NewGraphParseError("bad number %q", s)
		}
		return i, nil
	default:
		return nil, NewGraphParseError("unsupported value shape %T", v)
	}
}
