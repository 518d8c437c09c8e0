package graph

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/mohitkumar/nodebridge/model"
)

// Marshal serializes a WorkflowGraph back into the document format accepted
// by Parse. Nodes are emitted sorted by id so the output is deterministic,
// and float values keep their fractional notation so a whole-valued float
// does not come back as an integer.
func Marshal(g *model.WorkflowGraph) ([]byte, error) {
	doc := graphDoc{
		Nodes: make([]nodeDoc, 0, len(g.Nodes)),
		Links: g.Links,
	}
	for _, n := range g.Nodes {
		nd := nodeDoc{
			Id:       n.Id,
			Type:     n.Type,
			Title:    n.Title,
			Position: n.Position,
			Values:   make([]json.RawMessage, 0, len(n.Values)),
		}
		for _, v := range n.Values {
			raw, err := encodeValue(v)
			if err != nil {
				return nil, err
			}
			nd.Values = append(nd.Values, raw)
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	sort.Slice(doc.Nodes, func(i, j int) bool {
		return doc.Nodes[i].Id < doc.Nodes[j].Id
	})
	if doc.Links == nil {
		doc.Links = []model.Link{}
	}
	return json.Marshal(doc)
}

func encodeValue(v model.RawValue) (json.RawMessage, error) {
	switch tv := v.(type) {
	case int64:
		return json.RawMessage(strconv.FormatInt(tv, 10)), nil
	case float64:
		s := strconv.FormatFloat(tv, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return json.RawMessage(s), nil
	default:
		return json.Marshal(v)
	}
}
