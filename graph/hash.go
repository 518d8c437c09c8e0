package graph

import (
	"github.com/mohitkumar/nodebridge/model"
	"github.com/spaolacci/murmur3"
)

// Hash computes a content hash over the canonical serialization of the
// graph. Two structurally equal graphs hash identically, which the monitor
// uses to recognize resubmissions of an unchanged graph.
func Hash(g *model.WorkflowGraph) uint64 {
	data, err := Marshal(g)
	if err != nil {
		return 0
	}
	return murmur3.Sum64(data)
}
