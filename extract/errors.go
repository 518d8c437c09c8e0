package extract

import (
	"fmt"

	"github.com/mohitkumar/nodebridge/model"
)

// SchemaMismatchError reports a static schema longer than the node's value
// list. It is non-fatal, the node degrades to dynamic extraction.
type SchemaMismatchError struct {
	NodeId   model.NodeId
	NodeType string
	Expected int
	Actual   int
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch for node %s type %s, schema has %d entries but node has %d values", e.NodeId, e.NodeType, e.Expected, e.Actual)
}
