package convert

import (
	"fmt"

	"github.com/mohitkumar/nodebridge/model"
)

// ConversionError reports one node that could not be rewritten. It is
// surfaced as a warning, the node is left unconverted and submission
// proceeds.
type ConversionError struct {
	NodeId  model.NodeId
	OldType string
	Message string
}

func (e ConversionError) Error() string {
	return fmt.Sprintf("conversion error for node %s type %s, %s", e.NodeId, e.OldType, e.Message)
}
