package params

import (
	"fmt"

	"github.com/mohitkumar/nodebridge/model"
)

// ValidationError rejects a caller edit that does not fit the descriptor's
// kind or constraints. The store is left unchanged.
type ValidationError struct {
	NodeId   model.NodeId
	Position int
	Message  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for node %s position %d, %s", e.NodeId, e.Position, e.Message)
}

func newValidationError(nodeId model.NodeId, position int, format string, args ...any) ValidationError {
	return ValidationError{
		NodeId:   nodeId,
		Position: position,
		Message:  fmt.Sprintf(format, args...),
	}
}
