package graph

import "fmt"

type GraphParseError struct {
	Message string
}

func (e GraphParseError) Error() string {
	return fmt.Sprintf("graph parse error %s", e.Message)
}

func NewGraphParseError(format string, args ...any) GraphParseError {
	return GraphParseError{Message: fmt.Sprintf(format, args...)}
}
