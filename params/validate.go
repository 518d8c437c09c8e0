package params

import (
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/util"
)

// coerce maps a caller supplied value onto the descriptor's kind, widening
// integer shapes where that loses nothing. A shape mismatch is a
// ValidationError.
func coerce(d *model.ParameterDescriptor, value model.RawValue) (model.RawValue, error) {
	switch d.Kind {
	case model.KIND_BOOLEAN:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case model.KIND_INTEGER:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			// persisted overrides come back from json as float64
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		}
	case model.KIND_FLOAT:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case model.KIND_STRING, model.KIND_ENUM:
		if s, ok := value.(string); ok {
			return s, nil
		}
	}
	return nil, newValidationError(d.OwnerNodeId, d.Position, "value %v does not fit kind %s", value, d.Kind)
}

func checkConstraints(d *model.ParameterDescriptor, value model.RawValue) error {
	if d.Constraints == nil {
		return nil
	}
	switch v := value.(type) {
	case int64:
		return checkRange(d, float64(v))
	case float64:
		return checkRange(d, v)
	case string:
		if len(d.Constraints.Choices) > 0 && !util.Contains(d.Constraints.Choices, v) {
			return newValidationError(d.OwnerNodeId, d.Position, "value %q is not one of the allowed choices", v)
		}
	}
	return nil
}

func checkRange(d *model.ParameterDescriptor, v float64) error {
	if d.Constraints.Min != nil && v < *d.Constraints.Min {
		return newValidationError(d.OwnerNodeId, d.Position, "value %v below minimum %v", v, *d.Constraints.Min)
	}
	if d.Constraints.Max != nil && v > *d.Constraints.Max {
		return newValidationError(d.OwnerNodeId, d.Position, "value %v above maximum %v", v, *d.Constraints.Max)
	}
	return nil
}
