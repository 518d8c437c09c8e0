package extract

import (
	"strings"

	"github.com/mohitkumar/nodebridge/model"
)

// External editors occasionally reorder a node's value list between
// versions, which silently swaps positionally bound parameters (seen in the
// wild as seed and size trading places). flagSuspects marks descriptors
// whose value is implausible for their schema name so the caller can review
// them. It never rewrites a binding.
func flagSuspects(descriptors []*model.ParameterDescriptor) {
	for _, d := range descriptors {
		v, ok := d.Value.(int64)
		if !ok {
			continue
		}
		name := strings.ToLower(d.Name)
		switch {
		case strings.Contains(name, "seed"):
			if looksLikeDimension(v) {
				d.Suspect = true
				d.SuspectReason = "seed-named parameter holds a resolution-like value"
			}
		case name == "width" || name == "height":
			if looksLikeSeed(v) {
				d.Suspect = true
				d.SuspectReason = "dimension-named parameter holds a seed-like value"
			}
		}
	}
}

// looksLikeDimension matches the range produced by image size widgets,
// multiples of 8 between 16 and 16384.
func looksLikeDimension(v int64) bool {
	return v >= 16 && v <= 16384 && v%8 == 0
}

func looksLikeSeed(v int64) bool {
	return v < 0 || v > 16384
}
