package convert

import (
	"fmt"

	"github.com/mohitkumar/nodebridge/model"
)

// registerBuiltinRules installs the rewrites for node types the engine
// dropped native support for.
func registerBuiltinRules(c *Converter) {
	// LegacySave carried extra format inputs the engine no longer accepts.
	// StandardSave keeps only the filename prefix and the primary image
	// connection on input slot 0.
	c.Register("LegacySave", Rule{
		NewType: "StandardSave",
		Remap: func(node *model.Node, inbound []model.Link, outbound []model.Link) ([]model.RawValue, []model.Link, error) {
			if len(node.Values) == 0 {
				return nil, nil, fmt.Errorf("no filename prefix value")
			}
			values := []model.RawValue{node.Values[0]}
			links := keepInputSlot(inbound, 0)
			links = append(links, outbound...)
			return values, links, nil
		},
	})
	// LegacyCheckpointLoader split configuration over two values, the
	// replacement takes the checkpoint name only.
	c.Register("LegacyCheckpointLoader", Rule{
		NewType: "CheckpointLoader",
		Remap: func(node *model.Node, inbound []model.Link, outbound []model.Link) ([]model.RawValue, []model.Link, error) {
			if len(node.Values) < 1 {
				return nil, nil, fmt.Errorf("no checkpoint name value")
			}
			values := []model.RawValue{node.Values[len(node.Values)-1]}
			links := append([]model.Link{}, inbound...)
			links = append(links, outbound...)
			return values, links, nil
		},
	})
}

// keepInputSlot filters inbound links down to the one carrying the primary
// data connection.
func keepInputSlot(inbound []model.Link, slot int) []model.Link {
	var kept []model.Link
	for _, l := range inbound {
		if l.To.Slot == slot {
			kept = append(kept, l)
		}
	}
	return kept
}
