package extract

import (
	"fmt"

	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/util"
	c "github.com/patrickmn/go-cache"
)

const intMin float64 = 0
const intMax float64 = 1_000_000
const floatMin float64 = -1_000_000.0
const floatMax float64 = 1_000_000.0
const floatStep float64 = 0.01

// DynamicExtractor infers a parameter surface for node types with no
// registered schema. It never fails, an unrecognized node always yields a
// usable set of generic controls.
type DynamicExtractor struct {
	conf    config.ExtractConfig
	choices *c.Cache
}

func NewDynamicExtractor(conf config.ExtractConfig) *DynamicExtractor {
	if conf.EnumPromotionMinCount <= 0 {
		conf.EnumPromotionMinCount = 2
	}
	return &DynamicExtractor{
		conf:    conf,
		choices: c.New(c.NoExpiration, 0),
	}
}

// Observe records the distinct string values seen per (type, position)
// across the dynamically classified nodes of a graph. Observations feed the
// enum promotion in Extract. Unless configured to persist across loads, the
// observation set starts fresh on every call.
func (de *DynamicExtractor) Observe(g *model.WorkflowGraph, classes map[model.NodeId]model.NodeClass) {
	if !de.conf.PersistChoicesAcrossLoads {
		de.choices.Flush()
	}
	for id, n := range g.Nodes {
		if classes[id] != model.NODE_CLASS_DYNAMIC_UNKNOWN {
			continue
		}
		for pos, v := range n.Values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			key := choiceKey(n.Type, pos)
			var observed []string
			if cached, found := de.choices.Get(key); found {
				observed = cached.([]string)
			}
			observed = util.Distinct(append(observed, s))
			de.choices.Set(key, observed, c.NoExpiration)
		}
	}
}

func (de *DynamicExtractor) Extract(n *model.Node) []*model.ParameterDescriptor {
	descriptors := make([]*model.ParameterDescriptor, 0, len(n.Values))
	for pos, v := range n.Values {
		d := &model.ParameterDescriptor{
			OwnerNodeId: n.Id,
			Position:    pos,
			Name:        fmt.Sprintf("%s#%d", n.Type, pos),
			Source:      model.SOURCE_DYNAMIC,
			Value:       v,
		}
		switch tv := v.(type) {
		case bool:
			d.Kind = model.KIND_BOOLEAN
			d.UIHint = "toggle"
		case int64:
			d.Kind = model.KIND_INTEGER
			d.Constraints = &model.Constraints{Min: fptr(intMin), Max: fptr(intMax)}
			d.UIHint = "number"
		case float64:
			d.Kind = model.KIND_FLOAT
			d.Constraints = &model.Constraints{Min: fptr(floatMin), Max: fptr(floatMax), Step: fptr(floatStep)}
			d.UIHint = "number"
		case string:
			d.Kind = model.KIND_STRING
			d.UIHint = "text"
			de.promoteEnum(n.Type, pos, tv, d)
		default:
			// anything the loader let through is surfaced as free text
			d.Kind = model.KIND_STRING
			d.Value = fmt.Sprintf("%v", v)
			d.UIHint = "text"
		}
		descriptors = append(descriptors, d)
	}
	return descriptors
}

// promoteEnum upgrades a string parameter to an enum when enough distinct
// sibling values were observed for the same (type, position). Best effort,
// a miss leaves the descriptor as free text.
func (de *DynamicExtractor) promoteEnum(nodeType string, pos int, value string, d *model.ParameterDescriptor) {
	cached, found := de.choices.Get(choiceKey(nodeType, pos))
	if !found {
		return
	}
	observed := cached.([]string)
	if len(observed) < de.conf.EnumPromotionMinCount {
		return
	}
	if !util.Contains(observed, value) {
		return
	}
	d.Kind = model.KIND_ENUM
	d.Constraints = &model.Constraints{Choices: observed}
	d.UIHint = "combo"
}

func choiceKey(nodeType string, pos int) string {
	return fmt.Sprintf("%s:%d", nodeType, pos)
}

func fptr(v float64) *float64 {
	return &v
}
