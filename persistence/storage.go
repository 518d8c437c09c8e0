package persistence

import (
	"fmt"

	"github.com/mohitkumar/nodebridge/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

// NodeInfo is the persisted snapshot of one surfaced node, the unit stored
// in the override document.
type NodeInfo struct {
	Type      string           `json:"type"`
	Title     string           `json:"title,omitempty"`
	Values    []model.RawValue `json:"values"`
	Supported bool             `json:"supported"`
}

// OverrideDocument is the on-disk shape of persisted user edits.
type OverrideDocument struct {
	SelectedNodes []model.NodeId            `json:"selected_nodes"`
	NodeInfo      map[model.NodeId]NodeInfo `json:"node_info"`
}

// OverrideStorage persists user parameter edits across sessions. Writes are
// fire-and-forget from the store's point of view, a failed write is logged
// and never blocks the in-memory update.
type OverrideStorage interface {
	// LoadOverrides expands the persisted document into per-position
	// override records.
	LoadOverrides() ([]model.ParameterOverride, error)
	// SaveGroup persists the current state of one parameter group.
	SaveGroup(group *model.ParameterGroup) error
	DeleteGroup(nodeId model.NodeId) error
}

// ExpandDocument flattens a persisted document into override records keyed
// by (type, id, position).
func ExpandDocument(doc *OverrideDocument) []model.ParameterOverride {
	var overrides []model.ParameterOverride
	for id, info := range doc.NodeInfo {
		for pos, v := range info.Values {
			overrides = append(overrides, model.ParameterOverride{
				NodeType: info.Type,
				NodeId:   id,
				Position: pos,
				Value:    v,
			})
		}
	}
	return overrides
}

// GroupToNodeInfo snapshots a parameter group into its persisted form.
func GroupToNodeInfo(group *model.ParameterGroup) NodeInfo {
	info := NodeInfo{
		Type:      group.NodeType,
		Title:     group.Title,
		Values:    make([]model.RawValue, len(group.Descriptors)),
		Supported: true,
	}
	for i, d := range group.Descriptors {
		info.Values[i] = d.Value
		if d.Source == model.SOURCE_DYNAMIC {
			info.Supported = false
		}
	}
	return info
}
