package model

type ValueKind string

const KIND_BOOLEAN ValueKind = "BOOLEAN"
const KIND_INTEGER ValueKind = "INTEGER"
const KIND_FLOAT ValueKind = "FLOAT"
const KIND_STRING ValueKind = "STRING"
const KIND_ENUM ValueKind = "ENUM"

type DescriptorSource string

const SOURCE_STATIC DescriptorSource = "STATIC"
const SOURCE_DYNAMIC DescriptorSource = "DYNAMIC"

type NodeClass int

const NODE_CLASS_HIDDEN NodeClass = 1
const NODE_CLASS_STATIC_KNOWN NodeClass = 2
const NODE_CLASS_DYNAMIC_UNKNOWN NodeClass = 3

type Constraints struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Step    *float64 `json:"step,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

type ParameterDescriptor struct {
	OwnerNodeId   NodeId           `json:"ownerNodeId"`
	Position      int              `json:"position"`
	Name          string           `json:"name"`
	Kind          ValueKind        `json:"kind"`
	Constraints   *Constraints     `json:"constraints,omitempty"`
	Source        DescriptorSource `json:"source"`
	UIHint        string           `json:"uiHint,omitempty"`
	Value         RawValue         `json:"value"`
	Suspect       bool             `json:"suspect,omitempty"`
	SuspectReason string           `json:"suspectReason,omitempty"`
}

type ParameterGroup struct {
	NodeId      NodeId                 `json:"nodeId"`
	NodeType    string                 `json:"nodeType"`
	Title       string                 `json:"title,omitempty"`
	Descriptors []*ParameterDescriptor `json:"descriptors"`
	Bypassed    bool                   `json:"bypassed"`
}

func (g *ParameterGroup) Descriptor(position int) (*ParameterDescriptor, bool) {
	if position < 0 || position >= len(g.Descriptors) {
		return nil, false
	}
	return g.Descriptors[position], true
}

type ParameterOverride struct {
	NodeType string   `json:"nodeType"`
	NodeId   NodeId   `json:"nodeId"`
	Position int      `json:"position"`
	Value    RawValue `json:"value"`
}
