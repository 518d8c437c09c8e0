package extract

import (
	"testing"

	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/schema"
	"github.com/stretchr/testify/require"
)

func samplerNode(id model.NodeId) *model.Node {
	return &model.Node{
		Id:     id,
		Type:   "Sampler",
		Values: []model.RawValue{int64(12345), int64(20), 7.0, "euler", "normal", 1.0},
	}
}

func TestClassifier(t *testing.T) {
	registry := schema.NewRegistry()
	classifier := NewClassifier(registry, []string{"Reroute", "Note"})

	require.Equal(t, model.NODE_CLASS_HIDDEN, classifier.Classify(&model.Node{Id: "1", Type: "Reroute"}))
	require.Equal(t, model.NODE_CLASS_STATIC_KNOWN, classifier.Classify(samplerNode("2")))
	require.Equal(t, model.NODE_CLASS_DYNAMIC_UNKNOWN, classifier.Classify(&model.Node{Id: "3", Type: "NeverSeenBefore"}))
}

func TestStaticExtract(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, se *StaticExtractor){
		"test sampler schema binding": testSamplerBinding,
		"test schema mismatch":        testSchemaMismatch,
		"test suspect flagging":       testSuspectFlagging,
	} {
		t.Run(scenario, func(t *testing.T) {
			se := NewStaticExtractor(schema.NewRegistry())
			fn(t, se)
		})
	}
}

func testSamplerBinding(t *testing.T, se *StaticExtractor) {
	descriptors, err := se.Extract(samplerNode("A"))
	require.NoError(t, err)
	require.Len(t, descriptors, 6)

	names := []string{"seed", "steps", "cfg", "sampler", "scheduler", "denoise"}
	kinds := []model.ValueKind{model.KIND_INTEGER, model.KIND_INTEGER, model.KIND_FLOAT, model.KIND_ENUM, model.KIND_ENUM, model.KIND_FLOAT}
	for i, d := range descriptors {
		require.Equal(t, names[i], d.Name)
		require.Equal(t, kinds[i], d.Kind)
		require.Equal(t, i, d.Position)
		require.Equal(t, model.NodeId("A"), d.OwnerNodeId)
		require.Equal(t, model.SOURCE_STATIC, d.Source)
	}
}

func testSchemaMismatch(t *testing.T, se *StaticExtractor) {
	short := &model.Node{
		Id:     "B",
		Type:   "Sampler",
		Values: []model.RawValue{int64(1), int64(2)},
	}
	_, err := se.Extract(short)
	require.Error(t, err)
	mismatch, ok := err.(SchemaMismatchError)
	require.True(t, ok)
	require.Equal(t, 6, mismatch.Expected)
	require.Equal(t, 2, mismatch.Actual)
}

func testSuspectFlagging(t *testing.T, se *StaticExtractor) {
	// seed and width swapped by a misbehaving editor
	swapped := samplerNode("C")
	swapped.Values[0] = int64(512)
	descriptors, err := se.Extract(swapped)
	require.NoError(t, err)
	require.True(t, descriptors[0].Suspect)
	require.NotEmpty(t, descriptors[0].SuspectReason)
	// the binding itself is untouched
	require.Equal(t, int64(512), descriptors[0].Value)
	require.Equal(t, "seed", descriptors[0].Name)
}

func TestDynamicExtract(t *testing.T) {
	de := NewDynamicExtractor(config.ExtractConfig{})
	node := &model.Node{
		Id:     "U",
		Type:   "UnknownUpscaler",
		Values: []model.RawValue{int64(512), "nearest", 2.0},
	}
	descriptors := de.Extract(node)
	require.Len(t, descriptors, 3)

	require.Equal(t, model.KIND_INTEGER, descriptors[0].Kind)
	require.Equal(t, model.KIND_STRING, descriptors[1].Kind)
	require.Equal(t, model.KIND_FLOAT, descriptors[2].Kind)
	require.Equal(t, "UnknownUpscaler#0", descriptors[0].Name)
	require.Equal(t, "UnknownUpscaler#1", descriptors[1].Name)
	require.Equal(t, "UnknownUpscaler#2", descriptors[2].Name)

	require.Equal(t, 0.0, *descriptors[0].Constraints.Min)
	require.Equal(t, 1_000_000.0, *descriptors[0].Constraints.Max)
	require.Equal(t, -1_000_000.0, *descriptors[2].Constraints.Min)
	require.Equal(t, 0.01, *descriptors[2].Constraints.Step)
	require.Nil(t, descriptors[1].Constraints)
}

func TestDynamicExtractDeterministic(t *testing.T) {
	de := NewDynamicExtractor(config.ExtractConfig{})
	node := &model.Node{
		Id:     "U",
		Type:   "UnknownUpscaler",
		Values: []model.RawValue{int64(512), "nearest", 2.0, true},
	}
	first := de.Extract(node)
	second := de.Extract(node)
	require.Equal(t, first, second)
}

func TestEnumPromotion(t *testing.T) {
	de := NewDynamicExtractor(config.ExtractConfig{EnumPromotionMinCount: 2})
	g := &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"a": {Id: "a", Type: "UnknownUpscaler", Values: []model.RawValue{int64(512), "nearest"}},
			"b": {Id: "b", Type: "UnknownUpscaler", Values: []model.RawValue{int64(1024), "bilinear"}},
		},
	}
	classes := map[model.NodeId]model.NodeClass{
		"a": model.NODE_CLASS_DYNAMIC_UNKNOWN,
		"b": model.NODE_CLASS_DYNAMIC_UNKNOWN,
	}
	de.Observe(g, classes)

	descriptors := de.Extract(g.Nodes["a"])
	require.Equal(t, model.KIND_ENUM, descriptors[1].Kind)
	require.ElementsMatch(t, []string{"nearest", "bilinear"}, descriptors[1].Constraints.Choices)
}

func TestEnumPromotionNotAcrossLoadsByDefault(t *testing.T) {
	de := NewDynamicExtractor(config.ExtractConfig{EnumPromotionMinCount: 2})
	first := &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"a": {Id: "a", Type: "UnknownUpscaler", Values: []model.RawValue{"nearest"}},
		},
	}
	second := &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"b": {Id: "b", Type: "UnknownUpscaler", Values: []model.RawValue{"bilinear"}},
		},
	}
	classes := func(id model.NodeId) map[model.NodeId]model.NodeClass {
		return map[model.NodeId]model.NodeClass{id: model.NODE_CLASS_DYNAMIC_UNKNOWN}
	}
	de.Observe(first, classes("a"))
	de.Observe(second, classes("b"))

	// the first load's observation was flushed, only one distinct value
	// remains and no promotion happens
	descriptors := de.Extract(second.Nodes["b"])
	require.Equal(t, model.KIND_STRING, descriptors[0].Kind)
}

func TestEnumPromotionPersistsWhenConfigured(t *testing.T) {
	de := NewDynamicExtractor(config.ExtractConfig{EnumPromotionMinCount: 2, PersistChoicesAcrossLoads: true})
	first := &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"a": {Id: "a", Type: "UnknownUpscaler", Values: []model.RawValue{"nearest"}},
		},
	}
	second := &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"b": {Id: "b", Type: "UnknownUpscaler", Values: []model.RawValue{"bilinear"}},
		},
	}
	de.Observe(first, map[model.NodeId]model.NodeClass{"a": model.NODE_CLASS_DYNAMIC_UNKNOWN})
	de.Observe(second, map[model.NodeId]model.NodeClass{"b": model.NODE_CLASS_DYNAMIC_UNKNOWN})

	descriptors := de.Extract(second.Nodes["b"])
	require.Equal(t, model.KIND_ENUM, descriptors[0].Kind)
	require.ElementsMatch(t, []string{"nearest", "bilinear"}, descriptors[0].Constraints.Choices)
}
