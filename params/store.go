package params

import (
	"sort"
	"sync"

	"github.com/mohitkumar/nodebridge/extract"
	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/persistence"
	"github.com/mohitkumar/nodebridge/util"
	"go.uber.org/zap"
)

// Store is the single parameter surface presented to the caller. It owns
// every ParameterGroup and ParameterDescriptor it hands out. It is called
// from one goroutine only, persistence is the only asynchronous part.
type Store struct {
	classifier *extract.Classifier
	static     *extract.StaticExtractor
	dynamic    *extract.DynamicExtractor
	storage    persistence.OverrideStorage
	persister  *util.Worker

	groups map[model.NodeId]*model.ParameterGroup
	order  []model.NodeId
}

func NewStore(classifier *extract.Classifier, static *extract.StaticExtractor, dynamic *extract.DynamicExtractor, storage persistence.OverrideStorage, wg *sync.WaitGroup) *Store {
	s := &Store{
		classifier: classifier,
		static:     static,
		dynamic:    dynamic,
		storage:    storage,
		groups:     make(map[model.NodeId]*model.ParameterGroup),
	}
	s.persister = util.NewWorker("override-persister", wg, s.persist, 64)
	return s
}

func (s *Store) Start() {
	s.persister.Start()
}

func (s *Store) Stop() {
	s.persister.Stop()
}

// Build replaces the store contents with groups extracted from the given
// graph. Existing groups are destroyed. Persisted overrides matching
// (type, id, position) win over the value present in the graph.
func (s *Store) Build(g *model.WorkflowGraph) error {
	classes := s.classifier.ClassifyGraph(g)
	s.dynamic.Observe(g, classes)

	groups := make(map[model.NodeId]*model.ParameterGroup)
	var order []model.NodeId
	for id, n := range g.Nodes {
		var descriptors []*model.ParameterDescriptor
		switch classes[id] {
		case model.NODE_CLASS_HIDDEN:
			continue
		case model.NODE_CLASS_STATIC_KNOWN:
			var err error
			descriptors, err = s.static.Extract(n)
			if err != nil {
				logger.Warn("static schema did not fit node, degrading to dynamic extraction", zap.String("node", string(id)), zap.String("type", n.Type), zap.Error(err))
				descriptors = s.dynamic.Extract(n)
			}
		case model.NODE_CLASS_DYNAMIC_UNKNOWN:
			descriptors = s.dynamic.Extract(n)
		}
		groups[id] = &model.ParameterGroup{
			NodeId:      id,
			NodeType:    n.Type,
			Title:       n.Title,
			Descriptors: descriptors,
		}
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	s.groups = groups
	s.order = order
	s.applyOverrides()
	return nil
}

func (s *Store) applyOverrides() {
	overrides, err := s.storage.LoadOverrides()
	if err != nil {
		logger.Warn("could not load persisted overrides, continuing with graph values", zap.Error(err))
		return
	}
	for _, o := range overrides {
		group, ok := s.groups[o.NodeId]
		if !ok || group.NodeType != o.NodeType {
			continue
		}
		d, ok := group.Descriptor(o.Position)
		if !ok {
			continue
		}
		value, err := coerce(d, o.Value)
		if err != nil {
			logger.Warn("dropping incompatible persisted override", zap.String("node", string(o.NodeId)), zap.Int("position", o.Position), zap.Error(err))
			continue
		}
		d.Value = value
	}
}

// GetGroups returns every surfaced group in stable id order. Callers must
// treat the result as read-only and edit through SetValue/SetBypass.
func (s *Store) GetGroups() []*model.ParameterGroup {
	groups := make([]*model.ParameterGroup, 0, len(s.order))
	for _, id := range s.order {
		groups = append(groups, s.groups[id])
	}
	return groups
}

func (s *Store) GetGroup(nodeId model.NodeId) (*model.ParameterGroup, bool) {
	g, ok := s.groups[nodeId]
	return g, ok
}

// SetValue validates the value against the descriptor's kind and
// constraints, updates it in place and schedules a best effort persist.
func (s *Store) SetValue(nodeId model.NodeId, position int, value model.RawValue) error {
	group, ok := s.groups[nodeId]
	if !ok {
		return newValidationError(nodeId, position, "no surfaced node with this id")
	}
	d, ok := group.Descriptor(position)
	if !ok {
		return newValidationError(nodeId, position, "position out of range")
	}
	coerced, err := coerce(d, value)
	if err != nil {
		return err
	}
	if err := checkConstraints(d, coerced); err != nil {
		return err
	}
	d.Value = coerced
	s.schedulePersist(group)
	return nil
}

func (s *Store) SetBypass(nodeId model.NodeId, bypassed bool) error {
	group, ok := s.groups[nodeId]
	if !ok {
		return newValidationError(nodeId, 0, "no surfaced node with this id")
	}
	group.Bypassed = bypassed
	return nil
}

func (s *Store) schedulePersist(group *model.ParameterGroup) {
	snapshot := snapshotGroup(group)
	select {
	case s.persister.Sender() <- snapshot:
	default:
		logger.Warn("override persist queue full, dropping write", zap.String("node", string(group.NodeId)))
	}
}

func (s *Store) persist(a util.Action) error {
	group := a.(*model.ParameterGroup)
	return s.storage.SaveGroup(group)
}

// snapshotGroup copies the group so the persister never races a later edit.
func snapshotGroup(group *model.ParameterGroup) *model.ParameterGroup {
	out := &model.ParameterGroup{
		NodeId:   group.NodeId,
		NodeType: group.NodeType,
		Title:    group.Title,
		Bypassed: group.Bypassed,
	}
	out.Descriptors = make([]*model.ParameterDescriptor, len(group.Descriptors))
	for i, d := range group.Descriptors {
		dc := *d
		out.Descriptors[i] = &dc
	}
	return out
}
