package persistence

import (
	"sync"

	"github.com/mohitkumar/nodebridge/model"
)

// InMemoryOverrideStorage keeps overrides for the process lifetime only.
// Used as the memory storage-impl and in tests. Saves arrive on the
// persister worker goroutine while loads arrive on the caller's, mu guards
// the document.
type InMemoryOverrideStorage struct {
	mu  sync.Mutex
	doc OverrideDocument
}

var _ OverrideStorage = new(InMemoryOverrideStorage)

func NewInMemoryOverrideStorage() *InMemoryOverrideStorage {
	return &InMemoryOverrideStorage{
		doc: OverrideDocument{
			NodeInfo: make(map[model.NodeId]NodeInfo),
		},
	}
}

func (s *InMemoryOverrideStorage) LoadOverrides() ([]model.ParameterOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ExpandDocument(&s.doc), nil
}

func (s *InMemoryOverrideStorage) SaveGroup(group *model.ParameterGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.NodeInfo[group.NodeId] = GroupToNodeInfo(group)
	s.refreshSelected()
	return nil
}

func (s *InMemoryOverrideStorage) DeleteGroup(nodeId model.NodeId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc.NodeInfo, nodeId)
	s.refreshSelected()
	return nil
}

func (s *InMemoryOverrideStorage) refreshSelected() {
	s.doc.SelectedNodes = s.doc.SelectedNodes[:0]
	for id := range s.doc.NodeInfo {
		s.doc.SelectedNodes = append(s.doc.SelectedNodes, id)
	}
}
