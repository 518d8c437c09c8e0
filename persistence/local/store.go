package local

import (
	"os"
	"sort"
	"sync"

	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/persistence"
	"github.com/mohitkumar/nodebridge/util"
)

// LocalOverrideStorage persists the override document as a single json file
// at the configured path. The whole document is rewritten on every save,
// edits are small and infrequent. Saves arrive on the persister worker
// goroutine while loads arrive on the caller's, mu guards the document.
type LocalOverrideStorage struct {
	path   string
	encdec util.EncoderDecoder[persistence.OverrideDocument]
	mu     sync.Mutex
	doc    *persistence.OverrideDocument
}

var _ persistence.OverrideStorage = new(LocalOverrideStorage)

func NewLocalOverrideStorage(conf config.LocalStorageConfig) *LocalOverrideStorage {
	return &LocalOverrideStorage{
		path:   conf.Path,
		encdec: util.NewJsonEncoderDecoder[persistence.OverrideDocument](),
	}
}

func (s *LocalOverrideStorage) LoadOverrides() ([]model.ParameterOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}
	s.doc = doc
	return persistence.ExpandDocument(doc), nil
}

func (s *LocalOverrideStorage) SaveGroup(group *model.ParameterGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.doc.NodeInfo[group.NodeId] = persistence.GroupToNodeInfo(group)
	s.refreshSelected()
	return s.writeDocument()
}

func (s *LocalOverrideStorage) DeleteGroup(nodeId model.NodeId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	delete(s.doc.NodeInfo, nodeId)
	s.refreshSelected()
	return s.writeDocument()
}

func (s *LocalOverrideStorage) ensureLoaded() error {
	if s.doc != nil {
		return nil
	}
	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *LocalOverrideStorage) readDocument() (*persistence.OverrideDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &persistence.OverrideDocument{
				NodeInfo: make(map[model.NodeId]persistence.NodeInfo),
			}, nil
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	doc, err := s.encdec.Decode(data)
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	if doc.NodeInfo == nil {
		doc.NodeInfo = make(map[model.NodeId]persistence.NodeInfo)
	}
	return doc, nil
}

func (s *LocalOverrideStorage) writeDocument() error {
	data, err := s.encdec.Encode(*s.doc)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *LocalOverrideStorage) refreshSelected() {
	s.doc.SelectedNodes = s.doc.SelectedNodes[:0]
	for id := range s.doc.NodeInfo {
		s.doc.SelectedNodes = append(s.doc.SelectedNodes, id)
	}
	sort.Slice(s.doc.SelectedNodes, func(i, j int) bool {
		return s.doc.SelectedNodes[i] < s.doc.SelectedNodes[j]
	})
}
