package service

import (
	"github.com/mohitkumar/nodebridge/graph"
	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/params"
	"go.uber.org/zap"
)

// GraphService loads externally authored graphs and rebuilds the parameter
// surface for each load. The loaded graph is held immutably, submissions
// work on injected copies.
type GraphService struct {
	store   *params.Store
	current *model.WorkflowGraph
}

func NewGraphService(store *params.Store) *GraphService {
	return &GraphService{store: store}
}

// Load parses the document, validates it structurally and replaces the
// parameter surface. A parse failure aborts the load, nothing downstream
// changes.
func (s *GraphService) Load(data []byte) (*model.WorkflowGraph, error) {
	g, err := graph.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := s.store.Build(g); err != nil {
		return nil, err
	}
	s.current = g
	logger.Info("graph loaded", zap.Int("nodes", len(g.Nodes)), zap.Int("links", len(g.Links)), zap.Uint64("hash", graph.Hash(g)))
	return g, nil
}

func (s *GraphService) CurrentGraph() *model.WorkflowGraph {
	return s.current
}

func (s *GraphService) Store() *params.Store {
	return s.store
}
