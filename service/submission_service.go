package service

import (
	"context"

	"github.com/mohitkumar/nodebridge/convert"
	"github.com/mohitkumar/nodebridge/engine"
	"github.com/mohitkumar/nodebridge/inject"
	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/monitor"
	"go.uber.org/zap"
)

// SubmissionService freezes the parameter surface into a submission copy,
// rewrites incompatible node types and hands the result to the monitor.
type SubmissionService struct {
	injector  *inject.Injector
	converter *convert.Converter
	monitor   *monitor.ExecutionMonitor
	client    engine.Client
}

func NewSubmissionService(injector *inject.Injector, converter *convert.Converter, mon *monitor.ExecutionMonitor, client engine.Client) *SubmissionService {
	return &SubmissionService{
		injector:  injector,
		converter: converter,
		monitor:   mon,
		client:    client,
	}
}

// Submit injects current parameter values into a copy of the graph,
// converts it and submits. Parameter edits made after Submit returns never
// affect the job. Conversion warnings are logged and do not block,
// submission proceeds with the affected nodes unconverted.
func (s *SubmissionService) Submit(ctx context.Context, g *model.WorkflowGraph, source inject.GroupSource, callback monitor.Callback) (*model.Job, error) {
	if err := s.client.Ping(ctx); err != nil {
		return nil, engine.SubmissionError{Detail: "engine unreachable: " + err.Error()}
	}
	frozen := s.injector.Inject(g, source)
	converted, warnings := s.converter.Convert(frozen)
	for _, w := range warnings {
		logger.Warn("conversion warning", zap.Error(w))
	}
	return s.monitor.Submit(ctx, converted, callback)
}

// Cancel stops monitoring a job. Remote execution is not aborted.
func (s *SubmissionService) Cancel(jobId string) {
	s.monitor.Cancel(jobId)
}
