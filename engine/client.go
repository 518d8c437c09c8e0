package engine

import (
	"context"
	"fmt"

	"github.com/mohitkumar/nodebridge/model"
)

// SubmissionError means the remote engine rejected the graph outright.
// Fatal for the job, surfaced with whatever detail the engine provided.
type SubmissionError struct {
	Detail string
}

func (e SubmissionError) Error() string {
	return fmt.Sprintf("engine rejected submission, %s", e.Detail)
}

type StatusResponse struct {
	Status  model.JobStatus
	Outputs []model.AssetRef
	Detail  string
}

// Client is the bridge's view of the remote generation engine. The engine
// is an opaque collaborator, only these call shapes are depended on.
type Client interface {
	Submit(ctx context.Context, g *model.WorkflowGraph) (*model.SubmissionResult, error)
	GetStatus(ctx context.Context, remoteId string) (*StatusResponse, error)
	Ping(ctx context.Context) error
}
