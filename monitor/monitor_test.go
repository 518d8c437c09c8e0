package monitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/engine"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/stretchr/testify/require"
)

// fakeEngine scripts a status sequence per remote id.
type fakeEngine struct {
	nextRemoteId int
	statuses     map[string][]engine.StatusResponse
	statusCalls  map[string]int
	submitErr    error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		statuses:    make(map[string][]engine.StatusResponse),
		statusCalls: make(map[string]int),
	}
}

func (f *fakeEngine) Submit(ctx context.Context, g *model.WorkflowGraph) (*model.SubmissionResult, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.nextRemoteId++
	return &model.SubmissionResult{RemoteId: fmt.Sprintf("remote-%d", f.nextRemoteId)}, nil
}

func (f *fakeEngine) GetStatus(ctx context.Context, remoteId string) (*engine.StatusResponse, error) {
	seq := f.statuses[remoteId]
	call := f.statusCalls[remoteId]
	f.statusCalls[remoteId] = call + 1
	if len(seq) == 0 {
		return &engine.StatusResponse{Status: model.JOB_RUNNING}, nil
	}
	if call >= len(seq) {
		call = len(seq) - 1
	}
	resp := seq[call]
	return &resp, nil
}

func (f *fakeEngine) Ping(ctx context.Context) error {
	return nil
}

func testGraph() *model.WorkflowGraph {
	return &model.WorkflowGraph{
		Nodes: map[model.NodeId]*model.Node{
			"1": {Id: "1", Type: "Sampler", Values: []model.RawValue{int64(1)}},
		},
	}
}

func newTestMonitor(fe *fakeEngine, conf config.MonitorConfig) *ExecutionMonitor {
	var wg sync.WaitGroup
	em := NewExecutionMonitor(conf, fe, &wg)
	return em
}

// register pushes the submitted job into the active set the way the loop
// goroutine would. The tests drive the monitor synchronously, the loop is
// never started.
func (em *ExecutionMonitor) register(t *testing.T, callback Callback) *model.Job {
	t.Helper()
	job, err := em.Submit(context.Background(), testGraph(), callback)
	require.NoError(t, err)
	em.handleCommand(<-em.commands)
	return job
}

func TestJobCompletesAfterPolls(t *testing.T) {
	fe := newFakeEngine()
	em := newTestMonitor(fe, config.MonitorConfig{GracePeriodSeconds: 300, TimeoutSeconds: 600})

	var done *model.Job
	job := em.register(t, func(j *model.Job) { done = j })
	fe.statuses[job.RemoteId] = []engine.StatusResponse{
		{Status: model.JOB_RUNNING},
		{Status: model.JOB_RUNNING},
		{Status: model.JOB_RUNNING},
		{Status: model.JOB_COMPLETED, Outputs: []model.AssetRef{{Filename: "img.png", Path: "/out/img.png"}}},
	}

	for i := 0; i < 3; i++ {
		em.pollCycle()
		require.Nil(t, done)
		require.Len(t, em.jobs, 1)
	}
	em.pollCycle()
	require.NotNil(t, done)
	require.Equal(t, model.JOB_COMPLETED, done.Status)
	require.Equal(t, "img.png", done.ResultRefs[0].Filename)
	require.Empty(t, em.jobs)
}

func TestSnapshotSafety(t *testing.T) {
	fe := newFakeEngine()
	em := newTestMonitor(fe, config.MonitorConfig{GracePeriodSeconds: 300, TimeoutSeconds: 600})

	const m = 5
	const n = 3
	for i := 0; i < m; i++ {
		job := em.register(t, nil)
		if i < n {
			fe.statuses[job.RemoteId] = []engine.StatusResponse{{Status: model.JOB_COMPLETED}}
		}
	}
	require.Len(t, em.jobs, m)
	em.pollCycle()
	require.Len(t, em.jobs, m-n)
}

func TestStatusNeverRegresses(t *testing.T) {
	fe := newFakeEngine()
	em := newTestMonitor(fe, config.MonitorConfig{GracePeriodSeconds: 300, TimeoutSeconds: 600})

	job := em.register(t, nil)
	fe.statuses[job.RemoteId] = []engine.StatusResponse{
		{Status: model.JOB_RUNNING},
		{Status: model.JOB_PENDING},
	}
	em.pollCycle()
	em.pollCycle()
	require.Equal(t, model.JOB_RUNNING, em.jobs[job.Id].job.Status)
}

func TestCancelDiscardsJob(t *testing.T) {
	fe := newFakeEngine()
	em := newTestMonitor(fe, config.MonitorConfig{GracePeriodSeconds: 300, TimeoutSeconds: 600})

	var done *model.Job
	job := em.register(t, func(j *model.Job) { done = j })
	em.Cancel(job.Id)
	em.handleCommand(<-em.commands)

	em.pollCycle()
	require.Empty(t, em.jobs)
	// a cancelled job never reaches the callback
	require.Nil(t, done)
}

func TestFallbackDetection(t *testing.T) {
	dir := t.TempDir()
	fe := newFakeEngine()
	em := newTestMonitor(fe, config.MonitorConfig{
		GracePeriodSeconds: 30,
		TimeoutSeconds:     600,
		FallbackDir:        dir,
		FallbackPattern:    "*{jobId}*",
	})

	var done *model.Job
	job := em.register(t, func(j *model.Job) { done = j })
	// the status channel stalls, the engine keeps reporting running
	fe.statuses[job.RemoteId] = []engine.StatusResponse{{Status: model.JOB_RUNNING}}

	em.pollCycle()
	require.Nil(t, done)

	// past the grace period an output file appears
	filename := "result_" + job.RemoteId + "_0001.png"
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte("png"), 0644))
	em.now = func() time.Time { return job.SubmittedAt.Add(31 * time.Second) }

	em.pollCycle()
	require.NotNil(t, done)
	require.Equal(t, model.JOB_COMPLETED, done.Status)
	require.Equal(t, filename, done.ResultRefs[0].Filename)
	require.Empty(t, em.jobs)
}

func TestJobTimesOut(t *testing.T) {
	fe := newFakeEngine()
	em := newTestMonitor(fe, config.MonitorConfig{GracePeriodSeconds: 30, TimeoutSeconds: 60})

	var done *model.Job
	job := em.register(t, func(j *model.Job) { done = j })
	fe.statuses[job.RemoteId] = []engine.StatusResponse{{Status: model.JOB_RUNNING}}

	em.now = func() time.Time { return job.SubmittedAt.Add(61 * time.Second) }
	em.pollCycle()
	require.NotNil(t, done)
	require.Equal(t, model.JOB_TIMEDOUT, done.Status)
	require.Empty(t, em.jobs)
}

func TestSubmitFailureSurfaced(t *testing.T) {
	fe := newFakeEngine()
	fe.submitErr = engine.SubmissionError{Detail: "bad graph"}
	em := newTestMonitor(fe, config.MonitorConfig{})

	_, err := em.Submit(context.Background(), testGraph(), nil)
	require.Error(t, err)
	_, ok := err.(engine.SubmissionError)
	require.True(t, ok)
	require.Empty(t, em.jobs)
}

func TestStopBeforeStart(t *testing.T) {
	em := newTestMonitor(newFakeEngine(), config.MonitorConfig{})
	// a host bailing out of a failed startup sequence stops a monitor
	// that never ran
	require.NotPanics(t, func() { em.Stop() })
}

func TestPollCoalescing(t *testing.T) {
	em := newTestMonitor(newFakeEngine(), config.MonitorConfig{})
	em.requestPoll()
	em.requestPoll()
	em.requestPoll()
	require.Len(t, em.pollRequests, 1)
}
