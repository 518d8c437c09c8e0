package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/engine"
	"github.com/mohitkumar/nodebridge/graph"
	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/util"
	"go.uber.org/zap"
)

// Callback receives the terminal job exactly once, after it has been
// removed from the active set.
type Callback func(*model.Job)

type activeJob struct {
	job       *model.Job
	callback  Callback
	cancelled bool
	// fallback marks a job past its grace period, its status channel is no
	// longer trusted and completion is inferred from the output directory.
	fallback bool
}

type registerCmd struct {
	aj *activeJob
}

type cancelCmd struct {
	jobId string
}

// ExecutionMonitor submits graphs to the remote engine and tracks the
// resulting jobs. The active-job map is owned by a single loop goroutine,
// every mutation arrives as a command. A poll cycle iterates a snapshot of
// the map and only removes terminal jobs after the iteration completes.
type ExecutionMonitor struct {
	conf     config.MonitorConfig
	client   engine.Client
	jobs     map[string]*activeJob
	commands chan any
	// pollRequests has capacity one, ticks arriving while a cycle is
	// pending or running coalesce instead of queueing.
	pollRequests chan struct{}
	ticker       *util.TickWorker
	stop         chan struct{}
	wg           *sync.WaitGroup
	now          func() time.Time
}

func NewExecutionMonitor(conf config.MonitorConfig, client engine.Client, wg *sync.WaitGroup) *ExecutionMonitor {
	return &ExecutionMonitor{
		conf:         conf,
		client:       client,
		jobs:         make(map[string]*activeJob),
		commands:     make(chan any, 64),
		pollRequests: make(chan struct{}, 1),
		stop:         make(chan struct{}),
		wg:           wg,
		now:          time.Now,
	}
}

func (em *ExecutionMonitor) Start() {
	interval := time.Duration(em.conf.PollIntervalSeconds) * time.Second
	em.ticker = util.NewTickWorker("job-poller", interval, make(chan struct{}), em.requestPoll, em.wg)
	em.ticker.Start()
	em.wg.Add(1)
	go em.loop()
}

// Stop before Start is a no-op, a nil ticker means no loop goroutine was
// ever launched.
func (em *ExecutionMonitor) Stop() {
	if em.ticker == nil {
		return
	}
	em.ticker.Stop()
	em.stop <- struct{}{}
}

func (em *ExecutionMonitor) requestPoll() {
	select {
	case em.pollRequests <- struct{}{}:
	default:
	}
}

func (em *ExecutionMonitor) loop() {
	defer em.wg.Done()
	for {
		select {
		case cmd := <-em.commands:
			em.handleCommand(cmd)
		case <-em.pollRequests:
			em.pollCycle()
		case <-em.stop:
			logger.Info("stopping execution monitor")
			return
		}
	}
}

func (em *ExecutionMonitor) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case registerCmd:
		em.jobs[c.aj.job.Id] = c.aj
	case cancelCmd:
		if aj, ok := em.jobs[c.jobId]; ok {
			aj.cancelled = true
		}
	}
}

// Submit sends the graph to the engine and registers the resulting job for
// monitoring. The graph passed here is already frozen, later edits to the
// parameter store cannot affect it.
func (em *ExecutionMonitor) Submit(ctx context.Context, g *model.WorkflowGraph, callback Callback) (*model.Job, error) {
	result, err := em.client.Submit(ctx, g)
	if err != nil {
		return nil, err
	}
	job := &model.Job{
		Id:          uuid.New().String(),
		RemoteId:    result.RemoteId,
		SubmittedAt: em.now(),
		Status:      model.JOB_PENDING,
		GraphHash:   graph.Hash(g),
	}
	logger.Info("job submitted", zap.String("job", job.Id), zap.String("remote", job.RemoteId))
	em.commands <- registerCmd{aj: &activeJob{job: job, callback: callback}}
	snapshot := *job
	return &snapshot, nil
}

// Cancel stops caring about a job. The remote request is not aborted, the
// engine has no cancel primitive, the job is simply discarded from the
// active set on the next snapshot cycle.
func (em *ExecutionMonitor) Cancel(jobId string) {
	em.commands <- cancelCmd{jobId: jobId}
}

// pollCycle takes a snapshot of the active set, polls every job in it and
// applies removals only after the iteration has finished. Mutating the live
// map mid-iteration is the defect class this structure exists to rule out.
func (em *ExecutionMonitor) pollCycle() {
	snapshot := make([]*activeJob, 0, len(em.jobs))
	for _, aj := range em.jobs {
		snapshot = append(snapshot, aj)
	}
	var finished []*activeJob
	for _, aj := range snapshot {
		if aj.cancelled {
			finished = append(finished, aj)
			continue
		}
		em.pollJob(aj)
		if aj.job.Status.Terminal() {
			finished = append(finished, aj)
		}
	}
	for _, aj := range finished {
		delete(em.jobs, aj.job.Id)
		if aj.cancelled {
			logger.Info("discarding cancelled job", zap.String("job", aj.job.Id))
			continue
		}
		if aj.job.Status == model.JOB_FAILED {
			logger.Error("job failed", zap.Error(JobFailedError{JobId: aj.job.Id, Detail: aj.job.Detail}))
		}
		if aj.callback != nil {
			aj.callback(aj.job)
		}
	}
}

func (em *ExecutionMonitor) pollJob(aj *activeJob) {
	age := em.now().Sub(aj.job.SubmittedAt)
	grace := time.Duration(em.conf.GracePeriodSeconds) * time.Second
	timeout := time.Duration(em.conf.TimeoutSeconds) * time.Second

	if !aj.fallback {
		em.queryStatus(aj)
		if aj.job.Status.Terminal() {
			return
		}
		if age >= grace {
			logger.Warn("switching job to fallback detection", zap.String("job", aj.job.Id), zap.Error(PollingTimeoutError{JobId: aj.job.Id}))
			aj.fallback = true
		}
	}
	if aj.fallback {
		if ref, found := em.scanFallback(aj); found {
			em.transition(aj, model.JOB_COMPLETED)
			aj.job.ResultRefs = []model.AssetRef{*ref}
			aj.job.Detail = "completed via fallback detection"
			return
		}
	}
	if timeout > 0 && age >= timeout {
		em.transition(aj, model.JOB_TIMEDOUT)
		aj.job.Detail = "no completion observed before timeout, manual intervention required"
	}
}

func (em *ExecutionMonitor) queryStatus(aj *activeJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	resp, err := em.client.GetStatus(ctx, aj.job.RemoteId)
	if err != nil {
		logger.Debug("status query failed", zap.String("job", aj.job.Id), zap.Error(err))
		return
	}
	em.transition(aj, resp.Status)
	if resp.Status == model.JOB_COMPLETED {
		aj.job.ResultRefs = resp.Outputs
	}
	if resp.Detail != "" {
		aj.job.Detail = resp.Detail
	}
}

// transition applies a status change only when it moves forward, a status
// never regresses.
func (em *ExecutionMonitor) transition(aj *activeJob, next model.JobStatus) {
	if !aj.job.Status.CanTransitionTo(next) {
		return
	}
	logger.Info("job status changed", zap.String("job", aj.job.Id), zap.String("from", string(aj.job.Status)), zap.String("to", string(next)))
	aj.job.Status = next
}
