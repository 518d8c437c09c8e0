package model

import "time"

type JobStatus string

const JOB_PENDING JobStatus = "PENDING"
const JOB_RUNNING JobStatus = "RUNNING"
const JOB_COMPLETED JobStatus = "COMPLETED"
const JOB_FAILED JobStatus = "FAILED"
const JOB_TIMEDOUT JobStatus = "TIMEDOUT"

func (s JobStatus) Terminal() bool {
	switch s {
	case JOB_COMPLETED, JOB_FAILED, JOB_TIMEDOUT:
		return true
	}
	return false
}

// rank orders statuses so that transitions stay monotonic. A status never
// regresses to a lower rank once observed.
func (s JobStatus) rank() int {
	switch s {
	case JOB_PENDING:
		return 1
	case JOB_RUNNING:
		return 2
	case JOB_COMPLETED, JOB_FAILED, JOB_TIMEDOUT:
		return 3
	}
	return 0
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	return next.rank() > s.rank()
}

type AssetRef struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Kind     string `json:"kind,omitempty"`
}

type Job struct {
	Id          string     `json:"id"`
	RemoteId    string     `json:"remoteId,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
	Status      JobStatus  `json:"status"`
	ResultRefs  []AssetRef `json:"resultRefs,omitempty"`
	Detail      string     `json:"detail,omitempty"`
	GraphHash   uint64     `json:"graphHash,omitempty"`
}

type SubmissionResult struct {
	JobId    string `json:"jobId"`
	RemoteId string `json:"remoteId"`
}
