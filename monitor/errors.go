package monitor

import "fmt"

// PollingTimeoutError means the status channel produced no terminal status
// within the grace period. Non-fatal, the job switches to fallback
// detection.
type PollingTimeoutError struct {
	JobId string
}

func (e PollingTimeoutError) Error() string {
	return fmt.Sprintf("no terminal status for job %s within grace period", e.JobId)
}

// JobFailedError carries the engine's failure detail verbatim.
type JobFailedError struct {
	JobId  string
	Detail string
}

func (e JobFailedError) Error() string {
	return fmt.Sprintf("job %s failed remotely, %s", e.JobId, e.Detail)
}
