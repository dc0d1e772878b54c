package models

import "time"

// PostJob is the resolved unit of work for one image: the file to upload plus
// the final metadata after defaults and CSV overrides have been merged.
// Jobs are immutable once built by the metadata resolver.
type PostJob struct {
	ImagePath   string
	Filename    string
	Title       string
	Description string
	Link        string
	Board       string
}

// Status is the terminal state of a single job.
type Status string

const (
	// StatusSucceeded means the pin was confirmed published.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the job failed at some pin-builder step.
	StatusFailed Status = "failed"
	// StatusSkipped means the job never ran (invalid metadata, checkpoint
	// hit, or the run was aborted before reaching it).
	StatusSkipped Status = "skipped"
	// StatusUnknown means the submission was sent but confirmation never
	// arrived; the pin may exist server-side. Flagged for manual review.
	StatusUnknown Status = "unknown"
)

// Outcome records how a single job ended.
type Outcome struct {
	Job      PostJob
	Status   Status
	Reason   string
	Duration time.Duration
}

// BatchResult is the ordered record of a whole run.
type BatchResult struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	Skipped   int
	Unknown   int
	StartedAt time.Time
	EndedAt   time.Time
}

// NewBatchResult creates an empty result with the start time set.
func NewBatchResult() *BatchResult {
	return &BatchResult{StartedAt: time.Now()}
}

// Record appends an outcome and updates the aggregate counters.
func (r *BatchResult) Record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusSucceeded:
		r.Succeeded++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	case StatusUnknown:
		r.Unknown++
	}
}

// Finish stamps the end time.
func (r *BatchResult) Finish() {
	r.EndedAt = time.Now()
}

// Total returns the number of recorded outcomes.
func (r *BatchResult) Total() int {
	return len(r.Outcomes)
}

// Failures returns the outcomes that did not succeed, in run order.
func (r *BatchResult) Failures() []Outcome {
	var failures []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed || o.Status == StatusUnknown {
			failures = append(failures, o)
		}
	}
	return failures
}
