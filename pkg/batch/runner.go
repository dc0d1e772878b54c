// Package batch sequences a run: one job at a time, in order, with pacing
// between items. A bad pin never sinks the rest of the batch.
package batch

import (
	"context"
	"time"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/checkpoint"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/ratelimit"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/wait"
)

// PinPoster posts a single job. The returned error is non-nil only for
// run-fatal conditions; per-item failures live in the outcome.
type PinPoster interface {
	Post(ctx context.Context, job models.PostJob) (models.Outcome, error)
}

// Options configures a Runner. Only Logger is required.
type Options struct {
	// Delay is the pacing delay applied between consecutive jobs
	Delay time.Duration

	// Limiter caps posting volume; nil means no cap
	Limiter ratelimit.Limiter

	// Logger for batch progress
	Logger logger.Logger

	// OnOutcome, when set, is called after every recorded outcome with
	// the number of jobs completed so far
	OnOutcome func(completed, total int, outcome models.Outcome)

	// Checkpoint and State, when both set, enable resume: pins recorded
	// in a previous run are skipped, and new posts are recorded as the
	// batch progresses.
	Checkpoint *checkpoint.Manager
	State      *checkpoint.Checkpoint
}

// Runner executes a batch of post jobs strictly in order
type Runner struct {
	poster PinPoster
	opts   Options
}

// NewRunner creates a batch runner
func NewRunner(poster PinPoster, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	return &Runner{
		poster: poster,
		opts:   opts,
	}
}

// Run posts every job in order. preRecorded outcomes (jobs skipped before
// the browser ever started) are folded into the result up front.
//
// A per-item failure is recorded and the batch continues. A fatal error
// (session lost, cancellation) aborts the batch: the jobs never reached are
// recorded as Skipped so the result still holds one outcome per job, and the
// result is returned so the caller can report what did complete. Cancellation
// is honored between items, never mid-post.
func (r *Runner) Run(ctx context.Context, jobs []models.PostJob, preRecorded ...models.Outcome) (*models.BatchResult, error) {
	result := models.NewBatchResult()
	for _, o := range preRecorded {
		result.Record(o)
	}

	total := len(jobs)
	log := r.opts.Logger

	log.InfoWithFields("Batch started", map[string]interface{}{
		"jobs":  total,
		"delay": r.opts.Delay,
	})

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			log.Warn("Batch cancelled")
			r.abort(result, i, total, jobs[i:], "batch cancelled")
			return result, err
		}

		if r.resuming() && r.opts.State.IsPosted(job.Filename) {
			outcome := models.Outcome{
				Job:    job,
				Status: models.StatusSkipped,
				Reason: "already posted in a previous run",
			}
			r.record(result, i+1, total, outcome)
			continue
		}

		if err := r.opts.Limiter.Wait(ctx); err != nil {
			log.Warn("Batch cancelled while rate limited")
			r.abort(result, i, total, jobs[i:], "batch cancelled")
			return result, err
		}

		outcome, err := r.poster.Post(ctx, job)
		r.record(result, i+1, total, outcome)
		r.recordCheckpoint(outcome)

		if err != nil {
			log.WithError(err).Error("Batch aborted")
			r.abort(result, i+1, total, jobs[i+1:], "batch aborted: "+err.Error())
			return result, err
		}

		if i < total-1 {
			if err := wait.Sleep(ctx, r.opts.Delay); err != nil {
				log.Warn("Batch cancelled")
				r.abort(result, i+1, total, jobs[i+1:], "batch cancelled")
				return result, err
			}
		}
	}

	result.Finish()

	log.InfoWithFields("Batch finished", map[string]interface{}{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"skipped":   result.Skipped,
		"unknown":   result.Unknown,
		"total":     result.Total(),
	})

	return result, nil
}

// abort records the jobs an ending batch never reached as Skipped, so the
// result holds one outcome per job even when the run stops early.
func (r *Runner) abort(result *models.BatchResult, completed, total int, remaining []models.PostJob, reason string) {
	for _, job := range remaining {
		completed++
		r.record(result, completed, total, models.Outcome{
			Job:    job,
			Status: models.StatusSkipped,
			Reason: reason,
		})
	}
	result.Finish()
}

// record folds an outcome into the result and notifies observers
func (r *Runner) record(result *models.BatchResult, completed, total int, outcome models.Outcome) {
	result.Record(outcome)
	logger.LogPost(outcome.Job.Filename, outcome.Job.Board, string(outcome.Status), outcome.Reason, outcome.Duration)
	logger.LogBatchProgress(completed, total)
	if r.opts.OnOutcome != nil {
		r.opts.OnOutcome(completed, total, outcome)
	}
}

// recordCheckpoint persists pins that reached the pin builder. Unknown
// outcomes are recorded too: the pin may have landed, and a resume must
// not risk posting it twice.
func (r *Runner) recordCheckpoint(outcome models.Outcome) {
	if !r.resuming() {
		return
	}
	if outcome.Status != models.StatusSucceeded && outcome.Status != models.StatusUnknown {
		return
	}
	if err := r.opts.Checkpoint.RecordPost(r.opts.State, outcome.Job.Filename, string(outcome.Status)); err != nil {
		r.opts.Logger.WithError(err).Warn("Failed to record checkpoint")
	}
}

func (r *Runner) resuming() bool {
	return r.opts.Checkpoint != nil && r.opts.State != nil
}
