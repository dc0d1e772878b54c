package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/checkpoint"
	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
)

// scriptedPoster returns canned outcomes in order
type scriptedPoster struct {
	outcomes []models.Outcome
	errs     []error
	posted   []string
}

func (s *scriptedPoster) Post(ctx context.Context, job models.PostJob) (models.Outcome, error) {
	i := len(s.posted)
	s.posted = append(s.posted, job.Filename)

	outcome := models.Outcome{Job: job, Status: models.StatusSucceeded}
	if i < len(s.outcomes) {
		outcome = s.outcomes[i]
		outcome.Job = job
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return outcome, err
}

func jobs(names ...string) []models.PostJob {
	var out []models.PostJob
	for _, n := range names {
		out = append(out, models.PostJob{
			Filename:    n,
			ImagePath:   "/pins/" + n,
			Title:       "T",
			Description: "D",
			Board:       "B",
		})
	}
	return out
}

func TestRunAllSucceed(t *testing.T) {
	p := &scriptedPoster{}
	r := NewRunner(p, Options{Logger: logger.NewNopLogger()})

	result, err := r.Run(context.Background(), jobs("a.jpg", "b.jpg", "c.jpg"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, p.posted, "jobs must run strictly in order")
	assert.False(t, result.EndedAt.IsZero())
}

func TestRunContinuesPastFailures(t *testing.T) {
	p := &scriptedPoster{
		outcomes: []models.Outcome{
			{Status: models.StatusSucceeded},
			{Status: models.StatusFailed, Reason: "upload timeout"},
			{Status: models.StatusSucceeded},
		},
	}
	r := NewRunner(p, Options{Logger: logger.NewNopLogger()})

	result, err := r.Run(context.Background(), jobs("a.jpg", "b.jpg", "c.jpg"))
	require.NoError(t, err, "per-item failure must not abort the batch")

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, p.posted, 3)

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "b.jpg", failures[0].Job.Filename)
	assert.Equal(t, "upload timeout", failures[0].Reason)
}

func TestRunFatalErrorAbortsRemaining(t *testing.T) {
	fatal := errs.New(errs.ErrorTypeSession, "browser session lost")
	p := &scriptedPoster{
		outcomes: []models.Outcome{
			{Status: models.StatusSucceeded},
			{Status: models.StatusFailed, Reason: "session lost during upload"},
		},
		errs: []error{nil, fatal},
	}
	r := NewRunner(p, Options{Logger: logger.NewNopLogger()})

	result, err := r.Run(context.Background(), jobs("a.jpg", "b.jpg", "c.jpg"))
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeSession))

	assert.Len(t, p.posted, 2, "remaining jobs must not run after a fatal error")
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Skipped, "unreached jobs must be recorded as skipped")
	assert.Equal(t, 3, result.Total(), "every job must have an outcome")
	assert.False(t, result.EndedAt.IsZero(), "partial result must still be finished")

	skipped := result.Outcomes[2]
	assert.Equal(t, "c.jpg", skipped.Job.Filename)
	assert.Equal(t, models.StatusSkipped, skipped.Status)
	assert.Contains(t, skipped.Reason, "batch aborted")
}

func TestRunCancelledBetweenItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &scriptedPoster{}
	r := NewRunner(p, Options{
		Logger: logger.NewNopLogger(),
		OnOutcome: func(completed, total int, outcome models.Outcome) {
			if completed == 1 {
				cancel()
			}
		},
	})

	result, err := r.Run(ctx, jobs("a.jpg", "b.jpg", "c.jpg"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, p.posted, 1, "cancellation must be honored between items")
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Skipped, "unreached jobs must be recorded as skipped")
	assert.Equal(t, 3, result.Total())
	assert.Equal(t, "batch cancelled", result.Outcomes[1].Reason)
}

func TestRunPacingDelayBetweenItems(t *testing.T) {
	p := &scriptedPoster{}
	r := NewRunner(p, Options{
		Logger: logger.NewNopLogger(),
		Delay:  50 * time.Millisecond,
	})

	start := time.Now()
	_, err := r.Run(context.Background(), jobs("a.jpg", "b.jpg", "c.jpg"))
	require.NoError(t, err)

	// Two gaps between three jobs.
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("expected at least 100ms of pacing, got %v", elapsed)
	}
}

func TestRunRecordsPreRecordedOutcomes(t *testing.T) {
	p := &scriptedPoster{}
	r := NewRunner(p, Options{Logger: logger.NewNopLogger()})

	skipped := models.Outcome{
		Job:    models.PostJob{Filename: "broken.jpg"},
		Status: models.StatusSkipped,
		Reason: "missing required field: title",
	}

	result, err := r.Run(context.Background(), jobs("a.jpg"), skipped)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Total())
}

func TestRunUnknownOutcomeCounted(t *testing.T) {
	p := &scriptedPoster{
		outcomes: []models.Outcome{
			{Status: models.StatusUnknown, Reason: "submission timeout"},
		},
	}
	r := NewRunner(p, Options{Logger: logger.NewNopLogger()})

	result, err := r.Run(context.Background(), jobs("a.jpg"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Unknown)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
}

func TestRunResumeSkipsPostedPins(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	mgr, err := checkpoint.NewManager("/pins")
	require.NoError(t, err)
	state, err := mgr.Create("/pins", 2)
	require.NoError(t, err)
	require.NoError(t, mgr.RecordPost(state, "a.jpg", "succeeded"))

	p := &scriptedPoster{}
	r := NewRunner(p, Options{
		Logger:     logger.NewNopLogger(),
		Checkpoint: mgr,
		State:      state,
	})

	result, err := r.Run(context.Background(), jobs("a.jpg", "b.jpg"))
	require.NoError(t, err)

	assert.Equal(t, []string{"b.jpg"}, p.posted, "already-posted pin must be skipped")
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Succeeded)
	assert.True(t, state.IsPosted("b.jpg"), "new post must be checkpointed")
}

func TestRunEmptyBatch(t *testing.T) {
	p := &scriptedPoster{}
	r := NewRunner(p, Options{Logger: logger.NewNopLogger()})

	result, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())
	assert.Empty(t, p.posted)
}
