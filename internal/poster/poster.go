// Package poster drives a single pin through the Pinterest pin builder:
// upload, field population, board selection, submission. One Poster instance
// serves the whole batch; each Post call is one full pass through the state
// machine.
package poster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/browser"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/config"
	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/wait"
)

// State names the stages of posting one pin
type State string

const (
	StateIdle             State = "idle"
	StateUploading        State = "uploading"
	StateFieldsPopulating State = "fields_populating"
	StateBoardSelecting   State = "board_selecting"
	StateSubmitting       State = "submitting"
	StateConfirmed        State = "confirmed"
	StateFailed           State = "failed"
)

// Pin builder selectors. These track the live Pinterest DOM and are the
// first thing to check when posting breaks after a site update.
const (
	fileInputSelector     = `input[type='file']`
	uploadPreviewSelector = `img[src^='blob:']`
	titleSelector         = `textarea[id*='pin-draft-title']`
	descriptionSelector   = `div[id*='pin-draft-description']`
	linkSelector          = `textarea[id*='pin-draft-link']`
	boardButtonSelector   = `button[data-test-id='board-dropdown-select-button']`
	boardSearchSelector   = `#pickerSearchField`
	boardRowSelector      = `div[data-test-id='boardWithoutSection']`
	saveButtonSelector    = `button[data-test-id='board-dropdown-save-button']`
	savingSpinnerSelector = `svg[aria-label='Saving Pin...']`
)

// Poster posts one pin at a time through the pin builder
type Poster struct {
	driver  browser.Driver
	session *browser.Controller
	waits   config.WaitConfig
	logger  logger.Logger
}

// New creates a Poster bound to an authenticated browser session
func New(d browser.Driver, session *browser.Controller, waits config.WaitConfig, log logger.Logger) *Poster {
	return &Poster{
		driver:  d,
		session: session,
		waits:   waits,
		logger:  log,
	}
}

// Post drives one job through the pin builder. The returned error is non-nil
// only for run-fatal conditions (session lost, cancellation); every per-item
// failure is reported through the outcome so the batch can continue.
// Publish-confirmation timeouts are recorded as StatusUnknown because the
// pin may have landed server-side; callers must not resubmit those blindly.
func (p *Poster) Post(ctx context.Context, job models.PostJob) (models.Outcome, error) {
	start := time.Now()
	log := p.logger.WithField("filename", job.Filename)

	if err := p.session.OpenPinBuilder(ctx, p.waits.UploadTimeout(), p.waits.PollInterval()); err != nil {
		return p.finish(job, start, models.StatusFailed, "pin builder did not load"), fatalOrNil(ctx, err)
	}

	// Idle -> Uploading
	p.enter(log, StateUploading)
	if err := p.driver.UploadFile(ctx, fileInputSelector, job.ImagePath); err != nil {
		if isFatal(ctx, err) {
			return p.finish(job, start, models.StatusFailed, "session lost during upload"), fatalOrNil(ctx, err)
		}
		return p.finish(job, start, models.StatusFailed, "upload rejected"), nil
	}

	// Uploading -> FieldsPopulating, gated on the thumbnail rendering
	result, err := p.await(ctx, p.waits.UploadTimeout(), func(ctx context.Context) (bool, error) {
		return p.driver.Visible(ctx, uploadPreviewSelector)
	})
	if isFatal(ctx, err) {
		return p.finish(job, start, models.StatusFailed, "session lost during upload"), fatalOrNil(ctx, err)
	}
	if result != wait.Satisfied {
		return p.finish(job, start, models.StatusFailed, "upload timeout"), nil
	}

	p.enter(log, StateFieldsPopulating)
	if reason, err := p.populateFields(ctx, job); err != nil || reason != "" {
		if err != nil {
			return p.finish(job, start, models.StatusFailed, "session lost during field population"), err
		}
		return p.finish(job, start, models.StatusFailed, reason), nil
	}

	p.enter(log, StateBoardSelecting)
	if reason, err := p.selectBoard(ctx, job.Board); err != nil || reason != "" {
		if err != nil {
			return p.finish(job, start, models.StatusFailed, "session lost during board selection"), err
		}
		return p.finish(job, start, models.StatusFailed, reason), nil
	}

	// BoardSelecting -> Submitting
	p.enter(log, StateSubmitting)
	if err := p.driver.Click(ctx, saveButtonSelector); err != nil {
		if isFatal(ctx, err) {
			return p.finish(job, start, models.StatusFailed, "session lost during submission"), fatalOrNil(ctx, err)
		}
		return p.finish(job, start, models.StatusFailed, "submission rejected"), nil
	}

	// Submitting -> Confirmed, gated on the saving spinner clearing
	result, err = p.await(ctx, p.waits.SubmitTimeout(), func(ctx context.Context) (bool, error) {
		visible, err := p.driver.Visible(ctx, savingSpinnerSelector)
		if err != nil {
			return false, err
		}
		return !visible, nil
	})
	if isFatal(ctx, err) {
		return p.finish(job, start, models.StatusFailed, "session lost during submission"), fatalOrNil(ctx, err)
	}
	if result != wait.Satisfied {
		// The pin may have saved server-side; report the ambiguity
		// instead of a hard failure.
		return p.finish(job, start, models.StatusUnknown, "submission timeout"), nil
	}

	p.enter(log, StateConfirmed)
	return p.finish(job, start, models.StatusSucceeded, ""), nil
}

// populateFields fills title, description, and the optional link. Returns a
// per-item failure reason, or an error for fatal conditions.
func (p *Poster) populateFields(ctx context.Context, job models.PostJob) (string, error) {
	result, err := p.await(ctx, p.waits.FieldTimeout(), func(ctx context.Context) (bool, error) {
		return p.driver.Visible(ctx, titleSelector)
	})
	if isFatal(ctx, err) {
		return "", fatalOrNil(ctx, err)
	}
	if result != wait.Satisfied {
		return "field population timeout", nil
	}

	type field struct {
		selector string
		value    string
		typed    bool
	}
	// Title and link are plain textareas, so their value is replaced
	// wholesale. The description is contenteditable and only accepts
	// keystrokes after focus.
	fields := []field{
		{selector: titleSelector, value: job.Title},
		{selector: descriptionSelector, value: job.Description, typed: true},
	}
	if job.Link != "" {
		fields = append(fields, field{selector: linkSelector, value: job.Link})
	}

	for _, f := range fields {
		var err error
		if f.typed {
			if err = p.driver.Click(ctx, f.selector); err == nil {
				err = p.driver.SendKeys(ctx, f.selector, f.value)
			}
		} else {
			err = p.driver.SetValue(ctx, f.selector, f.value)
		}
		if err != nil {
			if isFatal(ctx, err) {
				return "", fatalOrNil(ctx, err)
			}
			return "field population timeout", nil
		}
	}

	return "", nil
}

// selectBoard opens the board picker, searches for the board, and clicks the
// entry whose name matches exactly, ignoring case. Returns a per-item
// failure reason, or an error for fatal conditions.
func (p *Poster) selectBoard(ctx context.Context, boardName string) (string, error) {
	notFound := fmt.Sprintf("board not found: %s", boardName)

	if err := p.driver.Click(ctx, boardButtonSelector); err != nil {
		if isFatal(ctx, err) {
			return "", fatalOrNil(ctx, err)
		}
		return notFound, nil
	}

	result, err := p.await(ctx, p.waits.BoardTimeout(), func(ctx context.Context) (bool, error) {
		return p.driver.Visible(ctx, boardSearchSelector)
	})
	if isFatal(ctx, err) {
		return "", fatalOrNil(ctx, err)
	}
	if result != wait.Satisfied {
		return notFound, nil
	}

	if err := p.driver.SendKeys(ctx, boardSearchSelector, boardName); err != nil {
		if isFatal(ctx, err) {
			return "", fatalOrNil(ctx, err)
		}
		return notFound, nil
	}

	// Wait for the filtered list to include an exact match
	matchIndex := -1
	result, err = p.await(ctx, p.waits.BoardTimeout(), func(ctx context.Context) (bool, error) {
		names, err := p.driver.Texts(ctx, boardRowSelector)
		if err != nil {
			return false, err
		}
		for i, name := range names {
			if strings.EqualFold(strings.TrimSpace(name), boardName) {
				matchIndex = i
				return true, nil
			}
		}
		return false, nil
	})
	if isFatal(ctx, err) {
		return "", fatalOrNil(ctx, err)
	}
	if result != wait.Satisfied {
		return notFound, nil
	}

	if err := p.driver.ClickNth(ctx, boardRowSelector, matchIndex); err != nil {
		if isFatal(ctx, err) {
			return "", fatalOrNil(ctx, err)
		}
		return notFound, nil
	}

	return "", nil
}

// await runs the wait strategy with the poster's poll interval
func (p *Poster) await(ctx context.Context, timeout time.Duration, pred wait.Predicate) (wait.Result, error) {
	return wait.Until(ctx, pred, wait.Options{
		Timeout:  timeout,
		Interval: p.waits.PollInterval(),
	})
}

// enter logs a state transition
func (p *Poster) enter(log logger.Logger, state State) {
	log.DebugWithFields("State transition", map[string]interface{}{
		"state": string(state),
	})
}

// finish builds the outcome for a completed pass
func (p *Poster) finish(job models.PostJob, start time.Time, status models.Status, reason string) models.Outcome {
	return models.Outcome{
		Job:      job,
		Status:   status,
		Reason:   reason,
		Duration: time.Since(start),
	}
}

// isFatal reports whether err (possibly from a wait) or the context state
// means the run cannot continue.
func isFatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errs.IsType(err, errs.ErrorTypeSession)
}

// fatalOrNil normalizes the error returned for fatal exits: context errors
// win so the caller sees a clean cancellation.
func fatalOrNil(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errs.IsType(err, errs.ErrorTypeSession) {
		return err
	}
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}
	return err
}
