package poster

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/browser"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/config"
	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
)

// fakeDriver scripts pin-builder behavior per selector
type fakeDriver struct {
	currentURL string
	visible    map[string]bool
	exists     map[string]bool
	texts      map[string][]string

	uploadErr  error
	visibleErr map[string]error
	clickErr   map[string]error

	keys     map[string][]string
	set      map[string][]string
	clicked  []string
	uploaded []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		currentURL: browser.PinBuilderURL,
		visible: map[string]bool{
			uploadPreviewSelector: true,
			titleSelector:         true,
			boardSearchSelector:   true,
		},
		exists: map[string]bool{
			`input[type='file']`: true,
		},
		texts: map[string][]string{
			boardRowSelector: {" Travel ", "Crafts"},
		},
		visibleErr: map[string]error{},
		clickErr:   map[string]error{},
		keys:       map[string][]string{},
		set:        map[string][]string{},
	}
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error { return nil }

func (f *fakeDriver) CurrentURL(ctx context.Context) (string, error) { return f.currentURL, nil }

func (f *fakeDriver) Exists(ctx context.Context, sel string) (bool, error) {
	return f.exists[sel], nil
}

func (f *fakeDriver) Visible(ctx context.Context, sel string) (bool, error) {
	if err := f.visibleErr[sel]; err != nil {
		return false, err
	}
	return f.visible[sel], nil
}

func (f *fakeDriver) Click(ctx context.Context, sel string) error {
	if err := f.clickErr[sel]; err != nil {
		return err
	}
	f.clicked = append(f.clicked, sel)
	return nil
}

func (f *fakeDriver) ClickNth(ctx context.Context, sel string, n int) error {
	f.clicked = append(f.clicked, fmt.Sprintf("%s[%d]", sel, n))
	return nil
}

func (f *fakeDriver) SendKeys(ctx context.Context, sel, text string) error {
	f.keys[sel] = append(f.keys[sel], text)
	return nil
}

func (f *fakeDriver) SetValue(ctx context.Context, sel, value string) error {
	f.set[sel] = append(f.set[sel], value)
	return nil
}

func (f *fakeDriver) UploadFile(ctx context.Context, sel, path string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, path)
	return nil
}

func (f *fakeDriver) Texts(ctx context.Context, sel string) ([]string, error) {
	return f.texts[sel], nil
}

func testWaits() config.WaitConfig {
	return config.WaitConfig{
		UploadTimeoutSeconds: 1,
		FieldTimeoutSeconds:  1,
		BoardTimeoutSeconds:  1,
		SubmitTimeoutSeconds: 1,
		PollIntervalMillis:   10,
	}
}

func newTestPoster(d *fakeDriver) *Poster {
	log := logger.NewNopLogger()
	return New(d, browser.NewController(d, log), testWaits(), log)
}

func testJob() models.PostJob {
	return models.PostJob{
		ImagePath:   "/pins/sunset.jpg",
		Filename:    "sunset.jpg",
		Title:       "Sunset",
		Description: "Golden hour at the lake",
		Link:        "https://example.com",
		Board:       "Travel",
	}
}

func TestPostSucceeds(t *testing.T) {
	d := newFakeDriver()
	p := newTestPoster(d)

	outcome, err := p.Post(context.Background(), testJob())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSucceeded, outcome.Status)
	assert.Empty(t, outcome.Reason)

	assert.Equal(t, []string{"/pins/sunset.jpg"}, d.uploaded)

	// Textareas get their value replaced; the contenteditable description
	// and the filtering board search are typed.
	assert.Equal(t, []string{"Sunset"}, d.set[titleSelector])
	assert.Equal(t, []string{"https://example.com"}, d.set[linkSelector])
	assert.Equal(t, []string{"Golden hour at the lake"}, d.keys[descriptionSelector])
	assert.Equal(t, []string{"Travel"}, d.keys[boardSearchSelector])
	assert.Empty(t, d.keys[titleSelector], "title must not be appended to")

	// Case-insensitive exact match clicks the first row, then publishes.
	assert.Contains(t, d.clicked, boardRowSelector+"[0]")
	assert.Contains(t, d.clicked, saveButtonSelector)
}

func TestPostSkipsEmptyLink(t *testing.T) {
	d := newFakeDriver()
	p := newTestPoster(d)

	job := testJob()
	job.Link = ""

	outcome, err := p.Post(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSucceeded, outcome.Status)
	assert.Empty(t, d.set[linkSelector])
}

func TestPostUploadRejected(t *testing.T) {
	d := newFakeDriver()
	d.uploadErr = fmt.Errorf("no element matches selector: %s", fileInputSelector)
	p := newTestPoster(d)

	outcome, err := p.Post(context.Background(), testJob())
	require.NoError(t, err, "per-item failures must not abort the batch")
	assert.Equal(t, models.StatusFailed, outcome.Status)
	assert.Equal(t, "upload rejected", outcome.Reason)
}

func TestPostUploadTimeout(t *testing.T) {
	d := newFakeDriver()
	d.visible[uploadPreviewSelector] = false
	p := newTestPoster(d)

	outcome, err := p.Post(context.Background(), testJob())
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, outcome.Status)
	assert.Equal(t, "upload timeout", outcome.Reason)
}

func TestPostFieldPopulationTimeout(t *testing.T) {
	d := newFakeDriver()
	d.visible[titleSelector] = false
	p := newTestPoster(d)

	outcome, err := p.Post(context.Background(), testJob())
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, outcome.Status)
	assert.Equal(t, "field population timeout", outcome.Reason)
}

func TestPostBoardNotFound(t *testing.T) {
	d := newFakeDriver()
	d.texts[boardRowSelector] = []string{"Crafts", "Recipes"}
	p := newTestPoster(d)

	outcome, err := p.Post(context.Background(), testJob())
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, outcome.Status)
	assert.Equal(t, "board not found: Travel", outcome.Reason)
	assert.NotContains(t, d.clicked, saveButtonSelector, "must not publish without a board")
}

func TestPostBoardMatchIsExactNotPrefix(t *testing.T) {
	d := newFakeDriver()
	d.texts[boardRowSelector] = []string{"Travel Ideas", "travel"}
	p := newTestPoster(d)

	outcome, err := p.Post(context.Background(), testJob())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSucceeded, outcome.Status)
	assert.Contains(t, d.clicked, boardRowSelector+"[1]", "exact match wins over prefix match")
}

func TestPostSubmissionTimeoutIsUnknown(t *testing.T) {
	d := newFakeDriver()
	d.visible[savingSpinnerSelector] = true
	p := newTestPoster(d)

	outcome, err := p.Post(context.Background(), testJob())
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnknown, outcome.Status)
	assert.Equal(t, "submission timeout", outcome.Reason)
}

func TestPostSessionLostIsFatal(t *testing.T) {
	d := newFakeDriver()
	d.visibleErr[uploadPreviewSelector] = errs.New(errs.ErrorTypeSession, "browser session lost")
	p := newTestPoster(d)

	outcome, err := p.Post(context.Background(), testJob())
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeSession))
	assert.Equal(t, models.StatusFailed, outcome.Status)
}

func TestPostCancelledContext(t *testing.T) {
	d := newFakeDriver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newTestPoster(d)

	_, err := p.Post(ctx, testJob())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
