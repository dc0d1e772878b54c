package browser

import (
	"context"
	"sync"
	"testing"
	"time"

	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
)

// stubDriver simulates page navigation for controller tests. The URL can be
// swapped mid-wait to mimic the user completing login in the browser.
type stubDriver struct {
	mu         sync.Mutex
	currentURL string
	redirectTo string
	fileInput  bool
	navigated  []string
	urlReads   int
}

func (d *stubDriver) setURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.currentURL = url
}

func (d *stubDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigated = append(d.navigated, url)
	if d.redirectTo != "" {
		d.currentURL = d.redirectTo
	} else {
		d.currentURL = url
	}
	return nil
}

func (d *stubDriver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urlReads++
	return d.currentURL, nil
}

func (d *stubDriver) urlReadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.urlReads
}

func (d *stubDriver) Exists(ctx context.Context, selector string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return selector == fileInputSelector && d.fileInput, nil
}

func (d *stubDriver) Visible(ctx context.Context, selector string) (bool, error) {
	return d.Exists(ctx, selector)
}

func (d *stubDriver) Click(ctx context.Context, selector string) error { return nil }
func (d *stubDriver) ClickNth(ctx context.Context, selector string, n int) error { return nil }
func (d *stubDriver) SendKeys(ctx context.Context, selector, text string) error { return nil }
func (d *stubDriver) SetValue(ctx context.Context, selector, value string) error { return nil }
func (d *stubDriver) UploadFile(ctx context.Context, selector, path string) error {
	return nil
}
func (d *stubDriver) Texts(ctx context.Context, selector string) ([]string, error) {
	return nil, nil
}

func TestWaitForLoginDetectsURLChange(t *testing.T) {
	driver := &stubDriver{}
	ctrl := NewController(driver, logger.NewNopLogger())

	// Simulate the user finishing login shortly after the page opens
	go func() {
		time.Sleep(30 * time.Millisecond)
		driver.setURL("https://www.pinterest.com/")
	}()

	err := ctrl.WaitForLogin(context.Background(), time.Second, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForLogin failed: %v", err)
	}

	if len(driver.navigated) == 0 || driver.navigated[0] != LoginURL {
		t.Errorf("Expected navigation to login page, got %v", driver.navigated)
	}
}

func TestWaitForLoginTimesOut(t *testing.T) {
	driver := &stubDriver{}
	ctrl := NewController(driver, logger.NewNopLogger())

	err := ctrl.WaitForLogin(context.Background(), 50*time.Millisecond, 10*time.Millisecond)
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if !errs.IsType(err, errs.ErrorTypeAuth) {
		t.Errorf("Expected auth error, got %v", err)
	}
}

func TestWaitForLoginPollingBacksOff(t *testing.T) {
	driver := &stubDriver{}
	ctrl := NewController(driver, logger.NewNopLogger())

	err := ctrl.WaitForLogin(context.Background(), 200*time.Millisecond, 10*time.Millisecond)
	if err == nil {
		t.Fatal("Expected timeout error")
	}

	// Fixed 10ms polling would read the URL ~20 times in 200ms. The growing
	// interval keeps the page mostly undisturbed while the user types.
	checks := driver.urlReadCount()
	if checks >= 15 {
		t.Errorf("Expected polling to back off, got %d URL reads in 200ms", checks)
	}
	if checks < 3 {
		t.Errorf("Expected several polls before the deadline, got %d", checks)
	}
}

func TestWaitForLoginCancelled(t *testing.T) {
	driver := &stubDriver{}
	ctrl := NewController(driver, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ctrl.WaitForLogin(ctx, time.Second, 10*time.Millisecond)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestIsAuthenticated(t *testing.T) {
	driver := &stubDriver{fileInput: true}
	ctrl := NewController(driver, logger.NewNopLogger())

	ok, err := ctrl.IsAuthenticated(context.Background(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("IsAuthenticated failed: %v", err)
	}
	if !ok {
		t.Error("Expected authenticated session")
	}
}

func TestIsAuthenticatedBouncedToLogin(t *testing.T) {
	// Pinterest redirects unauthenticated visitors back to the login page
	driver := &stubDriver{fileInput: true, redirectTo: LoginURL}
	ctrl := NewController(driver, logger.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ok, _ := ctrl.IsAuthenticated(ctx, 10*time.Millisecond)
	if ok {
		t.Error("Expected unauthenticated session")
	}
}

func TestOpenPinBuilderSessionExpired(t *testing.T) {
	// Every pin-builder navigation bounces straight to login
	driver := &stubDriver{redirectTo: LoginURL}
	ctrl := NewController(driver, logger.NewNopLogger())

	err := ctrl.OpenPinBuilder(context.Background(), 50*time.Millisecond, 10*time.Millisecond)
	if err == nil {
		t.Fatal("Expected session error")
	}
	if !errs.IsType(err, errs.ErrorTypeSession) {
		t.Errorf("Expected session error, got %v", err)
	}
}

func TestOpenPinBuilderLoads(t *testing.T) {
	driver := &stubDriver{fileInput: true}
	ctrl := NewController(driver, logger.NewNopLogger())

	err := ctrl.OpenPinBuilder(context.Background(), time.Second, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("OpenPinBuilder failed: %v", err)
	}
}
