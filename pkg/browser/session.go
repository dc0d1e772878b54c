package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/config"
	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
)

// SessionCookieName is the Pinterest authentication cookie
const SessionCookieName = "_pinterest_sess"

// Session owns a Chrome instance and implements Driver on top of it.
// The browser lives for the whole batch; runs are scoped to the caller's
// context so cancellation stops the current action without tearing the
// browser down.
type Session struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	logger        logger.Logger
}

// NewSession launches Chrome according to the browser configuration.
// The returned session must be closed with Close.
func NewSession(cfg *config.Config, log logger.Logger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.Browser.WindowWidth, cfg.Browser.WindowHeight),
	)
	if cfg.Browser.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Browser.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Launch eagerly so a missing Chrome install fails here, not mid-batch.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, errs.Newf(errs.ErrorTypeSession, "failed to launch browser: %v", err)
	}

	logger.LogComponentStart("browser", map[string]interface{}{
		"headless": cfg.Headless,
		"window":   fmt.Sprintf("%dx%d", cfg.Browser.WindowWidth, cfg.Browser.WindowHeight),
	})

	return &Session{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		logger:        log,
	}, nil
}

// Close shuts the browser down
func (s *Session) Close() {
	s.browserCancel()
	s.allocCancel()
	logger.LogComponentStop("browser", "session closed")
}

// run executes chromedp actions on the browser context while honoring the
// caller's context: cancelling ctx aborts the actions, and a dead browser
// surfaces as a session error.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if s.browserCtx.Err() != nil {
		return errs.New(errs.ErrorTypeSession, "browser session lost")
	}
	return err
}

// Navigate loads the given URL and waits for the document body
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.DebugWithFields("Navigating", map[string]interface{}{"url": url})
	return s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// CurrentURL returns the URL of the current page
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// Exists reports whether at least one element matches the selector
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	js := fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
	var found bool
	if err := s.run(ctx, chromedp.Evaluate(js, &found)); err != nil {
		return false, err
	}
	return found, nil
}

// Visible reports whether a matching element is rendered with a non-empty box
func (s *Session) Visible(ctx context.Context, selector string) (bool, error) {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		const r = el.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	})()`, selector)
	var visible bool
	if err := s.run(ctx, chromedp.Evaluate(js, &visible)); err != nil {
		return false, err
	}
	return visible, nil
}

// Click clicks the first element matching the selector
func (s *Session) Click(ctx context.Context, selector string) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;
	})()`, selector)
	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(js, &clicked)); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("no element matches selector: %s", selector)
	}
	return nil
}

// ClickNth clicks the n-th (zero-based) element matching the selector
func (s *Session) ClickNth(ctx context.Context, selector string, n int) error {
	js := fmt.Sprintf(`(() => {
		const els = document.querySelectorAll(%q);
		if (els.length <= %d) return false;
		els[%d].click();
		return true;
	})()`, selector, n, n)
	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(js, &clicked)); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("fewer than %d elements match selector: %s", n+1, selector)
	}
	return nil
}

// SendKeys types text into the first element matching the selector
func (s *Session) SendKeys(ctx context.Context, selector, text string) error {
	return s.run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

// SetValue replaces the value of the first element matching the selector
func (s *Session) SetValue(ctx context.Context, selector, value string) error {
	return s.run(ctx, chromedp.SetValue(selector, value, chromedp.ByQuery))
}

// UploadFile attaches a local file to a file input
func (s *Session) UploadFile(ctx context.Context, selector, path string) error {
	return s.run(ctx, chromedp.SetUploadFiles(selector, []string{path}, chromedp.ByQuery))
}

// Texts returns the text content of every element matching the selector
func (s *Session) Texts(ctx context.Context, selector string) ([]string, error) {
	js := fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(el => el.textContent.trim())`, selector)
	var texts []string
	if err := s.run(ctx, chromedp.Evaluate(js, &texts)); err != nil {
		return nil, err
	}
	return texts, nil
}

// SetSessionCookie installs a stored Pinterest session cookie so the batch
// can skip the manual login step.
func (s *Session) SetSessionCookie(ctx context.Context, value string) error {
	return s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookie := &network.CookieParam{
			Name:     SessionCookieName,
			Value:    value,
			Domain:   ".pinterest.com",
			Path:     "/",
			Secure:   true,
			HTTPOnly: true,
		}
		return storage.SetCookies([]*network.CookieParam{cookie}).Do(ctx)
	}))
}

// ReadSessionCookie returns the current Pinterest session cookie, or "" if
// the browser has none.
func (s *Session) ReadSessionCookie(ctx context.Context) (string, error) {
	var value string
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			if c.Name == SessionCookieName {
				value = c.Value
				return nil
			}
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return value, nil
}
