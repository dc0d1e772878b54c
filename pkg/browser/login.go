package browser

import (
	"context"
	"strings"
	"time"

	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/logger"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/wait"
)

// fileInputSelector is the pin-builder upload input, used here as the
// authenticated-page probe.
const fileInputSelector = `input[type='file']`

// Controller manages the authenticated Pinterest session for a batch run
type Controller struct {
	driver Driver
	logger logger.Logger
}

// NewController creates a session controller on top of a driver
func NewController(d Driver, log logger.Logger) *Controller {
	return &Controller{
		driver: d,
		logger: log,
	}
}

// WaitForLogin opens the login page and blocks until the user finishes
// logging in by hand or the wait window closes. Login is detected by the
// browser leaving the /login URL. Polling starts at interval and backs off
// while the user types their credentials.
func (c *Controller) WaitForLogin(ctx context.Context, timeout, interval time.Duration) error {
	if err := c.driver.Navigate(ctx, LoginURL); err != nil {
		return err
	}

	c.logger.InfoWithFields("Waiting for manual login", map[string]interface{}{
		"timeout": timeout,
	})

	backoff := &wait.ExponentialBackoff{
		BaseDelay:  interval,
		MaxDelay:   5 * interval,
		Multiplier: 1.5,
	}

	result, _ := wait.Until(ctx, func(ctx context.Context) (bool, error) {
		url, err := c.driver.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return !strings.Contains(url, "/login"), nil
	}, wait.Options{Timeout: timeout, Interval: interval, Backoff: backoff})

	if result == wait.TimedOut {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.New(errs.ErrorTypeAuth, "login was not completed within the wait window")
	}

	c.logger.Info("Login detected")
	return nil
}

// IsAuthenticated checks whether the session can reach the pin builder.
// Pinterest bounces unauthenticated visitors back to /login.
func (c *Controller) IsAuthenticated(ctx context.Context, interval time.Duration) (bool, error) {
	if err := c.driver.Navigate(ctx, PinBuilderURL); err != nil {
		return false, err
	}

	result, _ := wait.Until(ctx, func(ctx context.Context) (bool, error) {
		url, err := c.driver.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		if strings.Contains(url, "/login") {
			return false, nil
		}
		return c.driver.Exists(ctx, fileInputSelector)
	}, wait.Options{Timeout: 10 * time.Second, Interval: interval})

	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return result == wait.Satisfied, nil
}

// OpenPinBuilder navigates to a fresh pin-builder page and waits for the
// upload input to appear. A bounce back to /login mid-batch means the
// session is gone and the batch must abort.
func (c *Controller) OpenPinBuilder(ctx context.Context, timeout, interval time.Duration) error {
	if err := c.driver.Navigate(ctx, PinBuilderURL); err != nil {
		return err
	}

	result, err := wait.Until(ctx, func(ctx context.Context) (bool, error) {
		url, err := c.driver.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		if strings.Contains(url, "/login") {
			return false, errs.New(errs.ErrorTypeSession, "session expired: redirected to login")
		}
		return c.driver.Exists(ctx, fileInputSelector)
	}, wait.Options{Timeout: timeout, Interval: interval})

	if result == wait.Satisfied {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errs.IsType(err, errs.ErrorTypeSession) {
		return err
	}
	return errs.New(errs.ErrorTypeSession, "pin builder did not load")
}
