// Package browser drives a real Chrome instance against the Pinterest web
// app. The Driver interface is the narrow surface the posting state machine
// needs; Session is its chromedp implementation.
package browser

import "context"

const (
	// LoginURL is the Pinterest login page
	LoginURL = "https://www.pinterest.com/login/"
	// PinBuilderURL is the pin creation page
	PinBuilderURL = "https://www.pinterest.com/pin-builder/"
)

// Driver abstracts the browser operations used to post pins. All methods
// honor ctx cancellation. Selectors are CSS.
type Driver interface {
	// Navigate loads the given URL and waits for the document to be ready
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the URL of the current page
	CurrentURL(ctx context.Context) (string, error)

	// Exists reports whether at least one element matches the selector
	Exists(ctx context.Context, selector string) (bool, error)

	// Visible reports whether a matching element is rendered with a
	// non-empty box
	Visible(ctx context.Context, selector string) (bool, error)

	// Click clicks the first element matching the selector
	Click(ctx context.Context, selector string) error

	// ClickNth clicks the n-th (zero-based) element matching the selector
	ClickNth(ctx context.Context, selector string, n int) error

	// SendKeys types text into the first element matching the selector
	SendKeys(ctx context.Context, selector, text string) error

	// SetValue replaces the value of the first element matching the selector
	SetValue(ctx context.Context, selector, value string) error

	// UploadFile attaches a local file to a file input
	UploadFile(ctx context.Context, selector, path string) error

	// Texts returns the text content of every element matching the selector
	Texts(ctx context.Context, selector string) ([]string, error)
}
