package automation

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by WaitVisible when the expected element does not
// appear within the configured wait ceiling. Callers treat it as a local
// failure for the current unit of work, never as a fatal condition.
var ErrTimeout = errors.New("wait timed out")

// Element is a read-only handle onto a piece of the current page. Handles
// are snapshots: they stay valid after further navigation but do not track
// live DOM mutations.
type Element interface {
	// Text returns the trimmed text content of the element subtree.
	Text() string
	// Attr returns the value of the named attribute, or "" when absent.
	Attr(name string) string
	// Find returns the elements matching selector inside this subtree,
	// in document order.
	Find(selector string) []Element
}

// Driver is the browser capability surface the extraction pipeline consumes.
// Exactly one operation is in flight at a time; the pipeline owns the
// session exclusively for the whole run.
type Driver interface {
	// Navigate loads url and waits for the document to become ready.
	Navigate(ctx context.Context, url string) error
	// FindAll returns all elements currently matching selector, in
	// document order. An empty result is not an error.
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// WaitVisible blocks until an element matching selector is visible or
	// timeout elapses, in which case it returns ErrTimeout.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	// ScrollToBottom scrolls the page to its current bottom edge.
	ScrollToBottom(ctx context.Context) error
	// Click dispatches a click on the element previously returned by
	// FindAll or WaitVisible.
	Click(ctx context.Context, el Element) error
	// Close releases the browser session.
	Close() error
}
