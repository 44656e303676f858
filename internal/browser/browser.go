// Package browser defines the DOM automation capability the fill engine
// consumes, plus its Playwright-backed production implementation. The engine
// only ever talks to these interfaces; they are constructed once per run and
// threaded explicitly, which keeps the DOM layer mockable without a real
// browser.
package browser

import (
	"context"
	"time"
)

// Root is a queryable DOM scope: either the top-level page or a nested frame.
type Root interface {
	// QueryOne returns the first element matching selector, or nil when there
	// is no match. A nil element with nil error is the "not found" case and is
	// not an error at this layer.
	QueryOne(selector string) (Element, error)
	// QueryAll returns every element matching selector.
	QueryAll(selector string) ([]Element, error)
	// Content returns the full rendered markup of the scope.
	Content() (string, error)
}

// Frame is a nested browsing context inside a page.
type Frame interface {
	Root
	// URL returns the frame's document URL.
	URL() string
}

// Page is the single top-level page driven during a run.
type Page interface {
	Root
	// Goto navigates to url and waits for the DOM to be ready.
	Goto(ctx context.Context, url string) error
	// Frames enumerates the page's frame tree, including nested frames.
	Frames() []Frame
	// Settle blocks for a fixed interval to let late-rendering forms and
	// iframes materialize after a trigger click.
	Settle(d time.Duration)
	// Screenshot captures the current viewport as PNG bytes.
	Screenshot() ([]byte, error)
}

// Element is a handle to a single DOM element. Attribute-style reads return
// zero values when the underlying read fails; mutating operations report their
// errors so callers can fold them into the note trail.
type Element interface {
	// Tag returns the lower-cased tag name ("input", "select", ...).
	Tag() string
	// Attr returns the attribute value, or "" when absent.
	Attr(name string) string
	// Text returns the element's text content.
	Text() string
	// Visible reports whether the element is rendered.
	Visible() bool
	// Disabled reports whether the element is disabled.
	Disabled() bool

	Fill(value string) error
	Click() error
	// SelectByLabel selects the option whose visible label matches.
	SelectByLabel(label string) error
	// SelectByValue selects the option whose value attribute matches.
	SelectByValue(value string) error
	// SetFiles attaches a local file to a file input.
	SetFiles(path string) error

	// QueryOne searches the element's descendants.
	QueryOne(selector string) (Element, error)
	// QueryAll returns every descendant matching selector.
	QueryAll(selector string) ([]Element, error)
	// Closest returns the nearest ancestor (or self) matching selector, or
	// nil when none exists.
	Closest(selector string) (Element, error)
}
