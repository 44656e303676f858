// Package browsertest provides an in-memory implementation of the browser
// capability interfaces backed by parsed HTML fixtures. Selector queries run
// through goquery, so tests exercise the same CSS selectors the production
// adapter sends to Playwright, without a real browser.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/apply-agent/internal/browser"
)

// FailAttr marks a fixture element so that mutating operations on it fail.
// Tests use it to verify per-element fault isolation.
const FailAttr = "data-fail"

// Recorder captures every mutation performed against a fake page and its
// frames, keyed by the target element's id, name, or placeholder.
type Recorder struct {
	Fills    map[string]string
	Selected map[string]string
	Clicks   []string
	Files    map[string]string
}

func newRecorder() *Recorder {
	return &Recorder{
		Fills:    map[string]string{},
		Selected: map[string]string{},
		Files:    map[string]string{},
	}
}

// Page is a fake top-level page.
type Page struct {
	dom
	frames []*Frame

	// NavigatedURL records the last Goto target.
	NavigatedURL string
	// GotoErr, when set, is returned from Goto to simulate navigation failure.
	GotoErr error
	// ScreenshotErr, when set, is returned from Screenshot.
	ScreenshotErr error
}

// NewPage parses the fixture markup into a fake page.
func NewPage(markup string) *Page {
	rec := newRecorder()
	return &Page{dom: parseDOM(markup, rec)}
}

// AddFrame attaches a nested frame with its own fixture markup. Frames share
// the page's recorder.
func (p *Page) AddFrame(url string, markup string) *Frame {
	frame := &Frame{dom: parseDOM(markup, p.rec), url: url}
	p.frames = append(p.frames, frame)
	return frame
}

// Recorder returns the shared mutation recorder.
func (p *Page) Recorder() *Recorder {
	return p.rec
}

func (p *Page) Goto(_ context.Context, url string) error {
	p.NavigatedURL = url
	return p.GotoErr
}

func (p *Page) Frames() []browser.Frame {
	frames := make([]browser.Frame, 0, len(p.frames))
	for _, f := range p.frames {
		frames = append(frames, f)
	}
	return frames
}

func (p *Page) Settle(time.Duration) {}

func (p *Page) Screenshot() ([]byte, error) {
	if p.ScreenshotErr != nil {
		return nil, p.ScreenshotErr
	}
	return []byte("png"), nil
}

// Frame is a fake nested browsing context.
type Frame struct {
	dom
	url string
}

func (f *Frame) URL() string {
	return f.url
}

// dom implements browser.Root over a parsed document.
type dom struct {
	doc *goquery.Document
	rec *Recorder
}

func parseDOM(markup string, rec *Recorder) dom {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		panic(fmt.Sprintf("browsertest: bad fixture markup: %v", err))
	}
	return dom{doc: doc, rec: rec}
}

func (d dom) QueryOne(selector string) (browser.Element, error) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, nil
	}
	return &element{sel: sel.First(), rec: d.rec}, nil
}

func (d dom) QueryAll(selector string) ([]browser.Element, error) {
	var elements []browser.Element
	d.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, &element{sel: sel, rec: d.rec})
	})
	return elements, nil
}

func (d dom) Content() (string, error) {
	return d.doc.Html()
}

type element struct {
	sel *goquery.Selection
	rec *Recorder
}

// key identifies the element in the recorder.
func (e *element) key() string {
	for _, attr := range []string{"id", "name", "placeholder", "aria-label"} {
		if v, ok := e.sel.Attr(attr); ok && v != "" {
			return v
		}
	}
	if text := strings.TrimSpace(e.sel.Text()); text != "" {
		return text
	}
	return goquery.NodeName(e.sel)
}

func (e *element) failure(op string) error {
	if reason, ok := e.sel.Attr(FailAttr); ok {
		if reason == "" {
			reason = "injected failure"
		}
		return fmt.Errorf("%s %s: %s", op, e.key(), reason)
	}
	return nil
}

func (e *element) Tag() string {
	return goquery.NodeName(e.sel)
}

func (e *element) Attr(name string) string {
	return e.sel.AttrOr(name, "")
}

func (e *element) Text() string {
	return e.sel.Text()
}

func (e *element) Visible() bool {
	if e.Attr("type") == "hidden" {
		return false
	}
	if _, hidden := e.sel.Attr("hidden"); hidden {
		return false
	}
	return !strings.Contains(e.Attr("style"), "display:none")
}

func (e *element) Disabled() bool {
	_, disabled := e.sel.Attr("disabled")
	return disabled
}

func (e *element) Fill(value string) error {
	if err := e.failure("fill"); err != nil {
		return err
	}
	e.sel.SetAttr("value", value)
	e.rec.Fills[e.key()] = value
	return nil
}

func (e *element) Click() error {
	if err := e.failure("click"); err != nil {
		return err
	}
	e.rec.Clicks = append(e.rec.Clicks, e.key())
	return nil
}

func (e *element) SelectByLabel(label string) error {
	if err := e.failure("select"); err != nil {
		return err
	}
	var found bool
	e.sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		if strings.TrimSpace(opt.Text()) == label {
			found = true
		}
	})
	if !found {
		return fmt.Errorf("select %s: no option labeled %q", e.key(), label)
	}
	e.rec.Selected[e.key()] = label
	return nil
}

func (e *element) SelectByValue(value string) error {
	if err := e.failure("select"); err != nil {
		return err
	}
	if e.sel.Find(fmt.Sprintf("option[value=%q]", value)).Length() == 0 {
		return fmt.Errorf("select %s: no option valued %q", e.key(), value)
	}
	e.rec.Selected[e.key()] = value
	return nil
}

func (e *element) SetFiles(path string) error {
	if err := e.failure("attach"); err != nil {
		return err
	}
	e.rec.Files[e.key()] = path
	return nil
}

func (e *element) QueryOne(selector string) (browser.Element, error) {
	sel := e.sel.Find(selector)
	if sel.Length() == 0 {
		return nil, nil
	}
	return &element{sel: sel.First(), rec: e.rec}, nil
}

func (e *element) QueryAll(selector string) ([]browser.Element, error) {
	var elements []browser.Element
	e.sel.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, &element{sel: sel, rec: e.rec})
	})
	return elements, nil
}

func (e *element) Closest(selector string) (browser.Element, error) {
	sel := e.sel.Closest(selector)
	if sel.Length() == 0 {
		return nil, nil
	}
	return &element{sel: sel, rec: e.rec}, nil
}
