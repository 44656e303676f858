package browser

import (
	"context"
	"fmt"
	"time"

	pw "github.com/playwright-community/playwright-go"
)

// Connection owns a Playwright driver attached to a remote browser over CDP.
// Close must be called when the run finishes; the cloud session itself is
// released separately by the provisioning layer.
type Connection struct {
	runner  *pw.Playwright
	browser pw.Browser
	page    pw.Page
}

// ConnectCDP attaches to the browser exposed at the CDP websocket endpoint and
// returns a connection bound to its first page, creating one when the fresh
// session has none.
func ConnectCDP(_ context.Context, wsURL string) (*Connection, error) {
	runner, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright driver: %w", err)
	}

	remote, err := runner.Chromium.ConnectOverCDP(wsURL)
	if err != nil {
		_ = runner.Stop()
		return nil, fmt.Errorf("failed to connect over CDP: %w", err)
	}

	var browserCtx pw.BrowserContext
	if contexts := remote.Contexts(); len(contexts) > 0 {
		browserCtx = contexts[0]
	} else {
		browserCtx, err = remote.NewContext()
		if err != nil {
			_ = remote.Close()
			_ = runner.Stop()
			return nil, fmt.Errorf("failed to create browser context: %w", err)
		}
	}

	var page pw.Page
	if pages := browserCtx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = browserCtx.NewPage()
		if err != nil {
			_ = remote.Close()
			_ = runner.Stop()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	return &Connection{runner: runner, browser: remote, page: page}, nil
}

// Page returns the capability handle for the connection's page.
func (c *Connection) Page() Page {
	return &playwrightPage{page: c.page}
}

// Close detaches from the remote browser and stops the driver.
func (c *Connection) Close() error {
	err := c.browser.Close()
	if stopErr := c.runner.Stop(); err == nil {
		err = stopErr
	}
	return err
}

type playwrightPage struct {
	page pw.Page
}

func (p *playwrightPage) Goto(_ context.Context, url string) error {
	_, err := p.page.Goto(url, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (p *playwrightPage) QueryOne(selector string) (Element, error) {
	handle, err := p.page.QuerySelector(selector)
	if err != nil || handle == nil {
		return nil, err
	}
	return &playwrightElement{handle: handle}, nil
}

func (p *playwrightPage) QueryAll(selector string) ([]Element, error) {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrapHandles(handles), nil
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Frames() []Frame {
	var frames []Frame
	for _, f := range p.page.Frames() {
		frames = append(frames, &playwrightFrame{frame: f})
	}
	return frames
}

func (p *playwrightPage) Settle(d time.Duration) {
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *playwrightPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot()
}

type playwrightFrame struct {
	frame pw.Frame
}

func (f *playwrightFrame) URL() string {
	return f.frame.URL()
}

func (f *playwrightFrame) QueryOne(selector string) (Element, error) {
	handle, err := f.frame.QuerySelector(selector)
	if err != nil || handle == nil {
		return nil, err
	}
	return &playwrightElement{handle: handle}, nil
}

func (f *playwrightFrame) QueryAll(selector string) ([]Element, error) {
	handles, err := f.frame.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrapHandles(handles), nil
}

func (f *playwrightFrame) Content() (string, error) {
	return f.frame.Content()
}

func wrapHandles(handles []pw.ElementHandle) []Element {
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &playwrightElement{handle: h})
	}
	return elements
}

type playwrightElement struct {
	handle pw.ElementHandle
}

func (e *playwrightElement) Tag() string {
	result, err := e.handle.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return ""
	}
	tag, _ := result.(string)
	return tag
}

func (e *playwrightElement) Attr(name string) string {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return ""
	}
	return value
}

func (e *playwrightElement) Text() string {
	text, err := e.handle.TextContent()
	if err != nil {
		return ""
	}
	return text
}

func (e *playwrightElement) Visible() bool {
	visible, err := e.handle.IsVisible()
	return err == nil && visible
}

func (e *playwrightElement) Disabled() bool {
	disabled, err := e.handle.IsDisabled()
	return err == nil && disabled
}

func (e *playwrightElement) Fill(value string) error {
	return e.handle.Fill(value)
}

func (e *playwrightElement) Click() error {
	return e.handle.Click()
}

func (e *playwrightElement) SelectByLabel(label string) error {
	_, err := e.handle.SelectOption(pw.SelectOptionValues{Labels: &[]string{label}})
	return err
}

func (e *playwrightElement) SelectByValue(value string) error {
	_, err := e.handle.SelectOption(pw.SelectOptionValues{Values: &[]string{value}})
	return err
}

func (e *playwrightElement) SetFiles(path string) error {
	return e.handle.SetInputFiles(path)
}

func (e *playwrightElement) QueryOne(selector string) (Element, error) {
	handle, err := e.handle.QuerySelector(selector)
	if err != nil || handle == nil {
		return nil, err
	}
	return &playwrightElement{handle: handle}, nil
}

func (e *playwrightElement) QueryAll(selector string) ([]Element, error) {
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrapHandles(handles), nil
}

func (e *playwrightElement) Closest(selector string) (Element, error) {
	result, err := e.handle.EvaluateHandle("(el, sel) => el.closest(sel)", selector)
	if err != nil {
		return nil, err
	}
	handle := result.AsElement()
	if handle == nil {
		return nil, nil
	}
	return &playwrightElement{handle: handle}, nil
}
