package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/browser/browsertest"
	"github.com/jonathan/apply-agent/internal/provision"
	"github.com/jonathan/apply-agent/internal/types"
)

// fakeProvisioner hands out sessions whose releases it counts.
type fakeProvisioner struct {
	creates  int
	releases int

	createErr  error
	releaseErr error
}

func (f *fakeProvisioner) Create(_ context.Context, opts provision.CreateOptions) (*provision.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates++
	if opts.InvocationID == "" {
		return nil, fmt.Errorf("missing invocation id")
	}
	return provision.NewSession("sess-1", "ws://browser/cdp", "https://live.example.com/sess-1", func(context.Context) error {
		f.releases++
		return f.releaseErr
	}), nil
}

func pageConnector(page browser.Page) Connector {
	return func(context.Context, string) (browser.Page, func() error, error) {
		return page, func() error { return nil }, nil
	}
}

func validInput() *types.RunInput {
	return &types.RunInput{
		URL: "https://example.com/careers/apply",
		Profile: types.Profile{
			Name:  "Jane Doe",
			Email: "jane@example.com",
		},
	}
}

func TestRun_Success(t *testing.T) {
	prov := &fakeProvisioner{}
	page := browsertest.NewPage(`<form><input type="email" name="email"></form>`)
	r := New(prov, pageConnector(page), nil)

	out := r.Run(context.Background(), validInput())

	assert.Equal(t, types.StatusSucceeded, out.Status)
	assert.Equal(t, "navigation and autofill completed", out.Summary)
	assert.Equal(t, "https://live.example.com/sess-1", out.LiveViewURL)
	assert.Equal(t, "https://example.com/careers/apply", page.NavigatedURL)
	assert.Equal(t, 1, prov.creates)
	assert.Equal(t, 1, prov.releases)
	assert.Contains(t, strings.Join(out.Notes, "\n"), "Detected ATS: generic")
	assert.Equal(t, "jane@example.com", page.Recorder().Fills["email"])
}

func TestRun_NothingFillableStillSucceeds(t *testing.T) {
	prov := &fakeProvisioner{}
	page := browsertest.NewPage(`<article><h1>About us</h1><p>No openings.</p></article>`)
	r := New(prov, pageConnector(page), nil)

	out := r.Run(context.Background(), validInput())

	assert.Equal(t, types.StatusSucceeded, out.Status)
	assert.Empty(t, page.Recorder().Fills)
	assert.Equal(t, 1, prov.releases)
	assert.Contains(t, strings.Join(out.Notes, "\n"), "Detected ATS: generic")
}

func TestRun_NilInput(t *testing.T) {
	prov := &fakeProvisioner{}
	r := New(prov, pageConnector(browsertest.NewPage("<div></div>")), nil)

	out := r.Run(context.Background(), nil)

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "missing input payload", out.Summary)
	assert.Equal(t, 0, prov.creates, "validation failure must not provision a browser")
	require.Len(t, out.Notes, 1)
	assert.Contains(t, out.Notes[0], "Missing input")
}

func TestRun_MissingURL(t *testing.T) {
	prov := &fakeProvisioner{}
	r := New(prov, pageConnector(browsertest.NewPage("<div></div>")), nil)

	out := r.Run(context.Background(), &types.RunInput{})

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "missing input payload", out.Summary)
	assert.Equal(t, 0, prov.creates)
}

func TestRun_ProvisioningFailure(t *testing.T) {
	prov := &fakeProvisioner{createErr: fmt.Errorf("quota exceeded")}
	r := New(prov, pageConnector(browsertest.NewPage("<div></div>")), nil)

	out := r.Run(context.Background(), validInput())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "failed to provision browser", out.Summary)
	assert.Equal(t, 0, prov.releases)
	assert.Contains(t, strings.Join(out.Notes, "\n"), "quota exceeded")
}

func TestRun_ConnectFailureReleasesSession(t *testing.T) {
	prov := &fakeProvisioner{}
	connect := func(context.Context, string) (browser.Page, func() error, error) {
		return nil, nil, fmt.Errorf("cdp handshake failed")
	}
	r := New(prov, connect, nil)

	out := r.Run(context.Background(), validInput())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "failed to attach to browser", out.Summary)
	assert.Equal(t, 1, prov.releases)
}

func TestRun_NavigationFailureReleasesSession(t *testing.T) {
	prov := &fakeProvisioner{}
	page := browsertest.NewPage("<div></div>")
	page.GotoErr = fmt.Errorf("net::ERR_NAME_NOT_RESOLVED")
	r := New(prov, pageConnector(page), nil)

	out := r.Run(context.Background(), validInput())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "failed to load application page", out.Summary)
	assert.Equal(t, 1, prov.releases)
}

func TestRun_StrategyPanicReleasesSession(t *testing.T) {
	prov := &fakeProvisioner{}
	r := New(prov, pageConnector(&panicPage{}), nil)

	out := r.Run(context.Background(), validInput())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "failed to fill job form", out.Summary)
	assert.Equal(t, 1, prov.releases)
	assert.Contains(t, strings.Join(out.Notes, "\n"), "strategy panic")
}

func TestRun_ReleaseFailureIsNoted(t *testing.T) {
	prov := &fakeProvisioner{releaseErr: fmt.Errorf("already gone")}
	page := browsertest.NewPage(`<form><input type="email" name="email"></form>`)
	r := New(prov, pageConnector(page), nil)

	out := r.Run(context.Background(), validInput())

	// A failed release does not change the run result, only the trail.
	assert.Equal(t, types.StatusSucceeded, out.Status)
	assert.Equal(t, 1, prov.releases)
	assert.Contains(t, strings.Join(out.Notes, "\n"), "Browser release failed")
}

func TestRun_CanceledContextStillReleasesSession(t *testing.T) {
	prov := &fakeProvisioner{}
	connect := func(ctx context.Context, _ string) (browser.Page, func() error, error) {
		return nil, nil, ctx.Err()
	}
	r := New(prov, connect, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := r.Run(ctx, validInput())

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, 1, prov.releases)
}

func TestRun_ProofScreenshot(t *testing.T) {
	prov := &fakeProvisioner{}
	page := browsertest.NewPage(`<form><input type="email" name="email"></form>`)
	r := New(prov, pageConnector(page), nil)

	input := validInput()
	input.Screenshots = true
	out := r.Run(context.Background(), input)

	require.Len(t, out.Screenshots, 1)
	data, err := os.ReadFile(out.Screenshots[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
	_ = os.Remove(out.Screenshots[0])
}

func TestRun_ScreenshotFailureIsNoted(t *testing.T) {
	prov := &fakeProvisioner{}
	page := browsertest.NewPage(`<form><input type="email" name="email"></form>`)
	page.ScreenshotErr = fmt.Errorf("target closed")
	r := New(prov, pageConnector(page), nil)

	input := validInput()
	input.Screenshots = true
	out := r.Run(context.Background(), input)

	assert.Equal(t, types.StatusSucceeded, out.Status)
	assert.Empty(t, out.Screenshots)
	assert.Contains(t, strings.Join(out.Notes, "\n"), "Screenshot capture failed")
}

func TestRun_GreenhouseURLSelectsGreenhouseStrategy(t *testing.T) {
	prov := &fakeProvisioner{}
	page := browsertest.NewPage(`<form><input id="first_name"></form>`)
	r := New(prov, pageConnector(page), nil)

	input := validInput()
	input.URL = "https://boards.greenhouse.io/acme/jobs/123"
	out := r.Run(context.Background(), input)

	assert.Equal(t, types.StatusSucceeded, out.Status)
	assert.Contains(t, strings.Join(out.Notes, "\n"), "Detected ATS: greenhouse")
	assert.Equal(t, "Jane", page.Recorder().Fills["first_name"])
}

// panicPage satisfies browser.Page and panics on the first selector query,
// simulating a strategy blowing up mid-flight.
type panicPage struct{}

func (p *panicPage) QueryOne(string) (browser.Element, error)   { panic("selector engine crashed") }
func (p *panicPage) QueryAll(string) ([]browser.Element, error) { panic("selector engine crashed") }
func (p *panicPage) Content() (string, error)                   { return "", nil }
func (p *panicPage) Goto(context.Context, string) error         { return nil }
func (p *panicPage) Frames() []browser.Frame                    { return nil }
func (p *panicPage) Settle(time.Duration)                       {}
func (p *panicPage) Screenshot() ([]byte, error)                { return nil, nil }
