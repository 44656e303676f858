// Package runner provides the top-level orchestration for a form-fill run:
// acquire a browser session, navigate, classify the ATS, execute the matching
// strategy, and produce the result record. The session release is guaranteed
// on every exit path.
package runner

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/autofill"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/provision"
	"github.com/jonathan/apply-agent/internal/types"
)

// Connector attaches to a provisioned browser and returns its page handle
// plus a detach function. It exists as an injection point so tests can run
// against the in-memory DOM fake.
type Connector func(ctx context.Context, cdpWSURL string) (browser.Page, func() error, error)

// PlaywrightConnector is the production Connector.
func PlaywrightConnector(ctx context.Context, cdpWSURL string) (browser.Page, func() error, error) {
	conn, err := browser.ConnectCDP(ctx, cdpWSURL)
	if err != nil {
		return nil, nil, err
	}
	return conn.Page(), conn.Close, nil
}

// Runner executes fill_job_form runs. Each run owns an independently
// provisioned browser session; runners hold no per-run state and are safe to
// share across concurrent runs.
type Runner struct {
	prov    provision.Provisioner
	connect Connector
	log     *zap.Logger
}

// New creates a runner. A nil connect defaults to the Playwright connector; a
// nil log disables structured logging.
func New(prov provision.Provisioner, connect Connector, log *zap.Logger) *Runner {
	if connect == nil {
		connect = PlaywrightConnector
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{prov: prov, connect: connect, log: log}
}

// Run is the fill_job_form operation. It always returns a RunOutput; errors
// are folded into the output's status, summary, and note trail. The browser
// session acquired for the run is released exactly once on every exit path,
// including panics escaping the strategy; the early validation-failure path
// acquires nothing and therefore releases nothing.
func (r *Runner) Run(ctx context.Context, input *types.RunInput) *types.RunOutput {
	trail := observability.NewTrail(r.log)
	out := &types.RunOutput{
		Status:      types.StatusFailed,
		Screenshots: []string{},
	}

	if err := input.Validate(); err != nil {
		trail.Add("Missing input: %v", err)
		return finish(out, "missing input payload", trail)
	}

	session, err := r.prov.Create(ctx, provision.CreateOptions{
		InvocationID:  uuid.NewString(),
		Stealth:       true,
		PersistenceID: input.PersistenceID,
	})
	if err != nil {
		trail.Add("Browser provisioning failed: %v", err)
		return finish(out, "failed to provision browser", trail)
	}
	out.LiveViewURL = session.LiveViewURL

	// Release must survive cancellation of the surrounding invocation; a
	// canceled context must not leak a remote session.
	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			trail.Add("Browser release failed: %v", err)
		}
		out.Notes = trail.Entries()
	}()

	page, detach, err := r.connect(ctx, session.CDPWSURL)
	if err != nil {
		trail.Add("Browser connection failed: %v", err)
		return finish(out, "failed to attach to browser", trail)
	}
	defer func() { _ = detach() }()

	if err := page.Goto(ctx, input.URL); err != nil {
		trail.Add("Navigation failed: %v", err)
		return finish(out, "failed to load application page", trail)
	}

	kind := r.classify(page, input.URL)
	trail.Add("Detected ATS: %s", kind)

	strategy := autofill.StrategyFor(kind)
	if err := runStrategy(ctx, strategy, page, input, trail); err != nil {
		trail.Add("Strategy failed: %v", err)
		return finish(out, "failed to fill job form", trail)
	}

	if input.Screenshots {
		r.captureProof(page, out, trail)
	}

	out.Status = types.StatusSucceeded
	return finish(out, "navigation and autofill completed", trail)
}

// classify detects the ATS from the URL first and consults page content only
// to upgrade an unrecognized result.
func (r *Runner) classify(page browser.Page, url string) ats.Kind {
	kind := ats.Classify(url, "")
	if kind != ats.Generic {
		return kind
	}
	content, err := page.Content()
	if err != nil {
		return kind
	}
	return ats.Upgrade(kind, url, content)
}

// runStrategy executes the selected strategy behind the run-level fault
// boundary: an error or panic escaping the strategy as a whole fails the run,
// while the strategy's inner steps self-isolate.
func runStrategy(ctx context.Context, strategy autofill.Strategy, page browser.Page, input *types.RunInput, trail *observability.Trail) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("strategy panic: %v", recovered)
		}
	}()
	return strategy.Run(ctx, page, input, trail)
}

// captureProof takes a best-effort screenshot; failure is a note, never a run
// failure.
func (r *Runner) captureProof(page browser.Page, out *types.RunOutput, trail *observability.Trail) {
	shot, err := page.Screenshot()
	if err != nil {
		trail.Add("Screenshot capture failed: %v", err)
		return
	}

	file, err := os.CreateTemp("", "proof-*.png")
	if err != nil {
		trail.Add("Screenshot save failed: %v", err)
		return
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Write(shot); err != nil {
		trail.Add("Screenshot save failed: %v", err)
		return
	}
	out.Screenshots = append(out.Screenshots, file.Name())
	trail.Add("Captured proof screenshot")
}

// finish stamps the summary and materializes the trail into the output.
func finish(out *types.RunOutput, summary string, trail *observability.Trail) *types.RunOutput {
	out.Summary = summary
	out.Notes = trail.Entries()
	return out
}
