package autofill

import (
	"context"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/types"
)

// Lever posting pages link to a dedicated /apply page; when the form is
// already present these selectors hit it directly.
var leverApplyTriggers = []string{
	"a.postings-btn[href*='apply']",
	"a[href*='/apply']",
}

// LeverStrategy is a thin dedicated flow for Lever postings: trigger the
// apply page, fill the canonical contact fields, then hand the rest to the
// keyword matcher. Lever hosts its form on the page itself, so no frame
// resolution is needed.
type LeverStrategy struct {
	fetch FetchFunc
}

func (s *LeverStrategy) Kind() ats.Kind {
	return ats.Lever
}

func (s *LeverStrategy) Run(ctx context.Context, page browser.Page, input *types.RunInput, trail *observability.Trail) error {
	if selector, ok := clickFirstVisible(page, leverApplyTriggers); ok {
		trail.Add("Clicked apply trigger %s", selector)
		page.Settle(settleInterval)
	}

	fillContactFields(page, &input.Profile, trail)
	SmartFill(page, &input.Profile, input.Prefs, trail)

	if input.Assets != nil && input.Assets.ResumeURL != "" {
		attachResume(ctx, page, s.fetch, input.Assets.ResumeURL, trail)
	}
	noteCoverLetter(input, trail)
	return nil
}
