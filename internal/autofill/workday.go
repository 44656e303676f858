package autofill

import (
	"context"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/types"
)

// Workday renders through data-automation-id attributes.
var workdayApplyTriggers = []string{
	"[data-automation-id='applyButton']",
	"a[data-automation-id='adventureButton']",
}

// WorkdayStrategy is a thin dedicated flow for Workday tenants. Workday's
// multi-page wizard is out of scope; this covers the first page's fields via
// the keyword matcher and notes resume availability rather than attempting
// Workday's scripted upload widget.
type WorkdayStrategy struct{}

func (s *WorkdayStrategy) Kind() ats.Kind {
	return ats.Workday
}

func (s *WorkdayStrategy) Run(_ context.Context, page browser.Page, input *types.RunInput, trail *observability.Trail) error {
	if selector, ok := clickFirstVisible(page, workdayApplyTriggers); ok {
		trail.Add("Clicked apply trigger %s", selector)
		page.Settle(settleInterval)
	}

	fillContactFields(page, &input.Profile, trail)
	SmartFill(page, &input.Profile, input.Prefs, trail)

	if input.Assets != nil && input.Assets.ResumeURL != "" {
		trail.Add("Resume available at: %s", input.Assets.ResumeURL)
	}
	noteCoverLetter(input, trail)
	return nil
}
