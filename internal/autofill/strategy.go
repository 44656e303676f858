package autofill

import (
	"context"
	"strings"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/types"
)

// Strategy is the ordered sequence of fill/click/upload operations specific to
// one ATS kind. Individual steps inside a strategy self-isolate their
// failures into the trail; only an error escaping Run as a whole fails the
// run, a policy the orchestrator enforces at this boundary.
type Strategy interface {
	Kind() ats.Kind
	Run(ctx context.Context, page browser.Page, input *types.RunInput, trail *observability.Trail) error
}

// StrategyFor returns the strategy implementation for a classified kind. The
// kind set is closed: adding an ATS means adding a Kind and an implementation
// here, not editing call sites.
func StrategyFor(kind ats.Kind) Strategy {
	switch kind {
	case ats.Greenhouse:
		return &GreenhouseStrategy{fetch: FetchAsset}
	case ats.Lever:
		return &LeverStrategy{fetch: FetchAsset}
	case ats.Workday:
		return &WorkdayStrategy{}
	default:
		return &GenericStrategy{}
	}
}

// fillFirst tries an ordered selector list and fills the first element found.
// Absence of any match is a silent skip, not an error. It reports whether a
// fill happened so callers can log it.
func fillFirst(root browser.Root, selectors []string, value string, field string, trail *observability.Trail) bool {
	if value == "" {
		return false
	}
	for _, selector := range selectors {
		el, err := root.QueryOne(selector)
		if err != nil || el == nil {
			continue
		}
		if err := fillControl(el, value); err != nil {
			trail.Add("Fill error for %s: %v", field, err)
			return false
		}
		trail.Add("Filled %s", field)
		return true
	}
	return false
}

// fillByLabel walks the labels containing one of the synonym texts, resolving
// each to its control through the shared resolver. The first control that
// fills wins; candidates that resolve to nothing or fail to fill are passed
// over in favor of the next.
func fillByLabel(root browser.Root, synonyms []string, value string, field string, trail *observability.Trail) bool {
	if value == "" {
		return false
	}
	for _, label := range findLabelsContaining(root, synonyms) {
		control := controlForLabel(root, label)
		if control == nil {
			continue
		}
		if err := fillControl(control, value); err != nil {
			trail.Add("Fill error for %s: %v", field, err)
			continue
		}
		trail.Add("Filled %s", field)
		return true
	}
	return false
}

// clickFirstVisible clicks the first visible element in an ordered selector
// list and returns the selector that fired.
func clickFirstVisible(root browser.Root, selectors []string) (string, bool) {
	for _, selector := range selectors {
		el, err := root.QueryOne(selector)
		if err != nil || el == nil || !el.Visible() {
			continue
		}
		if err := el.Click(); err != nil {
			continue
		}
		return selector, true
	}
	return "", false
}

// noteCoverLetter records cover-letter availability. No ATS flow attaches it;
// cover letters are pasted or uploaded through widgets too varied to target.
func noteCoverLetter(input *types.RunInput, trail *observability.Trail) {
	if input.Assets != nil && input.Assets.CoverLetterURL != "" {
		trail.Add("Cover letter available at: %s", input.Assets.CoverLetterURL)
	}
}

// frameMatching returns the first frame whose URL contains pattern, or nil.
func frameMatching(page browser.Page, pattern string) browser.Frame {
	for _, frame := range page.Frames() {
		if strings.Contains(strings.ToLower(frame.URL()), pattern) {
			return frame
		}
	}
	return nil
}
