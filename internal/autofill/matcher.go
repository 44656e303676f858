package autofill

import (
	"regexp"
	"strings"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/types"
)

// excludedInputTypes are input types the matcher never touches. File inputs
// are handled by the dedicated resume-attachment step.
var excludedInputTypes = map[string]bool{
	"submit": true,
	"button": true,
	"hidden": true,
	"file":   true,
}

var (
	startDatePattern = regexp.MustCompile(`\b(start|from)\b`)
	endDatePattern   = regexp.MustCompile(`\b(end|until|to)\b`)
	workAuthPattern  = regexp.MustCompile(`sponsor|work authorization|authorized to work|legally authorized|visa`)
)

// SmartFill is the generic keyword-driven field matcher. It walks every
// interactive element under root, derives a text signature per element, and
// fills the first keyword match from the profile/preference-derived keyword
// map, with date-range and work-authorization heuristics as fallbacks.
//
// The matcher is strictly best-effort: a single element's failure is recorded
// on the trail and never aborts the scan of the remaining elements.
func SmartFill(root browser.Root, profile *types.Profile, prefs types.Preferences, trail *observability.Trail) {
	d := deriveValues(profile)
	keywords := buildKeywordMap(profile, prefs, d)

	elements, err := root.QueryAll("input, textarea, select")
	if err != nil {
		trail.Add("Smart fill: element enumeration failed: %v", err)
		return
	}

	filled := 0
	for _, el := range elements {
		if skipElement(el) {
			continue
		}

		sig := signature(root, el)
		if sig == "" {
			continue
		}

		// Authorization questions are usually radio groups; the answer is a
		// click on a sibling label rather than a fill, so this runs for every
		// matching element regardless of what the keyword and date passes do.
		if el.Tag() != "select" && workAuthPattern.MatchString(sig) {
			answerWorkAuth(el, prefs, trail)
		}

		if fillKeywordMatch(el, sig, keywords, trail) {
			filled++
			continue
		}

		if fillDateFallback(el, sig, d, trail) {
			filled++
		}
	}

	if filled == 0 {
		trail.Add("Smart fill: no matching fields found")
	}
}

func skipElement(el browser.Element) bool {
	if el.Tag() == "input" && excludedInputTypes[strings.ToLower(el.Attr("type"))] {
		return true
	}
	return !el.Visible() || el.Disabled()
}

// fillKeywordMatch scans the keyword map in definition order and fills the
// first match. It returns true when a keyword matched, whether or not the fill
// itself succeeded; failures are swallowed into the trail.
func fillKeywordMatch(el browser.Element, sig string, keywords []keywordEntry, trail *observability.Trail) bool {
	for _, entry := range keywords {
		if !strings.Contains(sig, entry.keyword) {
			continue
		}
		if err := fillControl(el, entry.value); err != nil {
			trail.Add("Fill error for %q field: %v", entry.keyword, err)
		} else {
			trail.Add("Filled %q field", entry.keyword)
		}
		return true
	}
	return false
}

// fillDateFallback handles start/end date fields the keyword map has no entry
// for, extracting a date token from the first experience or education entry.
func fillDateFallback(el browser.Element, sig string, d derived, trail *observability.Trail) bool {
	var kind, raw string
	switch {
	case startDatePattern.MatchString(sig):
		kind, raw = "start date", d.startDate()
	case endDatePattern.MatchString(sig):
		kind, raw = "end date", d.endDate()
	default:
		return false
	}
	if raw == "" {
		return false
	}

	if err := fillControl(el, ExtractDateToken(raw)); err != nil {
		trail.Add("Fill error for %s field: %v", kind, err)
	} else {
		trail.Add("Filled %s field", kind)
	}
	return true
}

// answerWorkAuth clicks the option label matching the preference-derived
// answer inside the element's question container. Unanswerable questions
// default to "No".
func answerWorkAuth(el browser.Element, prefs types.Preferences, trail *observability.Trail) {
	answer, ok := prefs.FirstString("work_authorization", "work_auth", "requires_sponsorship")
	if !ok {
		answer = "No"
	}

	container, err := el.Closest("fieldset, div")
	if err != nil || container == nil {
		return
	}
	options, err := container.QueryAll("label")
	if err != nil {
		return
	}
	for _, option := range options {
		if strings.TrimSpace(option.Text()) != answer {
			continue
		}
		if err := option.Click(); err != nil {
			trail.Add("Work authorization answer click failed: %v", err)
		} else {
			trail.Add("Answered work authorization question: %s", answer)
		}
		return
	}
}

// fillControl fills an element according to its kind: selects attempt
// label-based option selection first, then value-based; everything else is a
// plain fill.
func fillControl(el browser.Element, value string) error {
	if el.Tag() == "select" {
		if err := el.SelectByLabel(value); err == nil {
			return nil
		}
		return el.SelectByValue(value)
	}
	return el.Fill(value)
}
