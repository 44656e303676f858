package autofill

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/types"
)

// settleInterval is how long a strategy waits after the apply trigger for the
// application form or its hosting iframe to materialize.
const settleInterval = 2 * time.Second

// greenhouseFramePattern identifies the host serving embedded Greenhouse
// application forms.
const greenhouseFramePattern = "greenhouse.io"

// applyTriggerSelectors are tried in order; the first visible one that clicks
// wins. Greenhouse job boards vary between a dedicated apply button and a
// plain anchor to the embedded form.
var applyTriggerSelectors = []string{
	"#apply_button",
	"a#apply",
	"a[href='#app']",
	"a[href*='#application']",
	"button[aria-label*='Apply']",
}

// Canonical Greenhouse field selectors, ordered from the classic hosted-board
// ids to the newer attribute-named variants.
var (
	greenhouseFirstName = []string{
		"#first_name",
		"input[name='job_application[first_name]']",
		"input[name='first_name']",
		"input[autocomplete='given-name']",
	}
	greenhouseLastName = []string{
		"#last_name",
		"input[name='job_application[last_name]']",
		"input[name='last_name']",
		"input[autocomplete='family-name']",
	}
	greenhouseEmail = []string{
		"#email",
		"input[name='job_application[email]']",
		"input[type='email']",
		"input[name='email']",
	}
	greenhousePhone = []string{
		"#phone",
		"input[name='job_application[phone]']",
		"input[type='tel']",
		"input[name='phone']",
	}
	greenhouseSubmit = []string{
		"#submit_app",
		"input[type='submit']",
		"button[type='submit']",
	}
)

// labeledField binds label-text synonyms to a profile-derived value.
type labeledField struct {
	field    string
	synonyms []string
	value    string
}

// demographicQuestion binds preference keys to the question text that
// identifies an EEO-style prompt on the form.
type demographicQuestion struct {
	field     string
	prefKeys  []string
	questions []string
}

var demographicQuestions = []demographicQuestion{
	{"gender", []string{"gender"}, []string{"Gender"}},
	{"veteran status", []string{"veteran_status", "veteran"}, []string{"Veteran Status", "protected veteran"}},
	{"disability status", []string{"disability_status", "disability"}, []string{"Disability Status", "disability"}},
	{"work authorization", []string{"work_authorization", "work_auth"}, []string{"legally authorized", "work authorization", "sponsorship"}},
}

// GreenhouseStrategy drives the fully specified Greenhouse application flow.
type GreenhouseStrategy struct {
	fetch FetchFunc
}

func (s *GreenhouseStrategy) Kind() ats.Kind {
	return ats.Greenhouse
}

// Run executes the Greenhouse fill sequence. Every step is independently
// fault-isolated: a failed step is recorded on the trail and the sequence
// moves on.
func (s *GreenhouseStrategy) Run(ctx context.Context, page browser.Page, input *types.RunInput, trail *observability.Trail) error {
	s.clickApply(page, trail)
	page.Settle(settleInterval)

	root := s.resolveFormRoot(page, trail)

	s.fillCanonical(root, &input.Profile, trail)
	s.fillLabeled(root, &input.Profile, trail)
	s.answerDemographics(root, input.Prefs, trail)

	SmartFill(root, &input.Profile, input.Prefs, trail)

	if input.Assets != nil && input.Assets.ResumeURL != "" {
		attachResume(ctx, root, s.fetch, input.Assets.ResumeURL, trail)
	}
	noteCoverLetter(input, trail)

	s.clickSubmit(root, input, trail)
	return nil
}

// clickApply fires the first matching apply trigger, falling back to a text
// scan over visible links and buttons.
func (s *GreenhouseStrategy) clickApply(page browser.Page, trail *observability.Trail) {
	if selector, ok := clickFirstVisible(page, applyTriggerSelectors); ok {
		trail.Add("Clicked apply trigger %s", selector)
		return
	}

	candidates, err := page.QueryAll("a, button")
	if err != nil {
		return
	}
	for _, el := range candidates {
		text := strings.ToLower(strings.TrimSpace(el.Text()))
		if text != "apply" && text != "apply now" && text != "apply for this job" {
			continue
		}
		if !el.Visible() {
			continue
		}
		if err := el.Click(); err == nil {
			trail.Add("Clicked apply trigger by text %q", text)
		}
		return
	}
}

// resolveFormRoot searches the frame tree for the Greenhouse-hosted form.
// When the board embeds the form in an iframe, all subsequent operations
// target that frame; otherwise the top-level page is the root.
func (s *GreenhouseStrategy) resolveFormRoot(page browser.Page, trail *observability.Trail) browser.Root {
	if frame := frameMatching(page, greenhouseFramePattern); frame != nil {
		trail.Add("Using embedded application frame: %s", frame.URL())
		return frame
	}
	return page
}

// fillCanonical fills the standard named fields through ordered selector
// lists. A missing field is silently skipped.
func (s *GreenhouseStrategy) fillCanonical(root browser.Root, profile *types.Profile, trail *observability.Trail) {
	name := SplitName(profile.Name)
	fillFirst(root, greenhouseFirstName, name.First, "first name", trail)
	fillFirst(root, greenhouseLastName, name.Last, "last name", trail)
	fillFirst(root, greenhouseEmail, profile.Email, "email", trail)
	fillFirst(root, greenhousePhone, profile.Phone, "phone", trail)
}

// fillLabeled covers link/address/education/employer fields through the
// label-text search helper.
func (s *GreenhouseStrategy) fillLabeled(root browser.Root, profile *types.Profile, trail *observability.Trail) {
	links := ClassifyLinks(profile.Links)
	address := DeriveAddressParts(profile.Address)

	var education types.Education
	if len(profile.Education) > 0 {
		education = profile.Education[0]
	}
	var experience types.Experience
	if len(profile.Experience) > 0 {
		experience = profile.Experience[0]
	}

	fields := []labeledField{
		{"linkedin", []string{"LinkedIn Profile", "LinkedIn"}, links.LinkedIn},
		{"github", []string{"GitHub"}, links.GitHub},
		{"website", []string{"Website", "Portfolio"}, links.Website},
		{"city", []string{"City"}, address.City},
		{"school", []string{"School", "University"}, education.School},
		{"degree", []string{"Degree"}, education.Degree},
		{"employer", []string{"Current Company", "Company", "Employer"}, experience.Company},
		{"job title", []string{"Current Title", "Title"}, experience.Title},
	}

	for _, f := range fields {
		fillByLabel(root, f.synonyms, f.value, f.field, trail)
	}
}

// answerDemographics answers EEO-style questions present in preferences by
// locating the question text and clicking the option label that matches the
// answer. Absent questions and absent preferences are not errors.
func (s *GreenhouseStrategy) answerDemographics(root browser.Root, prefs types.Preferences, trail *observability.Trail) {
	for _, q := range demographicQuestions {
		answer, ok := prefs.FirstString(q.prefKeys...)
		if !ok {
			continue
		}

		question := findLabelContaining(root, q.questions)
		if question == nil {
			continue
		}

		// Selects answer by option label; radio groups by clicking the
		// matching option label inside the question container.
		if control := controlForLabel(root, question); control != nil && control.Tag() == "select" {
			if err := control.SelectByLabel(answer); err != nil {
				trail.Add("Answer error for %s: %v", q.field, err)
			} else {
				trail.Add("Answered %s", q.field)
			}
			continue
		}

		container, err := question.Closest("fieldset, div")
		if err != nil || container == nil {
			continue
		}
		options, err := container.QueryAll("label")
		if err != nil {
			continue
		}
		for _, option := range options {
			if strings.TrimSpace(option.Text()) != answer {
				continue
			}
			if err := option.Click(); err != nil {
				trail.Add("Answer error for %s: %v", q.field, err)
			} else {
				trail.Add("Answered %s", q.field)
			}
			break
		}
	}
}

// clickSubmit presses the submit control when one is visible. Absence is not
// an error; some flows require multi-page progression this engine does not
// attempt.
func (s *GreenhouseStrategy) clickSubmit(root browser.Root, input *types.RunInput, trail *observability.Trail) {
	if skipsSubmit(input.Steps) {
		trail.Add("Submit step skipped by request")
		return
	}
	if selector, ok := clickFirstVisible(root, greenhouseSubmit); ok {
		trail.Add("Clicked submit control %s", selector)
	}
}

// skipsSubmit reports whether the caller restricted the run to steps that
// exclude submission.
func skipsSubmit(steps []string) bool {
	if len(steps) == 0 {
		return false
	}
	for _, step := range steps {
		if strings.EqualFold(step, "submit") {
			return false
		}
	}
	return true
}
