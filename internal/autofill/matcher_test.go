package autofill

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/apply-agent/internal/browser/browsertest"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/types"
)

func testProfile() *types.Profile {
	return &types.Profile{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "555-0100",
		Links:   []string{"https://linkedin.com/in/jane", "https://github.com/jane"},
		Address: "San Francisco, CA, 94105",
		Education: []types.Education{
			{School: "State U", Degree: "BS Computer Science", Start: "2015", End: "2019"},
		},
		Experience: []types.Experience{
			{Company: "Acme", Title: "Engineer", Start: "2019-06", End: ""},
		},
	}
}

func trailText(trail *observability.Trail) string {
	return strings.Join(trail.Entries(), "\n")
}

func TestSmartFill_MatchesByAttributeSignature(t *testing.T) {
	page := browsertest.NewPage(`
		<form>
			<input name="first_name">
			<input name="last_name">
			<input name="email">
			<input name="phone">
			<input name="city">
		</form>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	rec := page.Recorder()
	assert.Equal(t, "Jane", rec.Fills["first_name"])
	assert.Equal(t, "Doe", rec.Fills["last_name"])
	assert.Equal(t, "jane@example.com", rec.Fills["email"])
	assert.Equal(t, "555-0100", rec.Fills["phone"])
	assert.Equal(t, "San Francisco", rec.Fills["city"])
}

func TestSmartFill_MatchesByLabelText(t *testing.T) {
	page := browsertest.NewPage(`
		<form>
			<label for="q1">What school did you attend?</label>
			<input id="q1">
			<label>Current employer<input id="q2"></label>
		</form>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	rec := page.Recorder()
	assert.Equal(t, "State U", rec.Fills["q1"])
	assert.Equal(t, "Acme", rec.Fills["q2"])
}

func TestSmartFill_KeywordPrecedence(t *testing.T) {
	// A signature containing both "name" and "email" resolves to the name
	// entry because it is defined first.
	page := browsertest.NewPage(`<input name="name_email">`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	assert.Equal(t, "Jane Doe", page.Recorder().Fills["name_email"])
}

func TestSmartFill_FirstNameBeforeBareName(t *testing.T) {
	page := browsertest.NewPage(`<input name="first_name"><input name="name">`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	rec := page.Recorder()
	assert.Equal(t, "Jane", rec.Fills["first_name"])
	assert.Equal(t, "Jane Doe", rec.Fills["name"])
}

func TestSmartFill_HyphenatedEmailSignature(t *testing.T) {
	page := browsertest.NewPage(`<input name="e-mail-address">`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	assert.Equal(t, "jane@example.com", page.Recorder().Fills["e-mail-address"])
}

func TestSmartFill_SkipsExcludedAndInvisible(t *testing.T) {
	page := browsertest.NewPage(`
		<form>
			<input type="hidden" name="email">
			<input type="submit" name="email_submit">
			<input name="phone" style="display:none">
			<input name="city" disabled>
		</form>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	assert.Empty(t, page.Recorder().Fills)
	assert.Contains(t, trailText(trail), "no matching fields found")
}

func TestSmartFill_FaultIsolation(t *testing.T) {
	// The failing middle element must not stop the scan; its error lands on
	// the trail and the surrounding fields still fill.
	page := browsertest.NewPage(`
		<form>
			<input name="first_name">
			<input name="email" data-fail="boom">
			<input name="phone">
		</form>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	rec := page.Recorder()
	assert.Equal(t, "Jane", rec.Fills["first_name"])
	assert.Equal(t, "555-0100", rec.Fills["phone"])
	assert.NotContains(t, rec.Fills, "email")
	assert.Contains(t, trailText(trail), `Fill error for "email" field`)
}

func TestSmartFill_DateFallbacks(t *testing.T) {
	page := browsertest.NewPage(`
		<form>
			<input name="employment_start_month">
			<input name="employment_end_month">
		</form>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	rec := page.Recorder()
	assert.Equal(t, "2019-06", rec.Fills["employment_start_month"])
	// Experience has no end date, so education's end is used.
	assert.Equal(t, "2019", rec.Fills["employment_end_month"])
}

func TestSmartFill_SelectFallsBackToValue(t *testing.T) {
	page := browsertest.NewPage(`
		<select name="state">
			<option value="CA">California</option>
			<option value="TX">Texas</option>
		</select>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	// No option is labeled "CA", so selection falls back to option value.
	assert.Equal(t, "CA", page.Recorder().Selected["state"])
}

func TestSmartFill_SelectByLabel(t *testing.T) {
	page := browsertest.NewPage(`
		<select name="degree">
			<option>BS Computer Science</option>
			<option>MS Computer Science</option>
		</select>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	assert.Equal(t, "BS Computer Science", page.Recorder().Selected["degree"])
}

func TestSmartFill_WorkAuthorizationClick(t *testing.T) {
	page := browsertest.NewPage(`
		<div>
			<span>Do you now or in the future require visa sponsorship?</span>
			<input type="radio" name="sponsorship" aria-label="Do you require sponsorship?">
			<label>Yes</label>
			<label>No</label>
		</div>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), types.Preferences{"requires_sponsorship": false}, trail)

	assert.Contains(t, page.Recorder().Clicks, "No")
	assert.Contains(t, trailText(trail), "Answered work authorization question: No")
}

func TestSmartFill_WorkAuthorizationClickRunsDespiteKeywordMatch(t *testing.T) {
	// With profile.WorkAuth set, the keyword map carries a "work authorization"
	// entry, so this signature matches the keyword pass too. The answer click
	// must still happen; the question is a radio group, not a text field.
	page := browsertest.NewPage(`
		<div>
			<input type="radio" name="work_authorization_status" aria-label="Work Authorization">
			<label>Yes</label>
			<label>No</label>
		</div>
	`)
	trail := observability.NewTrail(nil)

	profile := testProfile()
	profile.WorkAuth = "Yes"
	SmartFill(page, profile, types.Preferences{"work_authorization": "Yes"}, trail)

	assert.Contains(t, page.Recorder().Clicks, "Yes")
	assert.Contains(t, trailText(trail), "Answered work authorization question: Yes")
}

func TestSmartFill_WorkAuthorizationDefaultsToNo(t *testing.T) {
	page := browsertest.NewPage(`
		<div>
			<input type="radio" name="visa" aria-label="Are you legally authorized to work?">
			<label>Yes</label>
			<label>No</label>
		</div>
	`)
	trail := observability.NewTrail(nil)

	SmartFill(page, testProfile(), nil, trail)

	assert.Contains(t, page.Recorder().Clicks, "No")
}

func TestSmartFill_EmptyValuesNeverFill(t *testing.T) {
	page := browsertest.NewPage(`<input name="github"><input name="portfolio">`)
	trail := observability.NewTrail(nil)

	profile := &types.Profile{Name: "Jane Doe"}
	SmartFill(page, profile, nil, trail)

	assert.Empty(t, page.Recorder().Fills)
}
