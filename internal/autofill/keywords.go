package autofill

import (
	"github.com/jonathan/apply-agent/internal/types"
)

// keywordEntry binds a lower-case keyword phrase to its resolved value.
type keywordEntry struct {
	keyword string
	value   string
}

// buildKeywordMap derives the ordered keyword map driving the generic matcher.
// Definition order is match precedence: the first keyword contained in an
// element's signature wins and short-circuits the rest. Entries whose resolved
// value is empty are skipped at build time.
func buildKeywordMap(profile *types.Profile, prefs types.Preferences, d derived) []keywordEntry {
	workAuth := profile.WorkAuth
	if workAuth == "" {
		workAuth, _ = prefs.FirstString("work_authorization", "work_auth")
	}

	candidates := []keywordEntry{
		// Name variants before the bare "name" catch-all so that "first_name"
		// style signatures resolve to the right component.
		{"first name", d.name.First},
		{"firstname", d.name.First},
		{"given name", d.name.First},
		{"last name", d.name.Last},
		{"lastname", d.name.Last},
		{"family name", d.name.Last},
		{"surname", d.name.Last},
		{"full name", profile.Name},
		{"name", profile.Name},
		{"email", profile.Email},
		// Signatures normalize hyphens to spaces, so "e-mail" arrives as "e mail".
		{"e mail", profile.Email},
		{"phone", profile.Phone},
		{"mobile", profile.Phone},
		{"linkedin", d.links.LinkedIn},
		{"github", d.links.GitHub},
		{"portfolio", d.links.Website},
		{"website", d.links.Website},
		{"city", d.address.City},
		{"state", d.address.State},
		{"province", d.address.State},
		{"zip", d.address.Postal},
		{"postal", d.address.Postal},
		{"address", profile.Address},
		{"location", profile.Address},
		{"school", d.firstEducation.School},
		{"university", d.firstEducation.School},
		{"college", d.firstEducation.School},
		{"degree", d.firstEducation.Degree},
		{"company", d.firstExperience.Company},
		{"employer", d.firstExperience.Company},
		{"current title", d.firstExperience.Title},
		{"job title", d.firstExperience.Title},
		{"title", d.firstExperience.Title},
		{"work authorization", workAuth},
	}

	entries := make([]keywordEntry, 0, len(candidates))
	for _, entry := range candidates {
		if entry.value == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
