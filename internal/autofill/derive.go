// Package autofill implements the form-filling engine: value derivation from
// the candidate profile, the keyword-driven field matcher, and the per-ATS
// strategies dispatched by the run orchestrator.
package autofill

import (
	"regexp"
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

// NameParts is a candidate name split into first and last components.
type NameParts struct {
	First string
	Last  string
}

// SplitName splits a free-form name on whitespace: the first token becomes the
// first name and everything after it the last name. Single-token names yield
// an empty last name.
func SplitName(name string) NameParts {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return NameParts{}
	}
	return NameParts{
		First: fields[0],
		Last:  strings.Join(fields[1:], " "),
	}
}

// AddressParts is a free-text address decomposed into components.
type AddressParts struct {
	City   string
	State  string
	Postal string
}

var postalPattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9 ]*`)

// DeriveAddressParts decomposes a comma-separated address: the first segment
// is the city, the second the state, and the postal code is captured from the
// third via an alphanumeric-plus-space pattern. Segments beyond the third are
// ignored.
func DeriveAddressParts(address string) AddressParts {
	var parts AddressParts
	segments := strings.Split(address, ",")

	if len(segments) > 0 {
		parts.City = strings.TrimSpace(segments[0])
	}
	if len(segments) > 1 {
		parts.State = strings.TrimSpace(segments[1])
	}
	if len(segments) > 2 {
		parts.Postal = strings.TrimSpace(postalPattern.FindString(segments[2]))
	}
	return parts
}

// Links is the candidate's link list classified by host.
type Links struct {
	LinkedIn string
	GitHub   string
	Website  string
}

// ClassifyLinks buckets profile links into linkedin/github/other-website by
// host pattern. The first match per category wins.
func ClassifyLinks(links []string) Links {
	var result Links
	for _, link := range links {
		lower := strings.ToLower(link)
		switch {
		case strings.Contains(lower, "linkedin.com"):
			if result.LinkedIn == "" {
				result.LinkedIn = link
			}
		case strings.Contains(lower, "github.com"):
			if result.GitHub == "" {
				result.GitHub = link
			}
		default:
			if result.Website == "" {
				result.Website = link
			}
		}
	}
	return result
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{4}-\d{2}`),
	regexp.MustCompile(`\d{4}`),
}

// ExtractDateToken pulls a date-shaped token (YYYY-MM-DD, YYYY-MM, or YYYY)
// out of a loosely formatted date string, falling back to the raw string when
// no pattern matches.
func ExtractDateToken(raw string) string {
	for _, pattern := range datePatterns {
		if match := pattern.FindString(raw); match != "" {
			return match
		}
	}
	return strings.TrimSpace(raw)
}

// derived holds every per-run value the keyword map draws from. It is computed
// once per SmartFill invocation.
type derived struct {
	name    NameParts
	links   Links
	address AddressParts

	firstEducation  types.Education
	firstExperience types.Experience
}

// deriveValues computes the derived record. Only the first education and
// experience entries feed the matcher; multi-entry forms are out of scope for
// the generic pass.
func deriveValues(profile *types.Profile) derived {
	d := derived{
		name:    SplitName(profile.Name),
		links:   ClassifyLinks(profile.Links),
		address: DeriveAddressParts(profile.Address),
	}
	if len(profile.Education) > 0 {
		d.firstEducation = profile.Education[0]
	}
	if len(profile.Experience) > 0 {
		d.firstExperience = profile.Experience[0]
	}
	return d
}

// startDate returns the preferred start date for date fallbacks: first
// experience entry, then first education entry.
func (d derived) startDate() string {
	if d.firstExperience.Start != "" {
		return d.firstExperience.Start
	}
	return d.firstEducation.Start
}

func (d derived) endDate() string {
	if d.firstExperience.End != "" {
		return d.firstExperience.End
	}
	return d.firstEducation.End
}
