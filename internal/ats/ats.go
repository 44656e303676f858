// Package ats identifies the applicant tracking system behind a job
// application page and exposes the closed set of supported kinds.
package ats

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Kind represents a known applicant tracking system.
type Kind string

const (
	// Greenhouse is the Greenhouse ATS platform
	Greenhouse Kind = "greenhouse"
	// Lever is the Lever ATS platform
	Lever Kind = "lever"
	// Workday is the Workday ATS platform
	Workday Kind = "workday"
	// Generic is any unrecognized platform
	Generic Kind = "generic"
)

// Classify maps a target URL and optional rendered page content to a Kind.
// It is total: unmatched inputs classify as Generic. The URL is checked first
// because it is cheap and available before any page load; content is only
// consulted when the URL matched nothing, which covers ATS widgets embedded
// on custom career domains.
func Classify(rawURL string, content string) Kind {
	if kind := classifyURL(rawURL); kind != Generic {
		return kind
	}
	return classifyContent(content)
}

// Upgrade re-classifies after page load. A URL-confirmed kind is never
// downgraded; only Generic may be promoted to a more specific kind.
func Upgrade(current Kind, rawURL string, content string) Kind {
	if current != Generic {
		return current
	}
	return Classify(rawURL, content)
}

func classifyURL(rawURL string) Kind {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Generic
	}

	host := strings.ToLower(parsed.Host)
	query := parsed.Query()

	// Greenhouse patterns, including the query parameter its embedded job
	// boards append to host-page URLs.
	if strings.Contains(host, "greenhouse.io") || query.Has("gh_jid") {
		return Greenhouse
	}

	// Lever patterns
	if strings.Contains(host, "lever.co") {
		return Lever
	}

	// Workday patterns
	if strings.Contains(host, "myworkdayjobs.com") ||
		strings.Contains(host, "workday.com") {
		return Workday
	}

	return Generic
}

// contentMarkers are platform-identifying substrings scanned for in rendered
// markup, in classification precedence order.
var contentMarkers = []struct {
	kind    Kind
	markers []string
}{
	{Greenhouse, []string{"greenhouse.io", "grnhse"}},
	{Lever, []string{"lever.co", "lever-application"}},
	{Workday, []string{"myworkdayjobs", "workday"}},
}

func classifyContent(content string) Kind {
	if content == "" {
		return Generic
	}

	// Prefer structural evidence: script/iframe sources pointing at a known
	// platform host. Falls through to a plain substring scan when the markup
	// does not parse or carries no such elements.
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		var found Kind = Generic
		doc.Find("script[src], iframe[src], link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, ok := s.Attr("src")
			if !ok {
				src, _ = s.Attr("href")
			}
			if kind := matchMarkers(strings.ToLower(src)); kind != Generic {
				found = kind
				return false
			}
			return true
		})
		if found != Generic {
			return found
		}
	}

	return matchMarkers(strings.ToLower(content))
}

func matchMarkers(s string) Kind {
	if s == "" {
		return Generic
	}
	for _, entry := range contentMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(s, marker) {
				return entry.kind
			}
		}
	}
	return Generic
}
