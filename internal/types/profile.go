// Package types provides type definitions for structured data used throughout the apply-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Profile represents the candidate facts used to populate application forms.
// It is supplied by the caller and treated as immutable for the duration of a run.
type Profile struct {
	Name       string       `json:"name,omitempty"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Links      []string     `json:"links,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Address    string       `json:"address,omitempty"`
	WorkAuth   string       `json:"work_auth,omitempty"`
}

// Education represents a single education entry.
// Start and End are loosely formatted date strings and may be empty.
type Education struct {
	School string `json:"school,omitempty"`
	Degree string `json:"degree,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// Experience represents a single work experience entry.
type Experience struct {
	Company  string   `json:"company,omitempty"`
	Title    string   `json:"title,omitempty"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	Location string   `json:"location,omitempty"`
	Bullets  []string `json:"bullets,omitempty"`
}

// Preferences is an open mapping from preference key (gender, veteran status,
// disability status, work authorization, ...) to a scalar value. Keys are not
// enumerated by the engine; it probes for known keys defensively.
type Preferences map[string]any

// String returns the preference value for key rendered as a string.
// Booleans map to "Yes"/"No" since that is how demographic questions present
// their options. The second return reports whether the key was present with a
// usable scalar value.
func (p Preferences) String(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p[key]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case bool:
		if val {
			return "Yes", true
		}
		return "No", true
	default:
		return "", false
	}
}

// FirstString returns the value of the first key present in prefs.
func (p Preferences) FirstString(keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := p.String(key); ok {
			return v, true
		}
	}
	return "", false
}
