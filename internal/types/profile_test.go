package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferences_String(t *testing.T) {
	prefs := Preferences{
		"gender":      "Male",
		"veteran":     false,
		"sponsorship": true,
		"empty":       "",
		"years":       5,
	}

	tests := []struct {
		name     string
		key      string
		expected string
		ok       bool
	}{
		{"string value", "gender", "Male", true},
		{"bool false renders No", "veteran", "No", true},
		{"bool true renders Yes", "sponsorship", "Yes", true},
		{"empty string is absent", "empty", "", false},
		{"non-scalar is absent", "years", "", false},
		{"missing key", "nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := prefs.String(tt.key)
			assert.Equal(t, tt.expected, v)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestPreferences_NilMap(t *testing.T) {
	var prefs Preferences
	v, ok := prefs.String("anything")
	assert.Equal(t, "", v)
	assert.False(t, ok)
}

func TestPreferences_FirstString(t *testing.T) {
	prefs := Preferences{"work_auth": "Yes"}

	v, ok := prefs.FirstString("work_authorization", "work_auth")
	assert.True(t, ok)
	assert.Equal(t, "Yes", v)

	_, ok = prefs.FirstString("gender", "veteran")
	assert.False(t, ok)
}
