package autofill

import (
	"context"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/types"
)

// Best-effort selectors for unclassified sites; pages vary too widely for
// anything richer without a known DOM contract.
var (
	genericName = []string{
		"input[autocomplete='name']",
		"input[name*='name']",
		"input[placeholder*='Name']",
		"input[placeholder*='name']",
	}
	genericEmail = []string{
		"input[type='email']",
		"input[name*='email']",
	}
	genericPhone = []string{
		"input[type='tel']",
		"input[name*='phone']",
	}
)

// GenericStrategy is the fallback for unclassified or unsupported ATS kinds:
// fill the common contact fields if present and note resume availability. No
// apply trigger, no upload, no submit; there is no known DOM contract to
// target.
type GenericStrategy struct{}

func (s *GenericStrategy) Kind() ats.Kind {
	return ats.Generic
}

func (s *GenericStrategy) Run(_ context.Context, page browser.Page, input *types.RunInput, trail *observability.Trail) error {
	fillContactFields(page, &input.Profile, trail)

	if input.Assets != nil && input.Assets.ResumeURL != "" {
		trail.Add("Resume available at: %s", input.Assets.ResumeURL)
	}
	noteCoverLetter(input, trail)
	return nil
}

// fillContactFields fills name/email/phone through the generic selector
// lists. Shared with the thin Lever/Workday flows.
func fillContactFields(root browser.Root, profile *types.Profile, trail *observability.Trail) {
	fillFirst(root, genericName, profile.Name, "name", trail)
	fillFirst(root, genericEmail, profile.Email, "email", trail)
	fillFirst(root, genericPhone, profile.Phone, "phone", trail)
}
