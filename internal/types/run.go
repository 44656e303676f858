package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// RunStatus is the terminal status of a form-fill run.
type RunStatus string

const (
	// StatusSucceeded means the selected strategy ran to completion without an
	// uncaught error at the strategy boundary. It is a best-effort signal: it
	// does not guarantee the application was actually submitted.
	StatusSucceeded RunStatus = "succeeded"
	// StatusFailed means provisioning, navigation, or the strategy as a whole failed.
	StatusFailed RunStatus = "failed"
)

// Assets holds URLs of uploadable documents stored by the caller.
type Assets struct {
	ResumeURL      string `json:"resume_url,omitempty"`
	CoverLetterURL string `json:"cover_letter_url,omitempty"`
}

// RunInput is the payload of the fill_job_form operation.
type RunInput struct {
	URL           string      `json:"url" validate:"required"`
	Profile       Profile     `json:"profile"`
	Prefs         Preferences `json:"prefs,omitempty"`
	Assets        *Assets     `json:"assets,omitempty"`
	PersistenceID string      `json:"persistence_id,omitempty"`
	Steps         []string    `json:"steps,omitempty"`
	Screenshots   bool        `json:"take_proof_screenshots,omitempty"`
}

// RunOutput is the result record of a run. Notes is the execution trace and the
// primary debugging artifact; its order reflects chronological execution.
type RunOutput struct {
	Status      RunStatus `json:"status"`
	Summary     string    `json:"summary"`
	LiveViewURL string    `json:"live_view_url,omitempty"`
	Screenshots []string  `json:"screenshots"`
	Notes       []string  `json:"notes"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the input for presence of required fields. Only presence is
// validated before dispatch; everything else is handled best-effort downstream.
func (in *RunInput) Validate() error {
	if in == nil {
		return fmt.Errorf("missing input payload")
	}
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}
