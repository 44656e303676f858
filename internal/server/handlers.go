package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/apply-agent/internal/types"
)

// maxFillRequestBytes bounds the fill request body. Run inputs are small;
// anything past this is not a legitimate payload.
const maxFillRequestBytes = 1 << 20

// handleFill runs the fill_job_form operation synchronously. Run-level
// failures are reported in-band through the RunOutput status; only a request
// that cannot be decoded is an HTTP error.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFillRequestBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var input *types.RunInput
	if len(body) > 0 {
		input = &types.RunInput{}
		if err := json.Unmarshal(body, input); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
	}

	out := s.filler.Run(r.Context(), input)
	s.jsonResponse(w, http.StatusOK, out)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
