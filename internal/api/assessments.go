package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nyashahama/dengue-assessment-console/internal/orchestrator"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
)

// ─── POST /api/session/:sessionID/assessment ──────────────────────────────────

type validationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

// handleSubmitAssessment runs one prediction for the posted patient record.
//
//	422  the record failed validation; nothing was sent
//	503  the model service is down (intermediary answered 503)
//	502  any other prediction failure
//
// The feed carries the same outcome for the page.
func (s *Server) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	o := operatorFrom(r)

	var rec predictor.PatientRecord
	if !decode(w, r, &rec) {
		return
	}

	a, err := o.predictions.Submit(r.Context(), rec)
	if err == nil {
		respond(w, http.StatusOK, toAssessmentResponse(a))
		return
	}

	var (
		verr *orchestrator.ValidationError
		su   *predictor.ServiceUnavailableError
		re   *predictor.RequestError
		te   *predictor.TransportError
	)
	switch {
	case errors.As(err, &verr):
		respond(w, http.StatusUnprocessableEntity, validationErrorResponse{Error: verr.Message, Fields: verr.Fields})
	case errors.As(err, &su):
		respondErr(w, http.StatusServiceUnavailable, su.Error())
	case errors.As(err, &re), errors.As(err, &te):
		s.logger.Warn("assessment: prediction failed", "session_id", o.id, "error", err, logField(r))
		respondErr(w, http.StatusBadGateway, err.Error())
	default:
		s.respondInternalErr(w, r, fmt.Errorf("submit assessment: %w", err))
	}
}
