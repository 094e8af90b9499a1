// Package orchestrator sequences the remote calls of an operator session and
// the local state changes they trigger.
//
// Predictions.Submit validates a patient record, asks the predictor, stores
// the assessment, redraws the gauge and schedules one automatic request for
// detailed recommendations. Conversations.Send runs every later chat
// exchange. Both turn every failure into a view message; the error is also
// returned so callers can log it or pick a status code, but no failure leaves
// the session unusable.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
)

// ─── COLLABORATORS ────────────────────────────────────────────────────────────

// View is what the orchestrators display through. *feed.Feed implements it.
type View interface {
	Alert(msg string)
	ShowLoading()
	ShowResults(a session.RiskAssessment)
	ShowError(msg string)
	AppendUserTurn(id uuid.UUID, text string)
	ConfirmUserTurn(id uuid.UUID)
	AppendAssistant(html string)
	SetTyping(on bool)
}

// Archiver receives every successful assessment. It must not block; the
// worker runner queues the write and returns.
type Archiver interface {
	Archive(ctx context.Context, rec predictor.PatientRecord, a session.RiskAssessment) error
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler is the Scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// ─── ERRORS ───────────────────────────────────────────────────────────────────

// RequiredFieldsMessage is the prompt shown when a categorical field is empty.
const RequiredFieldsMessage = "Please fill in all required fields"

// ValidationError is returned, before any network call, for a record that
// cannot be submitted.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ─── VALIDATION ───────────────────────────────────────────────────────────────

// AreaChecker reports whether area belongs to district. areas.Contains
// satisfies it.
type AreaChecker func(district, area string) bool

// Validate checks rec without touching the network. Missing categorical
// fields are reported together; range and membership checks follow only
// when every required field is present.
func Validate(rec predictor.PatientRecord, inDistrict AreaChecker) *ValidationError {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"district", rec.District},
		{"area", rec.Area},
		{"area_type", rec.AreaType},
		{"house_type", rec.HouseType},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: RequiredFieldsMessage}
	}

	if rec.Age < 0 {
		return &ValidationError{Fields: []string{"age"}, Message: "Age must be zero or greater"}
	}
	if rec.Gender != 0 && rec.Gender != 1 {
		return &ValidationError{Fields: []string{"gender"}, Message: "Gender must be 0 (female) or 1 (male)"}
	}
	if inDistrict != nil && !inDistrict(rec.District, rec.Area) {
		return &ValidationError{Fields: []string{"area"}, Message: "Please select an area within the chosen district"}
	}
	return nil
}
