package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nyashahama/dengue-assessment-console/internal/format"
	"github.com/nyashahama/dengue-assessment-console/internal/gauge"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
)

// PredictionConfig tunes the automatic follow-up.
type PredictionConfig struct {
	// FollowUpDelay is how long after a successful prediction the detailed
	// recommendations request is sent. Zero sends it right away.
	FollowUpDelay time.Duration

	// FollowUpTimeout bounds the follow-up chat call, which runs detached
	// from the request that triggered it.
	FollowUpTimeout time.Duration
}

// PredictionDeps groups the collaborators of Predictions. Archiver and
// Renderer may be nil; Scheduler defaults to TimerScheduler.
type PredictionDeps struct {
	Session       *session.Session
	Predictor     predictor.Predictor
	Conversations *Conversations
	View          View
	Renderer      *gauge.Renderer
	Archiver      Archiver
	Scheduler     Scheduler
	AreaChecker   AreaChecker
	Logger        *slog.Logger
}

// Predictions is the prediction orchestrator for one operator session.
type Predictions struct {
	deps PredictionDeps
	cfg  PredictionConfig
}

// NewPredictions wires a prediction orchestrator.
func NewPredictions(deps PredictionDeps, cfg PredictionConfig) *Predictions {
	if deps.Scheduler == nil {
		deps.Scheduler = TimerScheduler{}
	}
	if cfg.FollowUpTimeout <= 0 {
		cfg.FollowUpTimeout = 90 * time.Second
	}
	return &Predictions{deps: deps, cfg: cfg}
}

// Submit runs one assessment:
//
//  1. Validate the record; a *ValidationError returns before any call.
//  2. Ask the predictor; failures are shown on the error panel.
//  3. Store the assessment (which resets the transcript).
//  4. Redraw the gauge and show the results.
//  5. Hand the case to the archive.
//  6. Schedule exactly one detailed-recommendations exchange.
func (p *Predictions) Submit(ctx context.Context, rec predictor.PatientRecord) (session.RiskAssessment, error) {
	log := p.deps.Logger.With("district", rec.District, "area", rec.Area)

	if verr := Validate(rec, p.deps.AreaChecker); verr != nil {
		p.deps.View.Alert(verr.Message)
		log.Debug("prediction: rejected record", "fields", verr.Fields)
		return session.RiskAssessment{}, verr
	}

	p.deps.View.ShowLoading()

	res, err := p.deps.Predictor.Predict(ctx, rec)
	if err != nil {
		p.deps.View.ShowError(err.Error())
		log.Warn("prediction: request failed", "error", err)
		return session.RiskAssessment{}, err
	}

	a := p.deps.Session.SetAssessment(rec, res)
	log.Info("prediction: assessment stored",
		"probability", a.Probability,
		"risk_level", a.Level,
		"generation", a.Generation,
	)

	p.deps.Renderer.Render(a.Probability, string(a.Level))
	p.deps.View.ShowResults(a)
	p.deps.View.AppendAssistant(summary(a))

	if p.deps.Archiver != nil {
		if err := p.deps.Archiver.Archive(ctx, rec, a); err != nil {
			// The archive is best effort; the operator flow carries on.
			log.Warn("prediction: archive failed", "error", err)
		}
	}

	generation := a.Generation
	p.deps.Scheduler.AfterFunc(p.cfg.FollowUpDelay, func() { p.followUp(generation) })
	return a, nil
}

// followUp sends the detailed-recommendations exchange for the assessment
// that opened generation. A newer assessment schedules its own.
func (p *Predictions) followUp(generation uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.FollowUpTimeout)
	defer cancel()
	_, err := p.deps.Conversations.detailedFor(ctx, generation)
	switch {
	case errors.Is(err, ErrSuperseded):
		p.deps.Logger.Debug("prediction: follow-up skipped, assessment superseded", "generation", generation)
	case err != nil:
		p.deps.Logger.Warn("prediction: detailed recommendations failed", "error", err)
	}
}

func summary(a session.RiskAssessment) string {
	return fmt.Sprintf(
		"I've analyzed the patient data. The dengue risk is %d%% (%s risk). Detailed recommendations are on the way.",
		format.Percent(a.Probability), a.Level,
	)
}
