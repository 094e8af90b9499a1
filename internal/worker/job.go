package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nyashahama/dengue-assessment-console/internal/db"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
	"github.com/nyashahama/dengue-assessment-console/internal/store"
)

// CaseRecorder persists one archived case. *store.Store implements it.
type CaseRecorder interface {
	RecordCase(ctx context.Context, p store.RecordCaseParams) (db.Case, error)
}

// Job writes a single assessment to the case archive.
type Job struct {
	recorder CaseRecorder
	logger   *slog.Logger
}

// NewJob constructs a Job.
func NewJob(recorder CaseRecorder, logger *slog.Logger) *Job {
	return &Job{recorder: recorder, logger: logger}
}

// Run records the case. A case that is already archived counts as done, so a
// retry after a commit whose acknowledgement was lost does not fail the job.
func (j *Job) Run(ctx context.Context, p store.RecordCaseParams) error {
	log := j.logger.With("case_id", p.ID)

	c, err := j.recorder.RecordCase(ctx, p)
	if errors.Is(err, store.ErrCaseExists) {
		log.Info("job: case already archived")
		return nil
	}
	if err != nil {
		return fmt.Errorf("job: record case: %w", err)
	}

	log.Info("job: case archived",
		"district", c.District,
		"risk_level", c.RiskLevel,
		"factors", len(p.KeyFactors),
	)
	return nil
}

// CaseParams maps a submitted record and its assessment onto an archive row.
func CaseParams(id uuid.UUID, rec predictor.PatientRecord, a session.RiskAssessment) store.RecordCaseParams {
	factors := make(map[string]string, len(a.KeyFactors))
	for k, v := range a.KeyFactors {
		factors[k] = v
	}
	return store.RecordCaseParams{
		ID:             id,
		District:       rec.District,
		Area:           rec.Area,
		AreaType:       rec.AreaType,
		HouseType:      rec.HouseType,
		Age:            rec.Age,
		Gender:         rec.Gender,
		NS1:            rec.NS1,
		IgG:            rec.IgG,
		IgM:            rec.IgM,
		Probability:    a.Probability,
		RiskLevel:      string(a.Level),
		Recommendation: a.Recommendation,
		KeyFactors:     factors,
		AssessedAt:     a.AssessedAt,
	}
}
