package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/nyashahama/dengue-assessment-console/internal/db"
	"github.com/sqlc-dev/pqtype"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// RecordCaseParams is one completed assessment as it is archived.
type RecordCaseParams struct {
	ID             uuid.UUID
	District       string
	Area           string
	AreaType       string
	HouseType      string
	Age            int
	Gender         int
	NS1            bool
	IgG            bool
	IgM            bool
	Probability    float64
	RiskLevel      string
	Recommendation string
	KeyFactors     map[string]string
	AssessedAt     time.Time
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrCaseExists is returned when a case with the same ID is already archived.
// A retried archive job that hits it has nothing left to do.
var ErrCaseExists = errors.New("store: case already archived")

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// ─── METHODS ─────────────────────────────────────────────────────────────────

// RecordCase writes the case row and one case_factors row per key factor in a
// single transaction. Factor rows are inserted in name order.
func (s *Store) RecordCase(ctx context.Context, p RecordCaseParams) (db.Case, error) {
	factors, err := keyFactorsJSON(p.KeyFactors)
	if err != nil {
		return db.Case{}, fmt.Errorf("RecordCase: %w", err)
	}

	var out db.Case
	err = s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		c, err := q.InsertCase(ctx, db.InsertCaseParams{
			ID:             p.ID,
			District:       p.District,
			Area:           p.Area,
			AreaType:       p.AreaType,
			HouseType:      p.HouseType,
			Age:            int32(p.Age),
			Gender:         int16(p.Gender),
			Ns1:            p.NS1,
			Igg:            p.IgG,
			Igm:            p.IgM,
			Probability:    p.Probability,
			RiskLevel:      p.RiskLevel,
			Recommendation: p.Recommendation,
			KeyFactors:     factors,
			AssessedAt:     p.AssessedAt,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrCaseExists
			}
			return fmt.Errorf("RecordCase: insert case: %w", err)
		}

		names := make([]string, 0, len(p.KeyFactors))
		for name := range p.KeyFactors {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if err := q.InsertCaseFactor(ctx, db.InsertCaseFactorParams{
				CaseID: c.ID,
				Name:   name,
				Value:  p.KeyFactors[name],
			}); err != nil {
				return fmt.Errorf("RecordCase: insert factor %q: %w", name, err)
			}
		}

		out = c
		return nil
	})
	if errors.Is(err, ErrCaseExists) {
		return db.Case{}, ErrCaseExists
	}
	if err != nil {
		return db.Case{}, err
	}
	return out, nil
}

// RecentCases returns up to limit archived cases, newest first.
func (s *Store) RecentCases(ctx context.Context, limit int) ([]db.Case, error) {
	cases, err := s.q.ListRecentCases(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("store: list recent cases: %w", err)
	}
	if cases == nil {
		cases = []db.Case{}
	}
	return cases, nil
}

func keyFactorsJSON(f map[string]string) (pqtype.NullRawMessage, error) {
	if len(f) == 0 {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("marshal key factors: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
