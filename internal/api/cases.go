package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nyashahama/dengue-assessment-console/internal/db"
)

const (
	defaultCaseLimit = 20
	maxCaseLimit     = 100
)

// ─── GET /api/cases?limit= ────────────────────────────────────────────────────

type caseResponse struct {
	ID          string          `json:"id"`
	District    string          `json:"district"`
	Area        string          `json:"area"`
	AreaType    string          `json:"area_type"`
	HouseType   string          `json:"house_type"`
	Age         int32           `json:"age"`
	Gender      int16           `json:"gender"`
	NS1         bool            `json:"ns1"`
	IgG         bool            `json:"igg"`
	IgM         bool            `json:"igm"`
	Probability float64         `json:"probability"`
	RiskLevel   string          `json:"risk_level"`
	KeyFactors  json.RawMessage `json:"key_factors,omitempty"`
	AssessedAt  time.Time       `json:"assessed_at"`
}

// handleListCases returns the most recent archived assessments. 503 when the
// console runs without a database.
func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	if s.cases == nil {
		respondErr(w, http.StatusServiceUnavailable, "case archive is not configured")
		return
	}

	limit := defaultCaseLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondErr(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxCaseLimit)
	}

	cases, err := s.cases.RecentCases(r.Context(), limit)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list cases: %w", err))
		return
	}

	out := make([]caseResponse, len(cases))
	for i, c := range cases {
		out[i] = toCaseResponse(c)
	}
	respond(w, http.StatusOK, map[string]any{"cases": out})
}

func toCaseResponse(c db.Case) caseResponse {
	resp := caseResponse{
		ID:          c.ID.String(),
		District:    c.District,
		Area:        c.Area,
		AreaType:    c.AreaType,
		HouseType:   c.HouseType,
		Age:         c.Age,
		Gender:      c.Gender,
		NS1:         c.Ns1,
		IgG:         c.Igg,
		IgM:         c.Igm,
		Probability: c.Probability,
		RiskLevel:   c.RiskLevel,
		AssessedAt:  c.AssessedAt,
	}
	if c.KeyFactors.Valid {
		resp.KeyFactors = c.KeyFactors.RawMessage
	}
	return resp
}
