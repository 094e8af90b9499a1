package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nyashahama/dengue-assessment-console/internal/feed"
	"github.com/nyashahama/dengue-assessment-console/internal/format"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
)

// ─── RESPONSE SHAPES ──────────────────────────────────────────────────────────

type assessmentResponse struct {
	Probability    float64           `json:"probability"`
	Percent        int               `json:"percent"`
	RiskLevel      string            `json:"risk_level"`
	Label          string            `json:"label"`
	Color          string            `json:"color"`
	Recommendation string            `json:"recommendation"`
	KeyFactors     map[string]string `json:"key_factors"`
	Age            int               `json:"age"`
	Gender         int               `json:"gender"`
	NS1            bool              `json:"ns1"`
	IgG            bool              `json:"igg"`
	IgM            bool              `json:"igm"`
	Area           string            `json:"area"`
	District       string            `json:"district"`
	AssessedAt     time.Time         `json:"assessed_at"`
}

func toAssessmentResponse(a session.RiskAssessment) assessmentResponse {
	factors := make(map[string]string, len(a.KeyFactors))
	for k, v := range a.KeyFactors {
		factors[k] = v
	}
	return assessmentResponse{
		Probability:    a.Probability,
		Percent:        format.Percent(a.Probability),
		RiskLevel:      string(a.Level),
		Label:          format.RiskLabel(string(a.Level)),
		Color:          format.RiskColor(string(a.Level)),
		Recommendation: a.Recommendation,
		KeyFactors:     factors,
		Age:            a.Age,
		Gender:         a.Gender,
		NS1:            a.NS1,
		IgG:            a.IgG,
		IgM:            a.IgM,
		Area:           a.Area,
		District:       a.District,
		AssessedAt:     a.AssessedAt,
	}
}

// ─── POST /api/session ────────────────────────────────────────────────────────

type createSessionResponse struct {
	SessionID string        `json:"session_id"`
	Feed      feed.Snapshot `json:"feed"`
}

// handleCreateSession opens a new operator session, the equivalent of loading
// the assessment page.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	o := s.sessions.create()
	respond(w, http.StatusCreated, createSessionResponse{
		SessionID: o.id.String(),
		Feed:      o.feed.Snapshot(),
	})
}

// ─── GET /api/session/:sessionID ──────────────────────────────────────────────

type getSessionResponse struct {
	SessionID  string              `json:"session_id"`
	Feed       feed.Snapshot       `json:"feed"`
	Assessment *assessmentResponse `json:"assessment"`
	Transcript []json.RawMessage   `json:"transcript"`
	Generation uint64              `json:"generation"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	o := operatorFrom(r)
	snap := o.session.Snapshot()

	resp := getSessionResponse{
		SessionID:  o.id.String(),
		Feed:       o.feed.Snapshot(),
		Transcript: snap.Transcript,
		Generation: snap.Generation,
	}
	if snap.Assessment != nil {
		a := toAssessmentResponse(*snap.Assessment)
		resp.Assessment = &a
	}
	respond(w, http.StatusOK, resp)
}

// ─── DELETE /api/session/:sessionID ───────────────────────────────────────────

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	o := operatorFrom(r)
	if err := s.sessions.remove(o.id); err != nil {
		respondErr(w, http.StatusNotFound, "session not found")
		return
	}
	s.logger.Info("session: closed", "session_id", o.id, logField(r))
	w.WriteHeader(http.StatusNoContent)
}

// ─── GET /api/session/:sessionID/gauge.svg ────────────────────────────────────

// handleGauge serves the live risk indicator. 404 until the first successful
// assessment.
func (s *Server) handleGauge(w http.ResponseWriter, r *http.Request) {
	svg := operatorFrom(r).feed.Gauge()
	if svg == nil {
		respondErr(w, http.StatusNotFound, "no assessment yet")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}
