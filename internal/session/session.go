// Package session holds the per-operator assessment state: the single current
// risk assessment and the authoritative conversation transcript.
//
// Invariants:
//   - At most one RiskAssessment exists; SetAssessment replaces it wholesale.
//   - A new assessment empties the transcript and bumps the generation.
//   - The transcript only ever changes by wholesale replacement with what the
//     assistant returned. User turns typed locally are tracked as pending and
//     never enter the transcript.
package session

import (
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/dengue-assessment-console/internal/format"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
)

// RiskAssessment is the latest prediction outcome plus a denormalized copy of
// the patient attributes that produced it, kept for chat context.
type RiskAssessment struct {
	Probability    float64
	Level          format.Level
	Recommendation string
	KeyFactors     predictor.KeyFactors

	Age      int
	Gender   int
	NS1      bool
	IgG      bool
	IgM      bool
	Area     string
	District string

	AssessedAt time.Time

	// Generation is the session generation this assessment opened.
	Generation uint64
}

// PendingTurn is a user message shown before the assistant confirmed it.
type PendingTurn struct {
	ID         uuid.UUID
	Text       string
	Generation uint64
}

// Session is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	assessment *RiskAssessment
	transcript []json.RawMessage
	pending    []PendingTurn
	generation uint64
	now        func() time.Time
}

// New returns an empty session: no assessment, empty transcript.
func New() *Session {
	return &Session{now: time.Now}
}

// SetAssessment builds a RiskAssessment from the prediction and the record
// that produced it, replaces any existing one and clears the transcript.
func (s *Session) SetAssessment(rec predictor.PatientRecord, res predictor.Result) RiskAssessment {
	a := RiskAssessment{
		Probability:    res.Probability,
		Level:          format.NormalizeLevel(res.RiskLevel),
		Recommendation: res.Recommendation,
		KeyFactors:     cloneFactors(res.KeyFactors),
		Age:            rec.Age,
		Gender:         rec.Gender,
		NS1:            rec.NS1,
		IgG:            rec.IgG,
		IgM:            rec.IgM,
		Area:           rec.Area,
		District:       rec.District,
		AssessedAt:     s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	a.Generation = s.generation
	s.assessment = &a
	s.transcript = nil
	s.pending = nil
	return a
}

// CurrentAssessment returns the current assessment, if any.
func (s *Session) CurrentAssessment() (RiskAssessment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assessment == nil {
		return RiskAssessment{}, false
	}
	return *s.assessment, true
}

// Generation counts assessments. It starts at 0 (no assessment yet).
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Transcript returns a copy of the authoritative transcript.
func (s *Session) Transcript() []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTranscript(s.transcript)
}

// Snapshot is everything a chat request needs, read under one lock so the
// assessment, transcript and generation are consistent with each other.
type Snapshot struct {
	Assessment *RiskAssessment
	Transcript []json.RawMessage
	Generation uint64
}

// Snapshot returns a consistent copy of the chat context.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Transcript: cloneTranscript(s.transcript),
		Generation: s.generation,
	}
	if s.assessment != nil {
		a := *s.assessment
		snap.Assessment = &a
	}
	return snap
}

// AppendUserTurn records text as a pending turn for display. The
// transcript is not touched.
func (s *Session) AppendUserTurn(text string) PendingTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turn := PendingTurn{ID: uuid.New(), Text: text, Generation: s.generation}
	s.pending = append(s.pending, turn)
	return turn
}

// Pending returns the user turns that no successful exchange has confirmed.
func (s *Session) Pending() []PendingTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pending)
}

// ReplaceTranscript installs the assistant's transcript as the new source of
// truth and confirms the pending turn with id turnID (uuid.Nil for none).
//
// generation must be the value read when the request was built. If a new
// assessment arrived in the meantime the reply belongs to a discarded context,
// so nothing changes and false is returned.
func (s *Session) ReplaceTranscript(generation uint64, transcript []json.RawMessage, turnID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	s.transcript = cloneTranscript(transcript)
	if turnID != uuid.Nil {
		s.pending = slices.DeleteFunc(s.pending, func(p PendingTurn) bool { return p.ID == turnID })
	}
	return true
}

func cloneTranscript(t []json.RawMessage) []json.RawMessage {
	if t == nil {
		return []json.RawMessage{}
	}
	out := make([]json.RawMessage, len(t))
	for i, m := range t {
		out[i] = slices.Clone(m)
	}
	return out
}

func cloneFactors(f predictor.KeyFactors) predictor.KeyFactors {
	if f == nil {
		return nil
	}
	out := make(predictor.KeyFactors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
