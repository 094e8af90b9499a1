package session_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/nyashahama/dengue-assessment-console/internal/format"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
)

func record() predictor.PatientRecord {
	return predictor.PatientRecord{
		Age: 41, Gender: 0, NS1: true, IgG: false, IgM: true,
		District: "Dhaka", Area: "Badda", AreaType: "Undeveloped", HouseType: "Tinshed",
	}
}

func turns(ss ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(ss))
	for i, s := range ss {
		out[i] = json.RawMessage(s)
	}
	return out
}

func TestNew_Empty(t *testing.T) {
	s := session.New()
	if _, ok := s.CurrentAssessment(); ok {
		t.Error("new session should have no assessment")
	}
	if got := s.Transcript(); len(got) != 0 {
		t.Errorf("new session transcript = %v", got)
	}
	if s.Generation() != 0 {
		t.Errorf("generation = %d", s.Generation())
	}
}

func TestSetAssessment_DenormalizesRecord(t *testing.T) {
	s := session.New()
	a := s.SetAssessment(record(), predictor.Result{
		Probability: 0.77, RiskLevel: "HIGH", Recommendation: "rest",
		KeyFactors: predictor.KeyFactors{"IgM_Status": "Positive"},
	})

	if a.Level != format.LevelHigh {
		t.Errorf("level = %q, want normalized High", a.Level)
	}
	got, ok := s.CurrentAssessment()
	if !ok {
		t.Fatal("assessment not stored")
	}
	if got.Age != 41 || !got.NS1 || got.IgG || !got.IgM || got.Area != "Badda" || got.District != "Dhaka" {
		t.Errorf("denormalized copy wrong: %+v", got)
	}
	if got.AssessedAt.IsZero() {
		t.Error("AssessedAt not set")
	}
}

func TestSetAssessment_ClearsTranscriptAndReplaces(t *testing.T) {
	s := session.New()
	s.SetAssessment(record(), predictor.Result{Probability: 0.2, RiskLevel: "Low"})
	gen := s.Generation()
	if !s.ReplaceTranscript(gen, turns(`{"role":"user"}`, `{"role":"assistant"}`), uuid.Nil) {
		t.Fatal("replace rejected")
	}
	s.AppendUserTurn("pending question")

	s.SetAssessment(record(), predictor.Result{Probability: 0.9, RiskLevel: "High"})

	if got := s.Transcript(); len(got) != 0 {
		t.Errorf("transcript not reset: %s", got)
	}
	if got := s.Pending(); len(got) != 0 {
		t.Errorf("pending turns not reset: %v", got)
	}
	a, _ := s.CurrentAssessment()
	if a.Probability != 0.9 {
		t.Errorf("assessment not replaced: %+v", a)
	}
	if s.Generation() != gen+1 || a.Generation != gen+1 {
		t.Errorf("generation = %d, assessment generation = %d, want %d", s.Generation(), a.Generation, gen+1)
	}
}

func TestReplaceTranscript_ReplacesWholesale(t *testing.T) {
	s := session.New()
	gen := s.Generation()

	s.ReplaceTranscript(gen, turns(`1`, `2`), uuid.Nil)
	s.ReplaceTranscript(gen, turns(`1`, `2`, `3`, `4`), uuid.Nil)

	got := s.Transcript()
	if len(got) != 4 || string(got[3]) != `4` {
		t.Errorf("transcript = %s, want the second reply exactly", got)
	}
}

func TestReplaceTranscript_StaleGenerationDiscarded(t *testing.T) {
	s := session.New()
	stale := s.Generation()
	s.SetAssessment(record(), predictor.Result{Probability: 0.5, RiskLevel: "Medium"})

	if s.ReplaceTranscript(stale, turns(`"old"`), uuid.Nil) {
		t.Error("stale reply should be rejected")
	}
	if got := s.Transcript(); len(got) != 0 {
		t.Errorf("transcript = %s", got)
	}
}

func TestAppendUserTurn_PendingUntilConfirmed(t *testing.T) {
	s := session.New()
	first := s.AppendUserTurn("hello")
	second := s.AppendUserTurn("still there?")

	if len(s.Transcript()) != 0 {
		t.Error("user turns must not enter the transcript")
	}
	if len(s.Pending()) != 2 {
		t.Fatalf("pending = %d, want 2", len(s.Pending()))
	}

	s.ReplaceTranscript(s.Generation(), turns(`"x"`), second.ID)

	p := s.Pending()
	if len(p) != 1 || p[0].ID != first.ID {
		t.Errorf("pending after confirm = %v, want only the first turn", p)
	}
}

func TestTranscript_ReturnsCopy(t *testing.T) {
	s := session.New()
	s.ReplaceTranscript(0, turns(`"a"`), uuid.Nil)
	got := s.Transcript()
	got[0] = json.RawMessage(`"mutated"`)
	if string(s.Transcript()[0]) != `"a"` {
		t.Error("caller mutation leaked into session")
	}
}

func TestSnapshot_Consistent(t *testing.T) {
	s := session.New()
	snap := s.Snapshot()
	if snap.Assessment != nil || snap.Generation != 0 {
		t.Errorf("unexpected empty snapshot: %+v", snap)
	}
	s.SetAssessment(record(), predictor.Result{Probability: 0.3, RiskLevel: "low"})
	snap = s.Snapshot()
	if snap.Assessment == nil || snap.Assessment.Level != format.LevelLow || snap.Generation != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}
