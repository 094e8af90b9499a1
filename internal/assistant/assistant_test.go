package assistant_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nyashahama/dengue-assessment-console/internal/assistant"
)

// ─── HTTP ─────────────────────────────────────────────────────────────────────

func TestHTTPAssistant_RoundTrip(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, `{"response":"**Rest**","conversation_history":[{"role":"user","content":"hi"},{"role":"assistant","content":"**Rest**"}]}`)
	}))
	defer srv.Close()

	a := assistant.NewHTTPAssistant(srv.URL, time.Second)
	resp, err := a.Chat(context.Background(), assistant.Request{
		Message: "hi",
		RiskAssessment: &assistant.RiskContext{
			Probability: 0.8, RiskLevel: "High", Age: 30, NS1: 1, Area: "Mirpur", District: "Dhaka",
		},
		IncludeFullRecommendations: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(got["message"]) != `"hi"` {
		t.Errorf("message = %s", got["message"])
	}
	if string(got["conversation_history"]) != `[]` {
		t.Errorf("nil history should be sent as [], got %s", got["conversation_history"])
	}
	if string(got["include_full_recommendations"]) != `true` {
		t.Errorf("include flag = %s", got["include_full_recommendations"])
	}
	var rc map[string]any
	_ = json.Unmarshal(got["risk_assessment"], &rc)
	if rc["risk_level"] != "High" || rc["ns1"] != 1.0 || rc["district"] != "Dhaka" {
		t.Errorf("risk_assessment = %s", got["risk_assessment"])
	}

	if resp.Response != "**Rest**" || len(resp.ConversationHistory) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHTTPAssistant_OmitsContextWithoutAssessment(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		_, _ = io.WriteString(w, `{"response":"ok","conversation_history":[]}`)
	}))
	defer srv.Close()

	_, err := assistant.NewHTTPAssistant(srv.URL, time.Second).Chat(context.Background(), assistant.Request{Message: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(raw, "risk_assessment") || strings.Contains(raw, "include_full_recommendations") {
		t.Errorf("optional fields should be omitted: %s", raw)
	}
}

func TestHTTPAssistant_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"response":"AI chat is not configured.","conversation_history":[]}`)
	}))
	defer srv.Close()

	_, err := assistant.NewHTTPAssistant(srv.URL, time.Second).Chat(context.Background(), assistant.Request{Message: "q"})
	var se *assistant.StatusError
	if !errors.As(err, &se) || se.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected StatusError 503, got %v", err)
	}
}

func TestHTTPAssistant_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := assistant.NewHTTPAssistant(url, time.Second).Chat(context.Background(), assistant.Request{Message: "q"}); err == nil {
		t.Fatal("expected error")
	}
}

// ─── Offline ──────────────────────────────────────────────────────────────────

func TestOffline_KeywordReplies(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Hello there", "Hello!"},
		{"hi!", "Hello!"},
		{"Which tests matter?", "NS1 indicates acute infection"},
		{"is this dengue?", "Dengue risk is calculated"},
		{"what about dengue", "Dengue risk is calculated"},
		{"explain ns1", "NS1 indicates acute infection"},
		{"how to prevent bites", "Key prevention measures"},
		{"thank you", "You're welcome!"},
		{"weather?", "I'm here to help"},
	}
	a := assistant.NewOffline()
	for _, tt := range tests {
		resp, err := a.Chat(context.Background(), assistant.Request{Message: tt.msg})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.msg, err)
		}
		if !strings.HasPrefix(resp.Response, tt.want) && !strings.Contains(resp.Response, tt.want) {
			t.Errorf("%q: reply %q does not contain %q", tt.msg, resp.Response, tt.want)
		}
	}
}

func TestOffline_DetailedRecommendationsUseContext(t *testing.T) {
	resp, err := assistant.NewOffline().Chat(context.Background(), assistant.Request{
		Message:                    "details please",
		RiskAssessment:             &assistant.RiskContext{Probability: 0.82, RiskLevel: "High", Area: "Mirpur", District: "Dhaka"},
		IncludeFullRecommendations: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Response, "High risk (82%) for Mirpur, Dhaka") {
		t.Errorf("reply = %q", resp.Response)
	}
}

func TestOffline_HistoryAppendedAndTrimmed(t *testing.T) {
	a := assistant.NewOffline()
	var history []json.RawMessage
	for i := 0; i < 7; i++ {
		resp, err := a.Chat(context.Background(), assistant.Request{Message: "thanks", ConversationHistory: history})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		history = resp.ConversationHistory
	}
	if len(history) != 10 {
		t.Fatalf("history length = %d, want 10", len(history))
	}
	var last struct{ Role, Content string }
	_ = json.Unmarshal(history[9], &last)
	if last.Role != "assistant" {
		t.Errorf("last turn role = %q", last.Role)
	}
}
