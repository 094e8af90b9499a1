// Package assistant defines the conversational assistant contract used by the
// conversation orchestrator, an HTTP implementation of it, and an offline
// stand-in for running without a model backend.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
)

// RiskContext is the denormalized assessment sent with every chat request
// once an assessment exists. Test flags travel as 0/1.
type RiskContext struct {
	Probability float64 `json:"probability"`
	RiskLevel   string  `json:"risk_level"`
	Age         int     `json:"age"`
	Gender      int     `json:"gender"`
	NS1         int     `json:"ns1"`
	IgG         int     `json:"igg"`
	IgM         int     `json:"igm"`
	Area        string  `json:"area"`
	District    string  `json:"district"`
}

// Request is the /chat body. ConversationHistory is opaque: it is whatever
// the assistant returned last time, passed back unchanged.
type Request struct {
	Message                    string            `json:"message"`
	ConversationHistory        []json.RawMessage `json:"conversation_history"`
	RiskAssessment             *RiskContext      `json:"risk_assessment,omitempty"`
	IncludeFullRecommendations bool              `json:"include_full_recommendations,omitempty"`
}

// Response is a successful /chat answer.
type Response struct {
	Response            string            `json:"response"`
	ConversationHistory []json.RawMessage `json:"conversation_history"`
}

// Assistant is the interface the conversation orchestrator calls.
//
// Implementations must be safe to call concurrently. A non-nil error means
// the exchange failed and the caller keeps its previous transcript.
type Assistant interface {
	Chat(ctx context.Context, req Request) (Response, error)
}

// StatusError is a non-2xx answer from the assistant endpoint.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("assistant: unexpected status %d: %.200s", e.Status, e.Body)
}
