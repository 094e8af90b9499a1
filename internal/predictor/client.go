// Package predictor defines the remote dengue risk predictor contract and an
// HTTP implementation of it.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// PatientRecord is what the operator submits. Field names on the wire follow
// the predictor's /predict schema exactly.
type PatientRecord struct {
	Age       int    `json:"age"`
	Gender    int    `json:"gender"` // 0 = female, 1 = male
	NS1       bool   `json:"ns1"`
	IgG       bool   `json:"igg"`
	IgM       bool   `json:"igm"`
	District  string `json:"district"`
	Area      string `json:"area"`
	AreaType  string `json:"area_type"`
	HouseType string `json:"house_type"`
}

// Result is a parsed successful /predict response.
type Result struct {
	Probability    float64    `json:"probability"`
	RiskLevel      string     `json:"risk_level"`
	Recommendation string     `json:"recommendation,omitempty"`
	KeyFactors     KeyFactors `json:"key_factors,omitempty"`
}

// KeyFactors maps a factor name to its display text. The full backend sends
// strings only; the simplified backend also sends numbers (e.g. "Age": 34),
// so non-string values are kept as their JSON text.
type KeyFactors map[string]string

// UnmarshalJSON accepts any scalar value per key.
func (k *KeyFactors) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*k = nil
		return nil
	}
	out := make(KeyFactors, len(raw))
	for key, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[key] = s
			continue
		}
		out[key] = string(v)
	}
	*k = out
	return nil
}

// Predictor is the interface the prediction orchestrator calls. Tests inject
// a stub that returns canned results or errors.
type Predictor interface {
	// Predict sends one record to the remote model. The returned error is
	// always one of *ServiceUnavailableError, *RequestError or
	// *TransportError so callers can classify it with errors.As.
	Predict(ctx context.Context, rec PatientRecord) (Result, error)
}

// ─── WIRE SHAPE ───────────────────────────────────────────────────────────────

// predictRequest is the exact /predict body. Booleans travel as 0/1.
type predictRequest struct {
	Age       int    `json:"Age"`
	Gender    int    `json:"Gender"`
	NS1       int    `json:"NS1"`
	IgG       int    `json:"IgG"`
	IgM       int    `json:"IgM"`
	Area      string `json:"Area"`
	AreaType  string `json:"AreaType"`
	HouseType string `json:"HouseType"`
	District  string `json:"District"`
}

func toWire(rec PatientRecord) predictRequest {
	return predictRequest{
		Age:       rec.Age,
		Gender:    rec.Gender,
		NS1:       bit(rec.NS1),
		IgG:       bit(rec.IgG),
		IgM:       bit(rec.IgM),
		Area:      rec.Area,
		AreaType:  rec.AreaType,
		HouseType: rec.HouseType,
		District:  rec.District,
	}
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ─── ERRORS ───────────────────────────────────────────────────────────────────

// ServiceUnavailableMessage is shown verbatim when the intermediary reports
// that the model backend is down.
const ServiceUnavailableMessage = "Backend service unavailable. Please start the backend API server and try again."

// ServiceUnavailableError means the intermediary answered 503: the model
// service behind it is not running.
type ServiceUnavailableError struct {
	Body string
}

func (e *ServiceUnavailableError) Error() string { return ServiceUnavailableMessage }

// RequestError is any other non-2xx answer.
type RequestError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *RequestError) Error() string {
	text := e.StatusText
	if text == "" {
		text = strconv.Itoa(e.Status)
	}
	return fmt.Sprintf("Failed to get prediction: %d %s - %s", e.Status, text, e.Body)
}

// TransportError wraps a network failure or an unreadable response body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("predictor: %s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }
