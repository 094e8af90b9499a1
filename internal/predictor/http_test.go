package predictor_test

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

	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
)

func sampleRecord() predictor.PatientRecord {
	return predictor.PatientRecord{
		Age:       34,
		Gender:    1,
		NS1:       true,
		IgM:       true,
		District:  "Dhaka",
		Area:      "Mirpur",
		AreaType:  "Developed",
		HouseType: "Building",
	}
}

func TestPredict_SendsWireShapeAndParsesResult(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"probability": 0.82,
			"risk_level": "HIGH",
			"recommendation": "Seek care",
			"key_factors": {"NS1_Status": "Positive (strong indicator)", "Age": 34}
		}`)
	}))
	defer srv.Close()

	p := predictor.NewHTTPPredictor(srv.URL+"/", 5*time.Second)
	res, err := p.Predict(context.Background(), sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"Age": 34.0, "Gender": 1.0, "NS1": 1.0, "IgG": 0.0, "IgM": 1.0,
		"Area": "Mirpur", "AreaType": "Developed", "HouseType": "Building", "District": "Dhaka",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("request field %s = %v, want %v", k, got[k], v)
		}
	}

	if res.Probability != 0.82 || res.RiskLevel != "HIGH" || res.Recommendation != "Seek care" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.KeyFactors["NS1_Status"] != "Positive (strong indicator)" {
		t.Errorf("string factor = %q", res.KeyFactors["NS1_Status"])
	}
	if res.KeyFactors["Age"] != "34" {
		t.Errorf("numeric factor = %q, want \"34\"", res.KeyFactors["Age"])
	}
}

func TestPredict_503IsServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"Backend service unavailable"}`)
	}))
	defer srv.Close()

	_, err := predictor.NewHTTPPredictor(srv.URL, time.Second).Predict(context.Background(), sampleRecord())

	var unavailable *predictor.ServiceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ServiceUnavailableError, got %T: %v", err, err)
	}
	if err.Error() != predictor.ServiceUnavailableMessage {
		t.Errorf("message = %q, want the fixed unavailable message", err.Error())
	}
}

func TestPredict_OtherStatusIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"ML model not loaded"}`)
	}))
	defer srv.Close()

	_, err := predictor.NewHTTPPredictor(srv.URL, time.Second).Predict(context.Background(), sampleRecord())

	var reqErr *predictor.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T: %v", err, err)
	}
	if reqErr.Status != 500 {
		t.Errorf("status = %d", reqErr.Status)
	}
	if !strings.Contains(reqErr.Error(), "ML model not loaded") {
		t.Errorf("error should carry the body text, got %q", reqErr.Error())
	}
	if !strings.Contains(reqErr.Error(), "500 Internal Server Error") {
		t.Errorf("error should carry the status, got %q", reqErr.Error())
	}
}

func TestPredict_NetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listening any more

	_, err := predictor.NewHTTPPredictor(url, time.Second).Predict(context.Background(), sampleRecord())

	var tErr *predictor.TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
}

func TestPredict_MalformedBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := predictor.NewHTTPPredictor(srv.URL, time.Second).Predict(context.Background(), sampleRecord())

	var tErr *predictor.TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
}
