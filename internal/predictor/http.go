package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpPredictor is the Predictor backed by an HTTP JSON endpoint.
type httpPredictor struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPPredictor returns a Predictor that POSTs to baseURL + "/predict".
//   - baseURL: e.g. "http://localhost:8000" (the gateway)
//   - timeout: whole-request deadline; zero leaves the transport default
func NewHTTPPredictor(baseURL string, timeout time.Duration) Predictor {
	return &httpPredictor{
		endpoint: strings.TrimRight(baseURL, "/") + "/predict",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict sends one request and classifies the outcome.
func (p *httpPredictor) Predict(ctx context.Context, rec PatientRecord) (Result, error) {
	bodyBytes, err := json.Marshal(toWire(rec))
	if err != nil {
		return Result{}, &TransportError{Op: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Result{}, &TransportError{Op: "http request", Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return Result{}, &TransportError{Op: "read response body", Err: err}
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		return Result{}, &ServiceUnavailableError{Body: string(respBytes)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &RequestError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(respBytes),
		}
	}

	var result Result
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return Result{}, &TransportError{Op: "unmarshal response", Err: err}
	}
	return result, nil
}
