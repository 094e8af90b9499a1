package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpAssistant is the Assistant backed by the remote /chat endpoint.
type httpAssistant struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPAssistant returns an Assistant that POSTs to baseURL + "/chat".
func NewHTTPAssistant(baseURL string, timeout time.Duration) Assistant {
	return &httpAssistant{
		endpoint: strings.TrimRight(baseURL, "/") + "/chat",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat sends one exchange to the assistant.
func (a *httpAssistant) Chat(ctx context.Context, reqBody Request) (Response, error) {
	if reqBody.ConversationHistory == nil {
		reqBody.ConversationHistory = []json.RawMessage{}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Response{}, fmt.Errorf("assistant: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("assistant: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Response{}, fmt.Errorf("assistant: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &StatusError{Status: resp.StatusCode, Body: string(respBytes)}
	}

	var parsed Response
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return Response{}, fmt.Errorf("assistant: unmarshal response: %w", err)
	}
	if parsed.ConversationHistory == nil {
		parsed.ConversationHistory = []json.RawMessage{}
	}
	return parsed, nil
}
