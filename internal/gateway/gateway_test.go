package gateway_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nyashahama/dengue-assessment-console/internal/gateway"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func post(g http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	g.ServeHTTP(rr, req)
	return rr
}

func TestForward_RelaysBodyAndStatus(t *testing.T) {
	var gotPath, gotBody string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"probability":0.4,"risk_level":"Medium"}`))
	}))
	defer backend.Close()

	g := gateway.New(backend.URL, time.Second, discardLogger())
	rr := post(g, "/predict", `{"Age":30}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if gotPath != "/predict" || gotBody != `{"Age":30}` {
		t.Errorf("backend saw %s %s", gotPath, gotBody)
	}
	if !strings.Contains(rr.Body.String(), `"risk_level":"Medium"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestForward_RelaysBackendErrors(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"bad input"}`, http.StatusUnprocessableEntity)
	}))
	defer backend.Close()

	g := gateway.New(backend.URL, time.Second, discardLogger())
	rr := post(g, "/chat", `{}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status %d", rr.Code)
	}
}

func TestForward_UnreachableBackendIs503(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	g := gateway.New(url, time.Second, discardLogger())
	for _, path := range []string{"/predict", "/chat"} {
		rr := post(g, path, `{}`)
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: status %d", path, rr.Code)
		}
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body.Error != gateway.UnavailableError || body.Message == "" {
			t.Errorf("%s: body = %+v", path, body)
		}
	}
}

func TestUnknownPostIs404(t *testing.T) {
	g := gateway.New("http://127.0.0.1:1", time.Second, discardLogger())
	rr := post(g, "/train", `{}`)
	if rr.Code != http.StatusNotFound || rr.Body.String() != "Not Found" {
		t.Errorf("status %d body %q", rr.Code, rr.Body.String())
	}
}

func TestPreflight(t *testing.T) {
	g := gateway.New("http://127.0.0.1:1", time.Second, discardLogger())
	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	rr := httptest.NewRecorder()
	g.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("status %d headers %v", rr.Code, rr.Header())
	}
}
