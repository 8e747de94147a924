package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestLogSessionRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /sessions": `{"date":"2026-08-29","minutes":30,"pages":20,"book":"Dune"}`,
	})

	client := ts.client()
	resp, err := client.post(ctx, "/sessions", map[string]any{
		"minutes": 30, "pages": 20, "book": "Dune", "notes": "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sess map[string]any
	if err := decodeJSON(resp, &sess); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if sess["date"] != "2026-08-29" {
		t.Errorf("date = %v", sess["date"])
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["book"] != "Dune" {
		t.Errorf("body.book = %v, want Dune", body["book"])
	}
	if _, present := body["date"]; present {
		t.Error("date should be omitted when not passed, so the server defaults it")
	}
}

func TestStreakRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /streak": `{"streak":4,"as_of":"2026-08-29"}`,
	})

	client := ts.client()
	resp, err := client.get(ctx, "/streak")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		Streak int    `json:"streak"`
		AsOf   string `json:"as_of"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Streak != 4 {
		t.Errorf("streak = %d, want 4", result.Streak)
	}
}

func TestGoalsDeleteRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"DELETE /goals/g-1": `{"status":"deleted"}`,
	})

	client := ts.client()
	resp, err := client.delete(ctx, "/goals/g-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]string
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result["status"] != "deleted" {
		t.Errorf("status = %q, want deleted", result["status"])
	}
}

func TestDecodeJSONErrorResponse(t *testing.T) {
	ts := newTestServer(t, nil)

	client := ts.client()
	resp, err := client.get(ctx, "/does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v map[string]any
	err = decodeJSON(resp, &v)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want it to mention the status code", err.Error())
	}
}

func TestImportCommand_MissingArgs(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"import"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing args")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want it to mention 'required'", err.Error())
	}
}

func TestColorizeRespectsNoColor(t *testing.T) {
	saved := noColor
	defer func() { noColor = saved }()

	noColor = false
	if got := colorize(colorGreen, "ok"); got != colorGreen+"ok"+colorReset {
		t.Errorf("colorize = %q", got)
	}

	noColor = true
	if got := colorize(colorGreen, "ok"); got != "ok" {
		t.Errorf("colorize with --no-color = %q, want plain text", got)
	}
}
