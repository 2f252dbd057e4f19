package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

// Test helpers for handler tests

// parseAuthResponse decodes the auth envelope from a recorded response
func parseAuthResponse(t *testing.T, w *httptest.ResponseRecorder) AuthResponse {
	t.Helper()
	var resp AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v: %s", err, w.Body.String())
	}
	return resp
}

// assertStatusCode checks if response status code matches expected
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expectedCode int) {
	t.Helper()
	if w.Code != expectedCode {
		t.Errorf("expected status %d, got %d: %s", expectedCode, w.Code, w.Body.String())
	}
}
