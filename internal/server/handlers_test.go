package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"hooksign/internal/audit"
	"hooksign/internal/profile"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	registry := profile.NewRegistry(map[string]*profile.Profile{
		"github": {
			Name:   "github",
			Secret: "kJ8mN2pQ5tR7vX1zB4cE6gH9jL3nP8qS2uW5yA7bD0fG3hK6",
		},
		"legacy": {
			Name:       "legacy",
			Secret:     "tmpsecret",
			WeakSecret: true,
		},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Test mode: no audit log, no rate limiting
	return NewServer(registry, nil, logger, true)
}

func TestHandleSign_KnownVector(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest("POST", "/sign/legacy", strings.NewReader(`{"tmp":"bob"}`))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response struct {
		Profile      string `json:"profile"`
		PayloadBytes int    `json:"payload_bytes"`
		Signature    string `json:"signature"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Independently computed HMAC-SHA256 of {"tmp":"bob"} with key "tmpsecret"
	want := "sha256=0b415fd16737253068f4b2c6cf30cea7fc9aa640f25aef10063e22b739d41f70"
	if response.Signature != want {
		t.Errorf("signature = %v, want %v", response.Signature, want)
	}
	if response.Profile != "legacy" {
		t.Errorf("profile = %v, want legacy", response.Profile)
	}
	if response.PayloadBytes != len(`{"tmp":"bob"}`) {
		t.Errorf("payload_bytes = %d, want %d", response.PayloadBytes, len(`{"tmp":"bob"}`))
	}
}

func TestHandleSign_Deterministic(t *testing.T) {
	server := setupTestServer(t)
	router := server.Router()

	sign := func() string {
		req := httptest.NewRequest("POST", "/sign/github", bytes.NewReader([]byte("payload")))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		var response map[string]interface{}
		_ = json.Unmarshal(rr.Body.Bytes(), &response)
		sig, _ := response["signature"].(string)
		return sig
	}

	first := sign()
	second := sign()
	if first == "" || first != second {
		t.Errorf("Expected identical signatures, got %q and %q", first, second)
	}
}

func TestHandleSign_UnknownProfile(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest("POST", "/sign/unknown-profile", strings.NewReader("x"))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}

	var response map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &response)
	if response["error"] != "Unknown profile" {
		t.Errorf("Expected 'Unknown profile' error, got %v", response)
	}
}

func TestHandleSign_InvalidProfileName(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest("POST", "/sign/.hidden", strings.NewReader("x"))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestHandleSign_PayloadTooLarge(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest("POST", "/sign/github", strings.NewReader("x"))
	req.ContentLength = MaxPayloadBytes + 1
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", rr.Code)
	}
}

func TestHandleSign_EmptyPayload(t *testing.T) {
	server := setupTestServer(t)

	// Empty payloads are valid byte sequences and must sign
	req := httptest.NewRequest("POST", "/sign/github", bytes.NewReader(nil))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &response)
	sig, _ := response["signature"].(string)
	if !strings.HasPrefix(sig, "sha256=") || len(sig) != len("sha256=")+64 {
		t.Errorf("Unexpected signature for empty payload: %q", sig)
	}
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response struct {
		Status       string   `json:"status"`
		Profiles     []string `json:"profiles"`
		ProfileCount int      `json:"profile_count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("status = %v, want ok", response.Status)
	}
	if response.ProfileCount != 2 {
		t.Errorf("profile_count = %d, want 2", response.ProfileCount)
	}
}

func TestHandleAudit_TestMode(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest("GET", "/audit/github", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 in test mode, got %d", rr.Code)
	}
}

func TestHandleAudit_RecordsSignings(t *testing.T) {
	registry := profile.NewRegistry(map[string]*profile.Profile{
		"github": {
			Name:   "github",
			Secret: "kJ8mN2pQ5tR7vX1zB4cE6gH9jL3nP8qS2uW5yA7bD0fG3hK6",
		},
	})

	auditLog, err := audit.NewLog(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Failed to open audit log: %v", err)
	}
	t.Cleanup(func() { _ = auditLog.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(registry, auditLog, logger, false)
	router := server.Router()

	// Sign one payload
	req := httptest.NewRequest("POST", "/sign/github", strings.NewReader(`{"tmp":"bob"}`))
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	// Audit endpoint must report it
	req = httptest.NewRequest("GET", "/audit/github", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response struct {
		Profile        string                `json:"profile"`
		LatestSigning  *audit.SigningRecord  `json:"latest_signing"`
		RecentSignings []audit.SigningRecord `json:"recent_signings"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.LatestSigning == nil {
		t.Fatal("Expected a latest signing record")
	}
	if response.LatestSigning.Status != "signed" {
		t.Errorf("status = %v, want signed", response.LatestSigning.Status)
	}
	if response.LatestSigning.PayloadBytes != int64(len(`{"tmp":"bob"}`)) {
		t.Errorf("payload_bytes = %d, want %d", response.LatestSigning.PayloadBytes, len(`{"tmp":"bob"}`))
	}
	// The signature itself must never be stored; only a payload checksum
	if strings.HasPrefix(response.LatestSigning.PayloadChecksum, "sha256=") {
		t.Errorf("Audit log stored a signature-shaped value: %q", response.LatestSigning.PayloadChecksum)
	}
	if len(response.RecentSignings) != 1 {
		t.Errorf("Expected 1 recent signing, got %d", len(response.RecentSignings))
	}
}

func TestHandleAudit_UnknownProfile(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest("GET", "/audit/unknown-profile", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}
