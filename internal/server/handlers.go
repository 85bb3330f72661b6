package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"hooksign/internal/audit"
	"hooksign/internal/security"
	"hooksign/internal/signature"

	"github.com/go-chi/chi/v5"
)

const (
	MaxPayloadBytes = 1_000_000 // 1 MB

	RecentSigningsLimit = 10 // Number of recent signings to return in audit endpoint
)

// HandleSign signs the request body with the named profile's secret.
//
// The body is treated as opaque bytes: no Content-Type restriction and no
// parsing. The same bytes always produce the same signature.
func (s *Server) HandleSign(w http.ResponseWriter, r *http.Request) {
	profileName := chi.URLParam(r, "profileName")

	// Validate profile name for security
	if err := security.ValidateProfileName(profileName); err != nil {
		s.Logger.Warn("Invalid profile name in sign request", "profile", profileName, "error", err)
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid profile name: %v", err)})
		return
	}

	// Check if profile exists
	prof, err := s.Registry.Get(profileName)
	if err != nil {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown profile"})
		return
	}

	// Check payload size (ContentLength can be -1 if not set)
	if r.ContentLength > MaxPayloadBytes {
		s.recordSigning(r, profileName, 0, "", "rejected")
		s.respondJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "Payload too large"})
		return
	}

	// Read payload
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxPayloadBytes+1))
	if err != nil {
		s.Logger.Error("Failed to read request body", "error", err, "profile", profileName)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read payload"})
		return
	}
	if len(body) > MaxPayloadBytes {
		s.recordSigning(r, profileName, int64(len(body)), "", "rejected")
		s.respondJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "Payload too large"})
		return
	}

	if prof.WeakSecret {
		s.Logger.Warn("Signing with a weak secret", "profile", profileName)
	}

	sig := signature.Sign(body, prof.Secret)

	// Audit the operation. The checksum is a plain SHA-256 of the payload,
	// not the signature, which is never stored.
	checksum := sha256.Sum256(body)
	s.recordSigning(r, profileName, int64(len(body)), hex.EncodeToString(checksum[:]), "signed")

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"profile":       profileName,
		"payload_bytes": len(body),
		"signature":     sig,
	})
}

// recordSigning writes an audit record when auditing is enabled
func (s *Server) recordSigning(r *http.Request, profileName string, payloadBytes int64, checksum, status string) {
	if s.TestMode || s.Audit == nil {
		return
	}

	if _, err := s.Audit.RecordSigning(r.Context(), &audit.SigningRecord{
		Profile:         profileName,
		PayloadBytes:    payloadBytes,
		PayloadChecksum: checksum,
		Status:          status,
	}); err != nil {
		s.Logger.Error("Failed to record signing in audit log", "error", err, "profile", profileName)
	}
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	profileNames := s.Registry.List()

	response := map[string]interface{}{
		"status":        "ok",
		"profiles":      profileNames,
		"profile_count": s.Registry.Count(),
	}

	s.respondJSON(w, http.StatusOK, response)
}

// HandleAudit handles signing activity requests
func (s *Server) HandleAudit(w http.ResponseWriter, r *http.Request) {
	profileName := chi.URLParam(r, "profileName")

	// Validate profile name for security
	if err := security.ValidateProfileName(profileName); err != nil {
		s.Logger.Warn("Invalid profile name in audit request", "profile", profileName, "error", err)
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid profile name: %v", err)})
		return
	}

	// Check if profile exists
	if _, err := s.Registry.Get(profileName); err != nil {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "Unknown profile"})
		return
	}

	// Check if auditing is available
	if s.TestMode || s.Audit == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Audit log not available"})
		return
	}

	latest, err := s.Audit.GetLatestSigning(r.Context(), profileName)
	if err != nil {
		s.Logger.Error("Failed to get latest signing", "error", err, "profile", profileName)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch signing activity"})
		return
	}

	recent, err := s.Audit.GetSigningHistory(r.Context(), profileName, RecentSigningsLimit)
	if err != nil {
		s.Logger.Error("Failed to get signing history", "error", err, "profile", profileName)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch signing activity"})
		return
	}

	response := map[string]interface{}{
		"profile":         profileName,
		"latest_signing":  latest,
		"recent_signings": recent,
	}

	s.respondJSON(w, http.StatusOK, response)
}

// respondJSON writes a JSON response with the given status code
func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.Logger.Error("Failed to encode JSON response", "error", err)
	}
}
