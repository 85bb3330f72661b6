// Package server implements the HTTP surface of the hooksign signing
// service.
//
// This package provides:
//   - A signing endpoint: clients POST a raw payload and receive its
//     HMAC-SHA256 signature under a named profile's secret
//   - Per-IP rate limiting to prevent abuse
//   - Health and audit endpoints for monitoring
//   - Structured logging of all HTTP requests
//
// The server integrates with other packages:
//   - internal/profile: Signing profile configuration and validation
//   - internal/signature: HMAC-SHA256 signature generation
//   - internal/audit: SQLite-based signing activity log
//
// The server generates signatures; it never verifies them and does not
// act as a webhook receiver. Payloads are opaque bytes: they are hashed
// as-is, never parsed.
package server
