package audit

import "time"

// SigningRecord represents a single signing operation in the database.
//
// The signature value and the secret are deliberately absent: signatures
// are computed fresh on every request and never persisted. Only request
// metadata and a plain SHA-256 checksum of the payload are kept, enough
// to correlate a signing request with an independently held payload.
type SigningRecord struct {
	ID              int64     `json:"id"`
	Profile         string    `json:"profile"`
	PayloadBytes    int64     `json:"payload_bytes"`
	PayloadChecksum string    `json:"payload_checksum"`
	Status          string    `json:"status"` // signed, rejected
	CreatedAt       time.Time `json:"created_at"`
}
