// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrInvalidIngestKey = errors.New("invalid ingest key")
	ErrMissingSource    = errors.New("ingest source is required")
)

// GenerateIngestKey creates an HMAC-based key for a snapshot source
// This is deterministic and verifiable
func GenerateIngestKey(source, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(source))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateIngestKey checks if the provided key is valid for the source
func ValidateIngestKey(source, key, salt string) error {
	if source == "" {
		return ErrMissingSource
	}
	expected := GenerateIngestKey(source, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidIngestKey
	}
	return nil
}

// ContentHash returns the hex SHA-256 of a raw snapshot payload
// Used to reject byte-identical re-uploads
func ContentHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
