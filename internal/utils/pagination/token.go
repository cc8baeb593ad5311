package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// ErrInvalidCursor is returned for tokens that were not produced by EncodeCursor.
var ErrInvalidCursor = errors.New("invalid pagination cursor")

// EncodeCursor builds the opaque keyset token for listings ordered by
// (created_at DESC, id DESC). The token points at the last row of a page.
func EncodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(timeFormat) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(token string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", ErrInvalidCursor
	}
	createdRaw, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return time.Time{}, "", ErrInvalidCursor
	}
	createdAt, err := time.Parse(timeFormat, createdRaw)
	if err != nil {
		return time.Time{}, "", ErrInvalidCursor
	}
	return createdAt, id, nil
}

// ClampLimit bounds a requested page size.
func ClampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
