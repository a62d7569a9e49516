package util

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// NewID returns a lexicographically sortable identifier for analyses and events.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
