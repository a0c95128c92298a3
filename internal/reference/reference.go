// Package reference mints the human-readable booking reference: a fixed
// prefix, the creation timestamp in base36 at millisecond resolution, and a
// short random suffix, all upper-cased. The timestamp keeps references
// sortable for support lookup; the suffix separates bookings created within
// the same millisecond.
//
// Uniqueness is best-effort here (roughly 31 bits of suffix entropy, so a
// collision over the system's lifetime volume is possible but negligible).
// The repository enforces a unique constraint at insert and the service
// retries with a fresh reference on collision.
package reference

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const (
	prefix      = "YTR"
	suffixLen   = 6
	base36chars = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// New mints a reference for the current moment.
func New() string {
	return NewAt(time.Now())
}

// NewAt mints a reference for the given creation time.
func NewAt(ts time.Time) string {
	millis := strconv.FormatInt(ts.UnixMilli(), 36)
	return strings.ToUpper(prefix + "-" + millis + "-" + randomSuffix())
}

func randomSuffix() string {
	buf := make([]byte, suffixLen)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	out := make([]byte, suffixLen)
	for i, b := range buf {
		out[i] = base36chars[int(b)%len(base36chars)]
	}
	return string(out)
}
