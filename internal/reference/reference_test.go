package reference

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAt_Format(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	ref := NewAt(ts)

	parts := strings.Split(ref, "-")
	require.Len(t, parts, 3)

	assert.Equal(t, "YTR", parts[0])
	assert.Equal(t, ref, strings.ToUpper(ref))
	assert.Len(t, parts[2], suffixLen)

	millis, err := strconv.ParseInt(strings.ToLower(parts[1]), 36, 64)
	require.NoError(t, err)
	assert.Equal(t, ts.UnixMilli(), millis)
}

func TestNewAt_SortableByCreationTime(t *testing.T) {
	earlier := NewAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	later := NewAt(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	// same-length timestamps compare lexicographically in creation order
	assert.Less(t, earlier[:len(earlier)-suffixLen-1], later[:len(later)-suffixLen-1])
}

func TestNewAt_UniqueWithinSameMillisecond(t *testing.T) {
	ts := time.Now()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		ref := NewAt(ts)
		_, dup := seen[ref]
		require.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
}
