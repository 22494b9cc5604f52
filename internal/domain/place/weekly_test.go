package place

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stampedAt(id, iso string, t *testing.T) Record {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", iso, err)
	}
	return Record{PlaceID: id, AddedAt: ts}
}

func TestCountNewThisWeekUsesStrictISOWeeks(t *testing.T) {
	// Sunday 23:59:59 vs Monday 00:00:01 straddle a week boundary even
	// though they are seconds apart.
	sunday := stampedAt("sun", "2025-09-21T23:59:59Z", t)
	monday := stampedAt("mon", "2025-09-22T00:00:01Z", t)
	records := []Record{sunday, monday}

	countedMonday := CountNewThisWeek(records, time.Date(2025, 9, 22, 0, 0, 1, 0, time.UTC))
	assert.Equal(t, 1, countedMonday, "only the Monday record is in Monday's week")

	countedSunday := CountNewThisWeek(records, time.Date(2025, 9, 21, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, 1, countedSunday, "only the Sunday record is in Sunday's week")
}

func TestCountNewThisWeekExcludesUnstampedRecords(t *testing.T) {
	records := []Record{
		{PlaceID: "legacy"}, // row written before added_at_utc existed
		stampedAt("fresh", "2025-09-24T10:00:00Z", t),
	}
	got := CountNewThisWeek(records, time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, got)
}

func TestCountNewThisWeekAcrossYearBoundary(t *testing.T) {
	// 2024-12-30 belongs to ISO week 1 of 2025.
	records := []Record{stampedAt("a", "2024-12-30T10:00:00Z", t)}
	got := CountNewThisWeek(records, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, got)
}

func TestCountNewThisWeekZero(t *testing.T) {
	records := []Record{stampedAt("old", "2025-08-01T00:00:00Z", t)}
	got := CountNewThisWeek(records, time.Date(2025, 9, 24, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, got)
}
