package place

import "time"

// CountNewThisWeek counts records whose added_at_utc falls in the same
// ISO-8601 (year, week) pair as the given instant, evaluated in UTC. Weeks
// run Monday 00:00:00 UTC through Sunday 23:59:59 UTC; this is strict ISO
// bucketing, not a rolling 7-day window. Records without a timestamp are
// treated as pre-existing and excluded.
func CountNewThisWeek(records []Record, now time.Time) int {
	year, week := now.UTC().ISOWeek()
	count := 0
	for _, r := range records {
		if r.AddedAt.IsZero() {
			continue
		}
		y, w := r.AddedAt.UTC().ISOWeek()
		if y == year && w == week {
			count++
		}
	}
	return count
}
