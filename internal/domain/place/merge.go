package place

import "time"

// MergeResult describes the outcome of reconciling one fetched batch
// against a city's existing table.
type MergeResult struct {
	New   []Record // records to append, in batch order, stamped with AddedAt
	Known int      // batch records already present in the table
}

// Merge partitions an incoming batch against the ids already present in the
// table. Records whose place_id is already known are discarded; the rest are
// stamped with the given run instant and returned in the order they were
// observed. Existing rows are never touched, so running the same batch twice
// yields nothing to append the second time.
//
// Duplicates inside the batch itself are also collapsed to their first
// occurrence. Records with an empty place_id are skipped outright; the
// normalizer should have rejected those already.
func Merge(existing, batch []Record, now time.Time) MergeResult {
	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		if r.PlaceID != "" {
			seen[r.PlaceID] = struct{}{}
		}
	}

	stamp := now.UTC()
	var res MergeResult
	for _, r := range batch {
		if r.PlaceID == "" {
			continue
		}
		if _, ok := seen[r.PlaceID]; ok {
			res.Known++
			continue
		}
		seen[r.PlaceID] = struct{}{}
		r.AddedAt = stamp
		res.New = append(res.New, r)
	}
	return res
}
