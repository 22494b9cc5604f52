package place

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string) Record {
	return Record{PlaceID: id, Name: "Place " + id}
}

func TestMergeAppendsOnlyNewRecords(t *testing.T) {
	existing := []Record{rec("a"), rec("b")}
	batch := []Record{rec("b"), rec("c"), rec("d")}
	now := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)

	res := Merge(existing, batch, now)

	require.Len(t, res.New, 2)
	assert.Equal(t, "c", res.New[0].PlaceID)
	assert.Equal(t, "d", res.New[1].PlaceID)
	assert.Equal(t, 1, res.Known)
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := []Record{rec("a")}
	batch := []Record{rec("a"), rec("b"), rec("c")}
	now := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)

	first := Merge(existing, batch, now)
	require.Len(t, first.New, 2)

	// Re-running the same batch against the grown table appends nothing.
	table := append(existing, first.New...)
	second := Merge(table, batch, now)
	assert.Empty(t, second.New)
	assert.Equal(t, 3, second.Known)
}

func TestMergeStampsAllNewRecordsWithSameInstant(t *testing.T) {
	now := time.Date(2025, 9, 24, 12, 30, 45, 0, time.UTC)
	res := Merge(nil, []Record{rec("a"), rec("b")}, now)

	require.Len(t, res.New, 2)
	for _, r := range res.New {
		assert.True(t, r.AddedAt.Equal(now))
	}
}

func TestMergeCollapsesDuplicatesWithinBatch(t *testing.T) {
	res := Merge(nil, []Record{rec("a"), rec("a"), rec("a")}, time.Now())
	require.Len(t, res.New, 1)
	assert.Equal(t, 2, res.Known)
}

func TestMergeSkipsEmptyPlaceID(t *testing.T) {
	res := Merge(nil, []Record{{Name: "no id"}, rec("a")}, time.Now())
	require.Len(t, res.New, 1)
	assert.Equal(t, "a", res.New[0].PlaceID)
	assert.Zero(t, res.Known)
}

func TestMergeNeverMutatesExistingRows(t *testing.T) {
	stamped := rec("a")
	stamped.AddedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := []Record{stamped}

	Merge(existing, []Record{rec("a")}, time.Date(2025, 9, 24, 0, 0, 0, 0, time.UTC))

	assert.True(t, existing[0].AddedAt.Equal(stamped.AddedAt), "existing row must keep its original stamp")
}

func TestValidateRawTab(t *testing.T) {
	assert.NoError(t, ValidateRawTab("Chattanooga_Raw"))
	assert.Error(t, ValidateRawTab("Chattanooga_View"))
	assert.Error(t, ValidateRawTab("Chattanooga"))
}
