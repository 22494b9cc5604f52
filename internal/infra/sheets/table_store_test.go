package sheets

import (
	"testing"
	"time"

	"suspended_business_scanner/internal/domain/place"

	"github.com/stretchr/testify/assert"
)

func TestRowToRecord(t *testing.T) {
	row := []interface{}{
		"pid_1", "Test Café", "CLOSED_TEMPORARILY", "123 Test St",
		"35.0456", "-85.3097", "cafe,food", "4.5", "12", "cafe",
		"", "", "2025-09-24T12:00:00Z",
	}
	rec := rowToRecord(row)

	assert.Equal(t, "pid_1", rec.PlaceID)
	assert.Equal(t, "Test Café", rec.Name)
	assert.InDelta(t, 35.0456, rec.Lat, 1e-9)
	assert.InDelta(t, -85.3097, rec.Lng, 1e-9)
	assert.Equal(t, 12, rec.RatingCount)
	assert.Zero(t, rec.GridLat)
	assert.Equal(t, time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC), rec.AddedAt)
}

func TestRowToRecordShortRow(t *testing.T) {
	// Rows written before added_at_utc existed are shorter than the header.
	rec := rowToRecord([]interface{}{"pid_legacy", "Old Place"})
	assert.Equal(t, "pid_legacy", rec.PlaceID)
	assert.True(t, rec.AddedAt.IsZero())
}

func TestRowToRecordMalformedTimestamp(t *testing.T) {
	row := make([]interface{}, 13)
	row[0] = "pid"
	row[12] = "yesterday-ish"
	rec := rowToRecord(row)
	assert.True(t, rec.AddedAt.IsZero(), "malformed timestamp treated as absent")
}

func TestRecordToRowRoundTrip(t *testing.T) {
	rec := place.Record{
		PlaceID:        "pid_1",
		Name:           "Test Café",
		BusinessStatus: "CLOSED_TEMPORARILY",
		Address:        "123 Test St",
		Lat:            35.0456,
		Lng:            -85.3097,
		Types:          "cafe,food",
		Rating:         4.5,
		RatingCount:    12,
		Keyword:        "cafe",
		AddedAt:        time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC),
	}
	row := recordToRow(rec)
	assert.Len(t, row, len(place.Headers()))

	back := rowToRecord(row)
	assert.Equal(t, rec, back)
}

func TestIsHeaderRow(t *testing.T) {
	assert.True(t, isHeaderRow([]interface{}{"place_id", "name"}))
	assert.True(t, isHeaderRow([]interface{}{" Place_ID "}))
	assert.False(t, isHeaderRow([]interface{}{"pid_1"}))
	assert.False(t, isHeaderRow(nil))
}
