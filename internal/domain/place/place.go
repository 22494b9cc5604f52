package place

import (
	"fmt"
	"strings"
	"time"
)

// AddedAtLayout is the timestamp format used for the added_at_utc column.
const AddedAtLayout = time.RFC3339

// Record represents one observed place in a city's raw table.
type Record struct {
	PlaceID        string
	Name           string
	BusinessStatus string
	Address        string
	Lat            float64
	Lng            float64
	Types          string // comma-joined type list, as stored
	Rating         float64
	RatingCount    int
	Keyword        string
	GridLat        float64
	GridLng        float64
	AddedAt        time.Time // zero when the row predates the added_at_utc column
}

// Headers returns the required header row for a raw table, in column order.
func Headers() []string {
	return []string{
		"place_id",
		"name",
		"business_status",
		"address",
		"lat",
		"lng",
		"types",
		"rating",
		"rating_count",
		"keyword",
		"grid_lat",
		"grid_lng",
		"added_at_utc",
	}
}

// RawTabSuffix is mandatory for every writable tab, so a misconfigured tab
// name can never hit a *_View or other derived tab.
const RawTabSuffix = "_Raw"

// ValidateRawTab rejects tab names that are not raw place tables.
func ValidateRawTab(tab string) error {
	if !strings.HasSuffix(tab, RawTabSuffix) {
		return fmt.Errorf("refusing to use tab %q: raw tabs must end with %q", tab, RawTabSuffix)
	}
	return nil
}
