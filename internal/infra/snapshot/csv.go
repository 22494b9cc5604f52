package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"suspended_business_scanner/internal/domain/place"

	"github.com/jszwec/csvutil"
)

// row is the CSV projection of a place record; headers match the raw tab.
type row struct {
	PlaceID        string  `csv:"place_id"`
	Name           string  `csv:"name"`
	BusinessStatus string  `csv:"business_status"`
	Address        string  `csv:"address"`
	Lat            float64 `csv:"lat"`
	Lng            float64 `csv:"lng"`
	Types          string  `csv:"types"`
	Rating         float64 `csv:"rating"`
	RatingCount    int     `csv:"rating_count"`
	Keyword        string  `csv:"keyword"`
	GridLat        float64 `csv:"grid_lat"`
	GridLng        float64 `csv:"grid_lng"`
	AddedAtUTC     string  `csv:"added_at_utc"`
}

// Writer dumps each run's newly appended rows to a per-city CSV file, as a
// local audit trail alongside the shared table.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteSnapshot writes the records to <dir>/<tab>_<runstamp>.csv and returns
// the file path.
func (w *Writer) WriteSnapshot(tab string, runTime time.Time, records []place.Record) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	rows := make([]row, 0, len(records))
	for _, rec := range records {
		addedAt := ""
		if !rec.AddedAt.IsZero() {
			addedAt = rec.AddedAt.UTC().Format(place.AddedAtLayout)
		}
		rows = append(rows, row{
			PlaceID:        rec.PlaceID,
			Name:           rec.Name,
			BusinessStatus: rec.BusinessStatus,
			Address:        rec.Address,
			Lat:            rec.Lat,
			Lng:            rec.Lng,
			Types:          rec.Types,
			Rating:         rec.Rating,
			RatingCount:    rec.RatingCount,
			Keyword:        rec.Keyword,
			GridLat:        rec.GridLat,
			GridLng:        rec.GridLng,
			AddedAtUTC:     addedAt,
		})
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot CSV: %w", err)
	}

	name := fmt.Sprintf("%s_%s.csv", tab, runTime.UTC().Format("20060102T150405Z"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return path, nil
}
