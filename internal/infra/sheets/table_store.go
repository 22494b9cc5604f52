package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"suspended_business_scanner/internal/domain/place"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/sheets/v4"
)

// readRange spans the 13 columns of the raw table header.
const readRange = "A:M"

// TableStore implements place.TableStore on top of one Google spreadsheet,
// one tab per city.
type TableStore struct {
	svc           *sheets.Service
	spreadsheetID string
	log           *logrus.Logger
}

func NewTableStore(svc *sheets.Service, spreadsheetID string, log *logrus.Logger) *TableStore {
	return &TableStore{svc: svc, spreadsheetID: spreadsheetID, log: log}
}

// EnsureTab creates the tab with the required header row if it does not
// exist, and writes the header if the tab exists but is empty.
func (s *TableStore) EnsureTab(ctx context.Context, tab string) error {
	if err := place.ValidateRawTab(tab); err != nil {
		return err
	}

	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}
	exists := false
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			exists = true
			break
		}
	}

	if !exists {
		s.log.Infof("Tab %q not found; creating it.", tab)
		_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: tab},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to add tab %q: %w", tab, err)
		}
	}

	first, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, tab+"!1:1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row of %q: %w", tab, err)
	}
	if len(first.Values) == 0 || len(first.Values[0]) == 0 {
		header := make([]interface{}, 0, len(place.Headers()))
		for _, h := range place.Headers() {
			header = append(header, h)
		}
		_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, tab+"!1:1", &sheets.ValueRange{
			Values: [][]interface{}{header},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write header row of %q: %w", tab, err)
		}
	}
	return nil
}

// ReadAll returns every record in the tab in row order, skipping the header.
func (s *TableStore) ReadAll(ctx context.Context, tab string) ([]place.Record, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, tab+"!"+readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %q: %w", tab, err)
	}

	records := make([]place.Record, 0, len(resp.Values))
	for i, row := range resp.Values {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		rec := rowToRecord(row)
		if rec.PlaceID == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append adds the records to the end of the tab with RAW input semantics.
func (s *TableStore) Append(ctx context.Context, tab string, records []place.Record) error {
	if err := place.ValidateRawTab(tab); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	values := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		values = append(values, recordToRow(rec))
	}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, tab+"!"+readRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append %d rows to %q: %w", len(records), tab, err)
	}
	return nil
}

func isHeaderRow(row []interface{}) bool {
	if len(row) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(cellString(row, 0)), "place_id")
}

func rowToRecord(row []interface{}) place.Record {
	return place.Record{
		PlaceID:        cellString(row, 0),
		Name:           cellString(row, 1),
		BusinessStatus: cellString(row, 2),
		Address:        cellString(row, 3),
		Lat:            cellFloat(row, 4),
		Lng:            cellFloat(row, 5),
		Types:          cellString(row, 6),
		Rating:         cellFloat(row, 7),
		RatingCount:    cellInt(row, 8),
		Keyword:        cellString(row, 9),
		GridLat:        cellFloat(row, 10),
		GridLng:        cellFloat(row, 11),
		AddedAt:        cellTime(row, 12),
	}
}

func recordToRow(rec place.Record) []interface{} {
	addedAt := ""
	if !rec.AddedAt.IsZero() {
		addedAt = rec.AddedAt.UTC().Format(place.AddedAtLayout)
	}
	return []interface{}{
		rec.PlaceID,
		rec.Name,
		rec.BusinessStatus,
		rec.Address,
		rec.Lat,
		rec.Lng,
		rec.Types,
		rec.Rating,
		rec.RatingCount,
		rec.Keyword,
		gridCell(rec.GridLat),
		gridCell(rec.GridLng),
		addedAt,
	}
}

// gridCell keeps unset grid coordinates as blank cells, matching the rows
// written before grid scanning was retired.
func gridCell(v float64) interface{} {
	if v == 0 {
		return ""
	}
	return v
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func cellFloat(row []interface{}, idx int) float64 {
	raw := cellString(row, idx)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func cellInt(row []interface{}, idx int) int {
	raw := cellString(row, idx)
	if raw == "" {
		return 0
	}
	// Sheets sometimes hands back integer cells as "12" and sometimes "12.0".
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

// cellTime parses added_at_utc. A malformed timestamp is treated the same
// as a missing one: the record is simply excluded from weekly counts.
func cellTime(row []interface{}, idx int) time.Time {
	raw := cellString(row, idx)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(place.AddedAtLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
