package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"suspended_business_scanner/internal/domain/place"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// tableNamePattern limits what a tab name may map to, since table names
// cannot be bound as query parameters.
var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// PostgresTableStore implements place.TableStore on one Postgres table per
// city. Rows are append-only; the seq column preserves append order.
type PostgresTableStore struct {
	db *sql.DB
}

func NewPostgresTableStore(db *sql.DB) *PostgresTableStore {
	return &PostgresTableStore{db: db}
}

// tableName maps a sheet-style tab name ("Chattanooga_Raw") to a Postgres
// table name ("chattanooga_raw").
func tableName(tab string) (string, error) {
	if err := place.ValidateRawTab(tab); err != nil {
		return "", err
	}
	name := strings.ToLower(strings.ReplaceAll(tab, " ", "_"))
	if !tableNamePattern.MatchString(name) {
		return "", fmt.Errorf("tab %q does not map to a valid table name", tab)
	}
	return name, nil
}

func (r *PostgresTableStore) EnsureTab(ctx context.Context, tab string) error {
	table, err := tableName(tab)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
               seq BIGSERIAL PRIMARY KEY,
               place_id TEXT NOT NULL UNIQUE,
               name TEXT NOT NULL DEFAULT '',
               business_status TEXT NOT NULL DEFAULT '',
               address TEXT NOT NULL DEFAULT '',
               lat DOUBLE PRECISION NOT NULL DEFAULT 0,
               lng DOUBLE PRECISION NOT NULL DEFAULT 0,
               types TEXT NOT NULL DEFAULT '',
               rating DOUBLE PRECISION NOT NULL DEFAULT 0,
               rating_count INTEGER NOT NULL DEFAULT 0,
               keyword TEXT NOT NULL DEFAULT '',
               grid_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
               grid_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
               added_at_utc TIMESTAMPTZ
       )`, table)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("error ensuring table %s: %w", table, err)
	}
	return nil
}

func (r *PostgresTableStore) ReadAll(ctx context.Context, tab string) ([]place.Record, error) {
	table, err := tableName(tab)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT place_id, name, business_status, address, lat, lng, types,
               rating, rating_count, keyword, grid_lat, grid_lng, added_at_utc
               FROM %s ORDER BY seq`, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error reading rows from %s: %w", table, err)
	}
	defer rows.Close()

	records := make([]place.Record, 0)
	for rows.Next() {
		var rec place.Record
		var addedAt sql.NullTime
		if err := rows.Scan(&rec.PlaceID, &rec.Name, &rec.BusinessStatus, &rec.Address,
			&rec.Lat, &rec.Lng, &rec.Types, &rec.Rating, &rec.RatingCount,
			&rec.Keyword, &rec.GridLat, &rec.GridLng, &addedAt); err != nil {
			return nil, fmt.Errorf("error scanning row from %s: %w", table, err)
		}
		if addedAt.Valid {
			rec.AddedAt = addedAt.Time.UTC()
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", table, err)
	}
	return records, nil
}

func (r *PostgresTableStore) Append(ctx context.Context, tab string, records []place.Record) error {
	table, err := tableName(tab)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (place_id, name, business_status, address, lat, lng,
               types, rating, rating_count, keyword, grid_lat, grid_lng, added_at_utc)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
               ON CONFLICT (place_id) DO NOTHING`, table)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting append transaction for %s: %w", table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error preparing append for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var addedAt sql.NullTime
		if !rec.AddedAt.IsZero() {
			addedAt = sql.NullTime{Time: rec.AddedAt.UTC(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, rec.PlaceID, rec.Name, rec.BusinessStatus, rec.Address,
			rec.Lat, rec.Lng, rec.Types, rec.Rating, rec.RatingCount,
			rec.Keyword, rec.GridLat, rec.GridLng, addedAt); err != nil {
			return fmt.Errorf("error appending place %s to %s: %w", rec.PlaceID, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing append for %s: %w", table, err)
	}
	return nil
}
