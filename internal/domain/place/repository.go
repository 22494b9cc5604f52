package place

import (
	"context"
)

// TableStore defines the operations the scanner needs from a raw table
// backend. Tabs are append-only: the scanner reads the full table, decides
// what is new, and appends exactly once per city per run. The store is the
// only party that can make an append atomic; the scanner assumes at most one
// writer at a time.
type TableStore interface {
	// EnsureTab makes sure the tab exists and carries the required header row.
	EnsureTab(ctx context.Context, tab string) error
	// ReadAll returns every record in the tab in row order.
	ReadAll(ctx context.Context, tab string) ([]Record, error)
	// Append adds the given records to the end of the tab, preserving order.
	Append(ctx context.Context, tab string, records []Record) error
}
