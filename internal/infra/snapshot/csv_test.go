package snapshot

import (
	"os"
	"strings"
	"testing"
	"time"

	"suspended_business_scanner/internal/domain/place"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSnapshot(t *testing.T) {
	w := NewWriter(t.TempDir())
	runTime := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)
	records := []place.Record{
		{PlaceID: "pid_1", Name: "Test Café", Types: "cafe,food", Rating: 4.5, RatingCount: 12, AddedAt: runTime},
		{PlaceID: "pid_2", Name: "Other Place"},
	}

	path, err := w.WriteSnapshot("Chattanooga_Raw", runTime, records)
	require.NoError(t, err)
	assert.Contains(t, path, "Chattanooga_Raw_20250924T120000Z.csv")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3, "header plus one line per record")
	assert.Equal(t, strings.Join(place.Headers(), ","), lines[0])
	assert.Contains(t, lines[1], "pid_1")
	assert.Contains(t, lines[1], "2025-09-24T12:00:00Z")
	assert.Contains(t, lines[2], "pid_2")
}
