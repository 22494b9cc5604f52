package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCitiesDefaults(t *testing.T) {
	cfg, err := LoadCities("")
	require.NoError(t, err)

	require.Len(t, cfg.Cities, 3)
	assert.Equal(t, []string{"Chattanooga", "Medellín", "Santa Cruz"}, cfg.CityOrder())
	assert.Equal(t, "SantaCruz_Raw", cfg.Cities[2].Tab)
	assert.Equal(t, 100, cfg.Scan.MaxPlacesPerRequest)
	assert.Equal(t, 500, cfg.Scan.OverallMax)
	assert.Equal(t, 100*time.Millisecond, cfg.Scan.DetailsPause)
	assert.True(t, cfg.Scan.OnlyTemporarilyClosed)
	assert.NotEmpty(t, cfg.Scan.Types)
}

func TestLoadCitiesFromYAML(t *testing.T) {
	yaml := `
cities:
  - name: Testville
    lat: 1.5
    lng: -2.5
    tab: Testville_Raw
scan:
  radius_m: 1000
  types: [cafe]
  max_places_per_request: 10
  overall_max: 50
  details_pause: 250ms
`
	path := filepath.Join(t.TempDir(), "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadCities(path)
	require.NoError(t, err)

	require.Len(t, cfg.Cities, 1)
	assert.Equal(t, "Testville", cfg.Cities[0].DisplayName, "display name defaults to name")
	assert.Equal(t, 1000, cfg.Scan.RadiusM)
	assert.Equal(t, 250*time.Millisecond, cfg.Scan.DetailsPause)
	assert.Equal(t, []string{"cafe"}, cfg.Scan.Types)
}

func TestLoadCitiesRejectsIncompleteCity(t *testing.T) {
	yaml := `
cities:
  - name: NoTab
    lat: 1
    lng: 2
`
	path := filepath.Join(t.TempDir(), "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := LoadCities(path)
	assert.ErrorContains(t, err, "no tab")
}
