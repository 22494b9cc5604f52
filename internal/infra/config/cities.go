package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CityPreset names one configured city: its scan center and raw tab.
type CityPreset struct {
	Name        string  `yaml:"name"`
	DisplayName string  `yaml:"display_name"` // defaults to Name
	Lat         float64 `yaml:"lat"`
	Lng         float64 `yaml:"lng"`
	Tab         string  `yaml:"tab"`
}

// ScanSettings tunes the area scan shared by all cities.
type ScanSettings struct {
	RadiusM               int      `yaml:"radius_m"`
	Types                 []string `yaml:"types"`
	OperatingStatus       []string `yaml:"operating_status"`
	OnlyTemporarilyClosed bool     `yaml:"only_temporarily_closed"`
	MaxPlacesPerRequest   int      `yaml:"max_places_per_request"`
	OverallMax            int      `yaml:"overall_max"`
	DetailsPauseStr       string   `yaml:"details_pause"`

	DetailsPause time.Duration `yaml:"-"` // parsed from DetailsPauseStr
}

// CitiesConfig is the YAML-backed city list plus scan tuning.
type CitiesConfig struct {
	Cities []CityPreset `yaml:"cities"`
	Scan   ScanSettings `yaml:"scan"`
}

// CityOrder returns the configured display names in configured order. The
// summary body follows this order, not an alphabetical or map order.
func (c *CitiesConfig) CityOrder() []string {
	order := make([]string, 0, len(c.Cities))
	for _, city := range c.Cities {
		order = append(order, city.DisplayName)
	}
	return order
}

// LoadCities reads the cities config from the given YAML path. An empty path
// yields the built-in defaults.
func LoadCities(path string) (*CitiesConfig, error) {
	cfg := defaultCities()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read cities config: %w", err)
		}
		cfg = &CitiesConfig{}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cities config: %w", err)
		}
	}

	if len(cfg.Cities) == 0 {
		return nil, fmt.Errorf("cities config has no cities")
	}
	for i := range cfg.Cities {
		city := &cfg.Cities[i]
		if city.Name == "" {
			return nil, fmt.Errorf("city #%d has no name", i+1)
		}
		if city.Tab == "" {
			return nil, fmt.Errorf("city %q has no tab", city.Name)
		}
		if city.DisplayName == "" {
			city.DisplayName = city.Name
		}
	}

	if cfg.Scan.RadiusM <= 0 {
		cfg.Scan.RadiusM = 40234
	}
	if len(cfg.Scan.Types) == 0 {
		cfg.Scan.Types = defaultScanTypes()
	}
	if len(cfg.Scan.OperatingStatus) == 0 {
		cfg.Scan.OperatingStatus = []string{"OPERATING_STATUS_TEMPORARILY_CLOSED"}
	}
	if cfg.Scan.MaxPlacesPerRequest <= 0 {
		cfg.Scan.MaxPlacesPerRequest = 100
	}
	if cfg.Scan.OverallMax <= 0 {
		cfg.Scan.OverallMax = 500
	}
	cfg.Scan.DetailsPause = 100 * time.Millisecond
	if cfg.Scan.DetailsPauseStr != "" {
		d, err := time.ParseDuration(cfg.Scan.DetailsPauseStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse details_pause: %w", err)
		}
		cfg.Scan.DetailsPause = d
	}

	return cfg, nil
}

func defaultCities() *CitiesConfig {
	return &CitiesConfig{
		Cities: []CityPreset{
			{Name: "Chattanooga", Lat: 35.0456, Lng: -85.3097, Tab: "Chattanooga_Raw"},
			{Name: "Medellin", DisplayName: "Medellín", Lat: 6.2442, Lng: -75.5812, Tab: "Medellin_Raw"},
			{Name: "Santa Cruz", Lat: 36.9741, Lng: -122.0308, Tab: "SantaCruz_Raw"},
		},
		Scan: ScanSettings{OnlyTemporarilyClosed: true},
	}
}

func defaultScanTypes() []string {
	return []string{
		"restaurant",
		"cafe",
		"bakery",
		"bar",
		"coffee_shop",
		"meal_takeaway",
		"meal_delivery",
		"grocery_store",
		"convenience_store",
		"liquor_store",
		"pharmacy",
		"gas_station",
		"gym",
		"hardware_store",
		"electronics_store",
		"clothing_store",
		"department_store",
		"book_store",
		"home_goods_store",
		"furniture_store",
		"lodging",
	}
}
