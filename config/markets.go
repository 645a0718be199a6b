package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MarketArea is a named area the valuation tables know about.
type MarketArea struct {
	Name     string    `yaml:"name" json:"name"`
	Center   []float64 `yaml:"center" json:"center"` // [lat, lng]
	RadiusKm float64   `yaml:"radius_km" json:"radius_km"`
}

// MarketConfig is the layout of the market areas file.
type MarketConfig struct {
	MarketAreas []MarketArea `yaml:"market_areas"`
}

// DefaultMarketAreas covers the coast north-east of Barcelona.
var DefaultMarketAreas = []MarketArea{
	{Name: "Barcelona", Center: []float64{41.3874, 2.1686}, RadiusKm: 7},
	{Name: "Badalona", Center: []float64{41.4500, 2.2474}, RadiusKm: 4},
	{Name: "El Masnou", Center: []float64{41.4797, 2.3190}, RadiusKm: 2.5},
	{Name: "Premià de Mar", Center: []float64{41.4915, 2.3620}, RadiusKm: 2.5},
	{Name: "Mataró", Center: []float64{41.5381, 2.4445}, RadiusKm: 5},
	{Name: "Maresme", Center: []float64{41.6000, 2.5500}, RadiusKm: 25},
	{Name: "Sitges", Center: []float64{41.2372, 1.8059}, RadiusKm: 5},
}

// LoadMarketAreas reads market areas from a YAML file. An empty path returns
// DefaultMarketAreas.
func LoadMarketAreas(path string) ([]MarketArea, error) {
	if path == "" {
		areas := make([]MarketArea, len(DefaultMarketAreas))
		copy(areas, DefaultMarketAreas)
		return areas, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read market areas file: %w", err)
	}

	var cfg MarketConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse market areas file: %w", err)
	}

	if len(cfg.MarketAreas) == 0 {
		return nil, fmt.Errorf("no market areas defined in %s", path)
	}
	for _, area := range cfg.MarketAreas {
		if err := area.validate(); err != nil {
			return nil, err
		}
	}
	return cfg.MarketAreas, nil
}

func (a MarketArea) validate() error {
	if a.Name == "" {
		return fmt.Errorf("market area without a name")
	}
	if len(a.Center) != 2 {
		return fmt.Errorf("market area %s: center must be [lat, lng]", a.Name)
	}
	if a.Center[0] < -90 || a.Center[0] > 90 || a.Center[1] < -180 || a.Center[1] > 180 {
		return fmt.Errorf("market area %s: center out of range", a.Name)
	}
	if a.RadiusKm <= 0 {
		return fmt.Errorf("market area %s: radius must be positive", a.Name)
	}
	return nil
}
