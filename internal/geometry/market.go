package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"

	"esklenchen/server/config"
)

type marketArea struct {
	name   string
	center orb.Point
	bound  orb.Bound
	radius float64 // meters
}

// MarketLocator maps coordinates to the market area they fall in.
type MarketLocator struct {
	areas  []marketArea
	logger *logrus.Logger
}

func NewMarketLocator(areas []config.MarketArea, logger *logrus.Logger) (*MarketLocator, error) {
	if logger == nil {
		logger = logrus.New()
	}

	l := &MarketLocator{logger: logger}
	for _, area := range areas {
		if len(area.Center) != 2 {
			return nil, fmt.Errorf("market area %s: center must be [lat, lng]", area.Name)
		}
		if area.RadiusKm <= 0 {
			return nil, fmt.Errorf("market area %s: radius must be positive", area.Name)
		}

		// orb points are (lng, lat)
		center := orb.Point{area.Center[1], area.Center[0]}
		radius := area.RadiusKm * 1000
		l.areas = append(l.areas, marketArea{
			name:   area.Name,
			center: center,
			bound:  geo.NewBoundAroundPoint(center, radius),
			radius: radius,
		})
	}

	logger.WithField("areas", len(l.areas)).Info("Market locator initialized")
	return l, nil
}

// Locate returns the market area whose centre is closest to the point, among
// the areas whose radius contains it.
func (l *MarketLocator) Locate(lat, lng float64) (string, bool) {
	point := orb.Point{lng, lat}

	name := ""
	best := math.MaxFloat64
	for _, area := range l.areas {
		if !area.bound.Contains(point) {
			continue
		}
		d := geo.Distance(area.center, point)
		if d <= area.radius && d < best {
			name, best = area.name, d
		}
	}

	if name == "" {
		l.logger.WithFields(logrus.Fields{
			"latitude":  lat,
			"longitude": lng,
		}).Debug("Coordinates outside every market area")
		return "", false
	}

	l.logger.WithFields(logrus.Fields{
		"latitude":    lat,
		"longitude":   lng,
		"market_area": name,
		"distance_m":  math.Round(best),
	}).Debug("Resolved market area")
	return name, true
}

// Areas returns the configured area names in configuration order.
func (l *MarketLocator) Areas() []string {
	names := make([]string, len(l.areas))
	for i, area := range l.areas {
		names[i] = area.name
	}
	return names
}
