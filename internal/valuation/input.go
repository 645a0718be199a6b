package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidInput is returned when a request cannot be turned into a
// PropertyDescription.
var ErrInvalidInput = errors.New("invalid input")

const (
	DefaultSurface      = 80.0
	DefaultRooms        = 2
	DefaultBathrooms    = 1
	DefaultLocation     = "Barcelona"
	DefaultPropertyType = TypeFlat
	DefaultCondition    = ConditionGood

	// Upper bounds accepted from requests. They keep every estimate well
	// inside the int64 range of Result.
	MaxSurface   = 1_000_000.0
	MaxRoomCount = 1000

	// Buildings of unknown age are assumed to fall in the neutral age band.
	defaultAge = 10
)

// Number is a JSON field that accepts either a number or a numeric string.
type Number struct {
	raw    string
	quoted bool
	set    bool
}

// NumberOf builds a set Number from a Go value.
func NumberOf(v float64) Number {
	return Number{raw: strconv.FormatFloat(v, 'f', -1, 64), set: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = Number{}
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*n = Number{raw: strings.TrimSpace(str), quoted: true, set: true}
		return nil
	}

	*n = Number{raw: s, set: true}
	return nil
}

// IsSet reports whether the field was present and not null.
func (n Number) IsSet() bool {
	return n.set
}

// Float parses the value as a finite real number.
func (n Number) Float() (float64, error) {
	v, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", n.raw)
	}
	return v, nil
}

// Int parses the value as an integer. JSON numbers with a fraction are
// truncated; numeric strings must be integral.
func (n Number) Int() (int, error) {
	if n.quoted {
		v, err := strconv.Atoi(n.raw)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n.raw)
		}
		return v, nil
	}

	f, err := n.Float()
	if err != nil {
		return 0, err
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%q is out of range", n.raw)
	}
	return int(f), nil
}

// AnalysisRequest is the body of a property-analysis call.
type AnalysisRequest struct {
	Surface      Number   `json:"surface"`
	Rooms        Number   `json:"rooms"`
	Bathrooms    Number   `json:"bathrooms"`
	Location     string   `json:"location"`
	PropertyType string   `json:"property_type"`
	YearBuilt    Number   `json:"year_built"`
	Condition    string   `json:"condition"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// Locator resolves coordinates to a market area name.
type Locator interface {
	Locate(lat, lng float64) (string, bool)
}

// ParseRequest applies defaults to req and validates it. Errors wrap
// ErrInvalidInput. loc may be nil.
func ParseRequest(req AnalysisRequest, now time.Time, loc Locator) (PropertyDescription, error) {
	p := PropertyDescription{
		Surface:      DefaultSurface,
		Rooms:        DefaultRooms,
		Bathrooms:    DefaultBathrooms,
		Location:     DefaultLocation,
		PropertyType: DefaultPropertyType,
		YearBuilt:    now.Year() - defaultAge,
		Condition:    DefaultCondition,
	}

	var err error
	if req.Surface.IsSet() {
		if p.Surface, err = req.Surface.Float(); err != nil {
			return p, fmt.Errorf("%w: surface: %v", ErrInvalidInput, err)
		}
		if p.Surface <= 0 {
			return p, fmt.Errorf("%w: surface must be positive", ErrInvalidInput)
		}
		if p.Surface > MaxSurface {
			return p, fmt.Errorf("%w: surface must not exceed %g", ErrInvalidInput, MaxSurface)
		}
	}
	if req.Rooms.IsSet() {
		if p.Rooms, err = req.Rooms.Int(); err != nil {
			return p, fmt.Errorf("%w: rooms: %v", ErrInvalidInput, err)
		}
		if p.Rooms < 0 {
			return p, fmt.Errorf("%w: rooms must not be negative", ErrInvalidInput)
		}
		if p.Rooms > MaxRoomCount {
			return p, fmt.Errorf("%w: rooms must not exceed %d", ErrInvalidInput, MaxRoomCount)
		}
	}
	if req.Bathrooms.IsSet() {
		if p.Bathrooms, err = req.Bathrooms.Int(); err != nil {
			return p, fmt.Errorf("%w: bathrooms: %v", ErrInvalidInput, err)
		}
		if p.Bathrooms < 0 {
			return p, fmt.Errorf("%w: bathrooms must not be negative", ErrInvalidInput)
		}
		if p.Bathrooms > MaxRoomCount {
			return p, fmt.Errorf("%w: bathrooms must not exceed %d", ErrInvalidInput, MaxRoomCount)
		}
	}
	if req.YearBuilt.IsSet() {
		if p.YearBuilt, err = req.YearBuilt.Int(); err != nil {
			return p, fmt.Errorf("%w: year_built: %v", ErrInvalidInput, err)
		}
	}

	// Categories are matched exactly, like the lookup tables.
	if req.Location != "" {
		p.Location = req.Location
	} else if loc != nil && req.Latitude != nil && req.Longitude != nil {
		if name, ok := loc.Locate(*req.Latitude, *req.Longitude); ok {
			p.Location = name
		}
	}
	if req.PropertyType != "" {
		p.PropertyType = PropertyType(req.PropertyType)
	}
	if req.Condition != "" {
		p.Condition = Condition(req.Condition)
	}

	return p, nil
}
