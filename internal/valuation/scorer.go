package valuation

import (
	"fmt"
	"math"
	"time"
)

const (
	roomBonus     = 8000.0
	bathroomBonus = 5000.0

	noiseSpread = 0.10

	minConfidence = 0.75
	maxConfidence = 0.95

	minROI = 8.0
	maxROI = 15.0

	// Below this price per m² a rising market is flagged as a bargain.
	bargainPricePerArea = 4000.0
)

// MarketTrend is the sampled direction of the local market.
type MarketTrend string

const (
	TrendPositive MarketTrend = "positive"
	TrendStable   MarketTrend = "stable"
	TrendNegative MarketTrend = "negative"
)

var (
	trends       = []MarketTrend{TrendPositive, TrendStable, TrendNegative}
	trendWeights = []float64{0.6, 0.3, 0.1}
)

const (
	RecommendationExcellent = "Excelente oportunidad de inversión: precio por debajo de la media en un mercado al alza"
	RecommendationGood      = "Buena oportunidad de inversión"
	RecommendationStable    = "Inversión estable, evalúe la rentabilidad a largo plazo"
	RecommendationNegative  = "Mercado en corrección, evalúe la compra con cautela"
)

// PropertyDescription holds the factors a valuation is computed from. Callers
// are expected to have applied defaults already (see ParseRequest).
type PropertyDescription struct {
	Surface      float64      `json:"surface"`
	Rooms        int          `json:"rooms"`
	Bathrooms    int          `json:"bathrooms"`
	Location     string       `json:"location"`
	PropertyType PropertyType `json:"property_type"`
	YearBuilt    int          `json:"year_built"`
	Condition    Condition    `json:"condition"`
}

// Factors echoes the description a result was computed from.
type Factors struct {
	PropertyDescription
	Age int `json:"age"`
}

// Result is a single valuation estimate.
type Result struct {
	EstimatedValue int64       `json:"estimated_value"`
	PricePerArea   int64       `json:"price_per_sqm"`
	Confidence     float64     `json:"confidence"`
	MarketTrend    MarketTrend `json:"market_trend"`
	ROIEstimate    string      `json:"roi_estimate"`
	Recommendation string      `json:"recommendation"`
	Factors        Factors     `json:"factors_analyzed"`
}

// Scorer produces valuation estimates. It holds no per-call state and may be
// shared across goroutines as long as its Source is.
type Scorer struct {
	src Source
	now func() time.Time
}

// NewScorer creates a scorer drawing from src. A nil src uses GlobalSource and
// a nil now uses time.Now.
func NewScorer(src Source, now func() time.Time) *Scorer {
	if src == nil {
		src = GlobalSource()
	}
	if now == nil {
		now = time.Now
	}
	return &Scorer{src: src, now: now}
}

// Baseline returns the value of p before market noise is applied.
func Baseline(p PropertyDescription, age int) float64 {
	baseValue := p.Surface * BasePricePerArea(p.Location)
	adjusted := baseValue *
		TypeMultiplier(p.PropertyType) *
		ConditionMultiplier(p.Condition) *
		AgeMultiplier(age)

	// Not clamped: zero rooms or bathrooms lower the value.
	rooms := float64(p.Rooms-1) * roomBonus
	bathrooms := float64(p.Bathrooms-1) * bathroomBonus

	return adjusted + rooms + bathrooms
}

// Estimate values p. Surface must be positive.
func (s *Scorer) Estimate(p PropertyDescription) Result {
	age := s.now().Year() - p.YearBuilt

	noise := Uniform(s.src, -noiseSpread, noiseSpread)
	finalValue := Baseline(p, age) * (1 + noise)
	pricePerArea := finalValue / p.Surface

	confidence := Uniform(s.src, minConfidence, maxConfidence)
	trend := trends[Weighted(s.src, trendWeights)]
	roi := Uniform(s.src, minROI, maxROI)

	return Result{
		EstimatedValue: roundInt(finalValue),
		PricePerArea:   roundInt(pricePerArea),
		Confidence:     confidence,
		MarketTrend:    trend,
		ROIEstimate:    formatPercent(roi),
		Recommendation: Recommend(trend, pricePerArea),
		Factors: Factors{
			PropertyDescription: p,
			Age:                 age,
		},
	}
}

// roundInt rounds half to even, saturating at the int64 range.
func roundInt(v float64) int64 {
	r := math.RoundToEven(v)
	switch {
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}

// Recommend picks the advice shown next to an estimate.
func Recommend(trend MarketTrend, pricePerArea float64) string {
	switch trend {
	case TrendPositive:
		if pricePerArea < bargainPricePerArea {
			return RecommendationExcellent
		}
		return RecommendationGood
	case TrendStable:
		return RecommendationStable
	default:
		return RecommendationNegative
	}
}

// formatPercent truncates to one decimal so the label never reads above the
// sampled value (14.97 is "14.9%", not "15.0%").
func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", math.Floor(v*10)/10)
}
