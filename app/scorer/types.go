package scorer

import (
	"context"
	"math"
)

// Factors holds the seven significance factors, each in [0,10], plus the
// derived composite score.
type Factors struct {
	Scale       float64 `json:"scale"`
	Impact      float64 `json:"impact"`
	Novelty     float64 `json:"novelty"`
	Potential   float64 `json:"potential"`
	Legacy      float64 `json:"legacy"`
	Positivity  float64 `json:"positivity"`
	Credibility float64 `json:"credibility"`
	Score       float64 `json:"score"`
}

// Strategy computes significance factors for an article. Implementations
// are pure functions of their inputs and configuration; attaching the
// result to a record is the caller's concern.
type Strategy interface {
	Name() string
	Score(ctx context.Context, title, content, language string) (Factors, error)
}

// Composite computes the fixed weighted score from the seven factors,
// rounded to 3 decimal places. The formula is the same regardless of which
// strategy produced the factors:
//
//	score = 0.05*positivity + (0.95/6)*(scale+impact+novelty+potential+legacy+credibility)
func Composite(f Factors) float64 {
	sum := f.Scale + f.Impact + f.Novelty + f.Potential + f.Legacy + f.Credibility
	score := 0.05*f.Positivity + (0.95/6.0)*sum
	return math.Round(score*1000) / 1000
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
