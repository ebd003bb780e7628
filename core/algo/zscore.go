package algo

import (
	"fmt"
	"math"
)

// ZScore returns the two-tailed standard normal quantile for a confidence level,
// i.e. the z such that P(-z <= Z <= z) = confidence. Since that probability is
// erf(z/√2), the quantile is √2·erfinv(confidence), which is a closed form and
// therefore identical for identical inputs.
func ZScore(confidence float64) (float64, error) {
	if math.IsNaN(confidence) || confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("%w: confidence level must be in (0, 1), got %v", ErrInvalidParams, confidence)
	}
	return math.Sqrt2 * math.Erfinv(confidence), nil
}
