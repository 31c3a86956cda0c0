// Package ranking scores jobs and learning resources against a profile and ranks
// the scored candidates.
package ranking

import "math"

// NeutralScore is used when no factor of a candidate could be evaluated
const NeutralScore = 0.5

// factor is one weighted sub-score. A factor whose inputs are absent is not
// evaluated and takes no part in the total.
type factor struct {
	name      string
	weight    float64
	value     float64
	evaluated bool
}

// combine returns Σ wᵢ·sᵢ / Σ wᵢ over the evaluated factors, so the weights of the
// factors actually used always sum to one. With no evaluated factor the score is
// NeutralScore and ok is false. The breakdown maps factor name to sub-score.
func combine(factors []factor) (score float64, breakdown map[string]float64, ok bool) {
	breakdown = make(map[string]float64, len(factors))
	total, weights := 0.0, 0.0
	for _, f := range factors {
		if !f.evaluated {
			continue
		}
		v := clamp01(f.value)
		breakdown[f.name] = round4(v)
		total += f.weight * v
		weights += f.weight
	}
	if weights == 0 {
		return NeutralScore, breakdown, false
	}
	return round4(clamp01(total / weights)), breakdown, true
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round4 keeps scores stable when serialized
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
