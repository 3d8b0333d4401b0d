package match

// ConfidenceFunc scores a combined-pattern match from its realized gaps.
// totalGap is the sum of tokens skipped across all component boundaries,
// maxGap the per-boundary bound, components the component count.
//
// The gap bound itself is the matching contract (a boundary exceeding it is
// never a match); the confidence curve is only a ranking heuristic and is
// replaceable per matcher.
type ConfidenceFunc func(totalGap, maxGap, components int) float32

// GapScaledConfidence is the default scoring policy: a tight realization
// scores 1.0, and confidence decays linearly with the realized gap down to a
// floor of 0.5. Larger gaps are weaker evidence but still accepted once each
// boundary stayed within the configured bound.
func GapScaledConfidence(totalGap, maxGap, components int) float32 {
	budget := maxGap*(components-1) + 1
	if budget < 1 {
		budget = 1
	}
	conf := 0.5 + 0.5*(1.0-float32(totalGap)/float32(budget))
	if conf > 1.0 {
		conf = 1.0
	}
	if conf < 0.5 {
		conf = 0.5
	}
	return conf
}
