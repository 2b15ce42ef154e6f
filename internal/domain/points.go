package domain

// Bonus records a single multiplier applied to a reward.
type Bonus struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// PointsBreakdown is the full accounting of a reward computation. It is not
// persisted on its own; the audit entry embeds it for traceability.
type PointsBreakdown struct {
	BasePoints  int     `json:"basePoints"`
	Bonuses     []Bonus `json:"bonuses"`
	Multiplier  float64 `json:"multiplier"`
	FinalPoints int     `json:"finalPoints"`
}
