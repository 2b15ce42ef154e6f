// Package rewards computes the point award for a resolved report. The
// calculator is pure: no I/O, no clock access, deterministic for its inputs.
package rewards

import (
	"math"
	"time"

	"smartbin/internal/domain"
)

// Base rewards per incident type. Unknown types earn the full-bin reward.
var baseRewards = map[domain.ReportType]int{
	domain.TypeFull:      15,
	domain.TypeDamaged:   20,
	domain.TypeHazardous: 25,
	domain.TypeEmergency: 30,
}

const defaultBaseReward = 15

// quickResolutionWindow is the latency under which the speed bonus applies.
const quickResolutionWindow = 24 * time.Hour

// Input is the pre-mutation report snapshot plus the resolution instant.
// Signals must reflect the report as it stood when resolution began.
type Input struct {
	Report     domain.Report
	ResolvedAt time.Time
}

// Rule is one bonus: a predicate, the multiplier it contributes, and the
// label recorded in the breakdown.
type Rule struct {
	Label      string
	Multiplier float64
	Applies    func(in Input) bool
}

// defaultRules in evaluation order. Multiplication commutes, but the
// breakdown preserves this order for audit readability.
//
// The urgency rule deliberately folds "explicitly urgent" and "escalated by
// age" into one non-stacking bonus: a report that is both still earns 1.5x
// once.
func defaultRules() []Rule {
	return []Rule{
		{
			Label:      "Urgent incident (+50%)",
			Multiplier: 1.5,
			Applies: func(in Input) bool {
				return in.Report.Priority == domain.PriorityUrgent ||
					in.Report.Status == domain.StatusEscalated
			},
		},
		{
			Label:      "Photo verification (+25%)",
			Multiplier: 1.25,
			Applies: func(in Input) bool {
				return in.Report.Photo != ""
			},
		},
		{
			Label:      "GPS location (+20%)",
			Multiplier: 1.2,
			Applies: func(in Input) bool {
				return in.Report.Coordinates != nil
			},
		},
		{
			Label:      "Quick resolution (+10%)",
			Multiplier: 1.1,
			Applies: func(in Input) bool {
				return in.ResolvedAt.Sub(in.Report.Timestamp) <= quickResolutionWindow
			},
		},
	}
}

// Calculator evaluates the ordered rule table.
type Calculator struct {
	rules []Rule
}

func NewCalculator() *Calculator {
	return &Calculator{rules: defaultRules()}
}

// Compute returns the full points accounting for a resolution.
// FinalPoints rounds half-up (0.5 rounds away from zero), matching the
// product's reward tables; tests pin the .5 cases.
func (c *Calculator) Compute(report domain.Report, resolvedAt time.Time) domain.PointsBreakdown {
	base, ok := baseRewards[report.Type]
	if !ok {
		base = defaultBaseReward
	}

	in := Input{Report: report, ResolvedAt: resolvedAt}
	breakdown := domain.PointsBreakdown{
		BasePoints: base,
		Multiplier: 1.0,
	}
	for _, rule := range c.rules {
		if rule.Applies(in) {
			breakdown.Multiplier *= rule.Multiplier
			breakdown.Bonuses = append(breakdown.Bonuses, domain.Bonus{
				Label:      rule.Label,
				Multiplier: rule.Multiplier,
			})
		}
	}

	breakdown.FinalPoints = roundHalfUp(float64(base) * breakdown.Multiplier)
	return breakdown
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
